package stock

import (
	"context"
	"errors"
)

// ErrLedgerUnavailable wraps any failure to read the transaction ledgers.
// A failed fetch aborts the whole read path: no partial aggregation is ever
// produced from partial ledgers. Callers should treat it as retryable.
var ErrLedgerUnavailable = errors.New("ledger unavailable")

// Ledger is the read-only boundary to the transaction logs and catalog
// lists. Implementations must return the full current set visible to the
// caller, purchase and sale lines in chronological order, with no side
// effects.
type Ledger interface {
	PurchaseLines(ctx context.Context) ([]PurchaseLine, error)
	SaleLines(ctx context.Context) ([]SaleLine, error)
	Categories(ctx context.Context) ([]Category, error)
	WoodTypes(ctx context.Context) ([]WoodType, error)
}
