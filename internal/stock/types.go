package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel ids used inside grouping keys when a line carries no tag.
const (
	UncategorizedID = -1
	NoWoodID        = -1
)

// Mode selects how ledger lines are folded into aggregates.
type Mode int

const (
	// ModeComposite groups by (name, category, wood type). Sales missing a
	// category fall back to the first name match (see resolveSaleKey).
	ModeComposite Mode = iota
	// ModeNameOnly merges every purchase line sharing a product name into one
	// aggregate; category/wood type are kept for display only and reflect the
	// last purchase line seen.
	ModeNameOnly
)

// PurchaseLine is one purchase ledger entry. Purchases are the source of
// truth for what a product is: its category, wood type and latest price.
type PurchaseLine struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	CategoryID  *int
	WoodTypeID  *int
	Date        time.Time
}

// SaleLine is one sale ledger entry. Sales carry no wood-type tag and may
// omit the category.
type SaleLine struct {
	ProductName string
	Quantity    int
	CategoryID  *int
}

type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type WoodType struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// GroupingKey identifies one aggregate. Comparable so it can key a map.
type GroupingKey struct {
	Name       string
	CategoryID int // UncategorizedID when untagged
	WoodTypeID int // NoWoodID when untagged
}

// ProductAggregate holds the running totals for one grouping key.
type ProductAggregate struct {
	Key           GroupingKey     `json:"-"`
	Name          string          `json:"product_name"`
	CategoryID    *int            `json:"category_id"`
	WoodTypeID    *int            `json:"wood_type_id"`
	PurchasedQty  int             `json:"purchased_qty"`
	SoldQty       int             `json:"sold_qty"`
	LastUnitPrice decimal.Decimal `json:"last_unit_price"`
}

// Available is always derived, never stored.
func (a *ProductAggregate) Available() int { return a.PurchasedQty - a.SoldQty }

// AggregateSet is an insertion-ordered collection of aggregates. Order
// matters: the name-fallback scan resolves ambiguous sales to the first
// aggregate seen, so iteration must be deterministic.
type AggregateSet struct {
	byKey map[GroupingKey]*ProductAggregate
	order []GroupingKey

	// Diagnostic counters for sale lines that matched no aggregate. Their
	// quantity contributes to no SoldQty; callers may log them but the
	// request still succeeds.
	UnmatchedSales int
	UnmatchedQty   int
}

func newAggregateSet() *AggregateSet {
	return &AggregateSet{byKey: map[GroupingKey]*ProductAggregate{}}
}

func (s *AggregateSet) Get(k GroupingKey) (*ProductAggregate, bool) {
	a, ok := s.byKey[k]
	return a, ok
}

func (s *AggregateSet) Len() int { return len(s.order) }

// All returns aggregates in first-seen order.
func (s *AggregateSet) All() []*ProductAggregate {
	out := make([]*ProductAggregate, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	return out
}

func (s *AggregateSet) getOrCreate(k GroupingKey, name string) *ProductAggregate {
	if a, ok := s.byKey[k]; ok {
		return a
	}
	a := &ProductAggregate{Key: k, Name: name}
	if k.CategoryID != UncategorizedID {
		id := k.CategoryID
		a.CategoryID = &id
	}
	if k.WoodTypeID != NoWoodID {
		id := k.WoodTypeID
		a.WoodTypeID = &id
	}
	s.byKey[k] = a
	s.order = append(s.order, k)
	return a
}
