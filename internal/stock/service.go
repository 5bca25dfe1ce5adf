package stock

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Service orchestrates the four reconciliation read paths. Every call reads
// a fresh ledger snapshot and recomputes; nothing is cached across requests,
// so concurrent requests may observe different snapshots (accepted: latest-
// snapshot consistency, not serializability).
type Service struct {
	ledger Ledger
	log    *logrus.Entry
}

func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger, log: logrus.WithField("component", "stock")}
}

type snapshot struct {
	purchases  []PurchaseLine
	sales      []SaleLine
	categories []Category
	woodTypes  []WoodType
}

// snapshot fans out the independent sub-fetches; there is no ordering
// requirement between them, but aggregation only starts once all have
// returned. Any failure aborts the whole read (no partial ledgers).
func (s *Service) snapshot(ctx context.Context, includeCatalog bool) (*snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.purchases, err = s.ledger.PurchaseLines(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.sales, err = s.ledger.SaleLines(gctx)
		return err
	})
	if includeCatalog {
		g.Go(func() (err error) {
			snap.categories, err = s.ledger.Categories(gctx)
			return err
		})
		g.Go(func() (err error) {
			snap.woodTypes, err = s.ledger.WoodTypes(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	return &snap, nil
}

func (s *Service) warnUnmatched(set *AggregateSet) {
	if set.UnmatchedSales > 0 {
		s.log.WithFields(logrus.Fields{
			"lines":    set.UnmatchedSales,
			"quantity": set.UnmatchedQty,
		}).Warn("sale lines matched no purchase aggregate and were dropped from totals")
	}
}

// CategoryStock returns classified composite-mode aggregates, optionally
// scoped to one category (UncategorizedID selects untagged products).
func (s *Service) CategoryStock(ctx context.Context, categoryID *int, threshold int) ([]ProductStock, error) {
	snap, err := s.snapshot(ctx, false)
	if err != nil {
		return nil, err
	}
	set := Aggregate(snap.purchases, snap.sales, ModeComposite)
	s.warnUnmatched(set)

	all := ClassifyAll(set, threshold)
	if categoryID == nil {
		return all, nil
	}
	out := make([]ProductStock, 0, len(all))
	for _, ps := range all {
		switch {
		case *categoryID == UncategorizedID && ps.CategoryID == nil:
			out = append(out, ps)
		case ps.CategoryID != nil && *ps.CategoryID == *categoryID:
			out = append(out, ps)
		}
	}
	return out, nil
}

// AlertsResult carries both low-stock views: the banner bands (negatives
// included as critical) and the store-wide report (negatives excluded).
type AlertsResult struct {
	Critical []ProductStock `json:"critical"`
	Low      []ProductStock `json:"low"`
	Report   []ProductStock `json:"report"`
}

func (s *Service) StockAlerts(ctx context.Context, threshold int) (*AlertsResult, error) {
	snap, err := s.snapshot(ctx, false)
	if err != nil {
		return nil, err
	}
	set := Aggregate(snap.purchases, snap.sales, ModeComposite)
	s.warnUnmatched(set)

	res := &AlertsResult{
		Critical: []ProductStock{},
		Low:      []ProductStock{},
		Report:   LowStockReport(set, threshold),
	}
	for _, ps := range Alerts(set, threshold) {
		if ps.Severity == SeverityCritical {
			res.Critical = append(res.Critical, ps)
		} else {
			res.Low = append(res.Low, ps)
		}
	}
	return res, nil
}

// Rollups returns per-category rollups, categories alphabetical, with the
// synthetic uncategorized bucket appended when non-empty.
func (s *Service) Rollups(ctx context.Context, threshold int) ([]CategoryRollup, error) {
	snap, err := s.snapshot(ctx, true)
	if err != nil {
		return nil, err
	}
	set := Aggregate(snap.purchases, snap.sales, ModeComposite)
	s.warnUnmatched(set)

	cats := make([]Category, len(snap.categories))
	copy(cats, snap.categories)
	sort.SliceStable(cats, func(i, j int) bool { return fold(cats[i].Name) < fold(cats[j].Name) })
	return Rollup(cats, set, threshold), nil
}

// Suggestions returns ranked autocomplete entries from name-only aggregates.
func (s *Service) Suggestions(ctx context.Context, query string) ([]Suggestion, error) {
	snap, err := s.snapshot(ctx, true)
	if err != nil {
		return nil, err
	}
	set := Aggregate(snap.purchases, snap.sales, ModeNameOnly)
	s.warnUnmatched(set)

	catNames := make(map[int]string, len(snap.categories))
	for _, c := range snap.categories {
		catNames[c.ID] = c.Name
	}
	woodNames := make(map[int]string, len(snap.woodTypes))
	for _, wt := range snap.woodTypes {
		woodNames[wt.ID] = wt.Name
	}
	return Search(set, query, catNames, woodNames), nil
}
