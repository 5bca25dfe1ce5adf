package stock

// Synthetic bucket for aggregates with no category tag.
const (
	UncategorizedName  = "uncategorized"
	UncategorizedColor = "#9ca3af"
)

// CategoryRollup is a category-grouped view of classified aggregates with
// summary counts. ID is UncategorizedID for the synthetic bucket.
type CategoryRollup struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Color         string         `json:"color"`
	Products      []ProductStock `json:"products"`
	TotalProducts int            `json:"total_products"`
	LowStockCount int            `json:"low_stock_count"`
}

// Rollup groups classified aggregates by category. Categories keep the order
// the caller gave them (callers pass them alphabetically); products keep
// aggregate first-seen order. A category with no products is still returned
// with zero counts. The uncategorized bucket is appended last and only when
// non-empty.
func Rollup(categories []Category, set *AggregateSet, threshold int) []CategoryRollup {
	out := make([]CategoryRollup, 0, len(categories)+1)

	for _, c := range categories {
		r := CategoryRollup{ID: c.ID, Name: c.Name, Color: c.Color, Products: []ProductStock{}}
		for _, a := range set.All() {
			if a.CategoryID == nil || *a.CategoryID != c.ID {
				continue
			}
			ps := Classify(a, threshold)
			r.Products = append(r.Products, ps)
			if ps.IsLowStock {
				r.LowStockCount++
			}
		}
		r.TotalProducts = len(r.Products)
		out = append(out, r)
	}

	uncat := CategoryRollup{ID: UncategorizedID, Name: UncategorizedName, Color: UncategorizedColor, Products: []ProductStock{}}
	for _, a := range set.All() {
		if a.CategoryID != nil {
			continue
		}
		ps := Classify(a, threshold)
		uncat.Products = append(uncat.Products, ps)
		if ps.IsLowStock {
			uncat.LowStockCount++
		}
	}
	if len(uncat.Products) > 0 {
		uncat.TotalProducts = len(uncat.Products)
		out = append(out, uncat)
	}
	return out
}
