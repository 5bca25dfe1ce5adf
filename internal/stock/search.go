package stock

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Suggestion is one autocomplete entry. Category and wood-type labels come
// from the last purchase line seen for the product (name-only aggregation)
// and are display-only.
type Suggestion struct {
	ProductName   string          `json:"product_name"`
	CategoryID    *int            `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	WoodTypeID    *int            `json:"wood_type_id"`
	WoodTypeName  string          `json:"wood_type_name,omitempty"`
	AvailableQty  int             `json:"available_qty"`
	LastUnitPrice decimal.Decimal `json:"last_unit_price"`
}

// Relevance tiers: lower sorts first.
const (
	tierExact = iota
	tierPrefix
	tierOther
)

// Search filters and ranks aggregates for autocomplete. Only products with
// stock on hand are suggested. Matching is case- and accent-insensitive over
// product, category and wood-type names. Non-empty queries rank exact name
// matches above prefix matches above other matches, alphabetically within a
// tier; an empty query yields the whole in-stock list alphabetically.
// Alphabetical ordering compares the accent-folded names too, so "Étagère"
// sorts under "etagere".
func Search(set *AggregateSet, query string, categories map[int]string, woodTypes map[int]string) []Suggestion {
	q := fold(query)

	type ranked struct {
		s    Suggestion
		tier int
		name string // folded, for ordering
	}
	var matches []ranked

	for _, a := range set.All() {
		if a.Available() <= 0 {
			continue
		}
		s := Suggestion{
			ProductName:   a.Name,
			CategoryID:    a.CategoryID,
			WoodTypeID:    a.WoodTypeID,
			AvailableQty:  a.Available(),
			LastUnitPrice: a.LastUnitPrice,
		}
		if a.CategoryID != nil {
			s.CategoryName = categories[*a.CategoryID]
		}
		if a.WoodTypeID != nil {
			s.WoodTypeName = woodTypes[*a.WoodTypeID]
		}

		name := fold(a.Name)
		tier := tierOther
		if q == "" {
			matches = append(matches, ranked{s: s, tier: tierOther, name: name})
			continue
		}
		switch {
		case name == q:
			tier = tierExact
		case strings.HasPrefix(name, q):
			tier = tierPrefix
		case strings.Contains(name, q) ||
			(s.CategoryName != "" && strings.Contains(fold(s.CategoryName), q)) ||
			(s.WoodTypeName != "" && strings.Contains(fold(s.WoodTypeName), q)):
			tier = tierOther
		default:
			continue
		}
		matches = append(matches, ranked{s: s, tier: tier, name: name})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].tier != matches[j].tier {
			return matches[i].tier < matches[j].tier
		}
		return matches[i].name < matches[j].name
	})

	out := make([]Suggestion, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.s)
	}
	return out
}
