package stock

// DefaultThreshold is the replenishment boundary used when the caller does
// not supply one.
const DefaultThreshold = 5

type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityLow      Severity = "low"      // 0 < available <= threshold
	SeverityCritical Severity = "critical" // available <= 0
)

// ProductStock is a classified aggregate as exposed to read paths.
type ProductStock struct {
	ProductAggregate
	AvailableQty int      `json:"available_qty"`
	IsLowStock   bool     `json:"is_low_stock"`
	Severity     Severity `json:"severity"`
}

// Classify derives availability and low-stock severity for one aggregate.
func Classify(a *ProductAggregate, threshold int) ProductStock {
	avail := a.Available()
	ps := ProductStock{
		ProductAggregate: *a,
		AvailableQty:     avail,
		IsLowStock:       avail <= threshold,
		Severity:         SeverityOK,
	}
	switch {
	case avail <= 0:
		ps.Severity = SeverityCritical
	case avail <= threshold:
		ps.Severity = SeverityLow
	}
	return ps
}

// ClassifyAll classifies every aggregate in first-seen order.
func ClassifyAll(set *AggregateSet, threshold int) []ProductStock {
	out := make([]ProductStock, 0, set.Len())
	for _, a := range set.All() {
		out = append(out, Classify(a, threshold))
	}
	return out
}

// LowStockReport lists products needing replenishment for the store-wide
// report. Oversold products (negative availability) are excluded here but
// still surface as critical in Alerts; that asymmetry is long-standing
// observable behavior and must not be collapsed.
func LowStockReport(set *AggregateSet, threshold int) []ProductStock {
	var out []ProductStock
	for _, a := range set.All() {
		ps := Classify(a, threshold)
		if ps.AvailableQty >= 0 && ps.IsLowStock {
			out = append(out, ps)
		}
	}
	return out
}

// Alerts lists every product at or below the threshold, negatives included,
// for the alert banner.
func Alerts(set *AggregateSet, threshold int) []ProductStock {
	var out []ProductStock
	for _, a := range set.All() {
		ps := Classify(a, threshold)
		if ps.IsLowStock {
			out = append(out, ps)
		}
	}
	return out
}
