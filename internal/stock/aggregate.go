package stock

// Aggregate folds the two ledgers into per-key running totals. Purchase lines
// are processed first, in ledger order (assumed chronological): each creates
// or extends the aggregate for its key and overwrites LastUnitPrice, so the
// price reflects the latest purchase seen, not an average. Sale lines are
// then resolved per mode and only ever reduce quantity; a sale that resolves
// to no aggregate is dropped from the totals and counted on the set.
func Aggregate(purchases []PurchaseLine, sales []SaleLine, mode Mode) *AggregateSet {
	set := newAggregateSet()

	for _, p := range purchases {
		agg := set.getOrCreate(purchaseKey(p, mode), p.ProductName)
		agg.PurchasedQty += p.Quantity
		agg.LastUnitPrice = p.UnitPrice
		if mode == ModeNameOnly {
			// Display labels track the last purchase line processed.
			agg.CategoryID = p.CategoryID
			agg.WoodTypeID = p.WoodTypeID
		}
	}

	for _, s := range sales {
		agg := resolveSale(set, s, mode)
		if agg == nil {
			set.UnmatchedSales++
			set.UnmatchedQty += s.Quantity
			continue
		}
		agg.SoldQty += s.Quantity
	}

	return set
}

func purchaseKey(p PurchaseLine, mode Mode) GroupingKey {
	if mode == ModeNameOnly {
		return GroupingKey{Name: p.ProductName, CategoryID: UncategorizedID, WoodTypeID: NoWoodID}
	}
	k := GroupingKey{Name: p.ProductName, CategoryID: UncategorizedID, WoodTypeID: NoWoodID}
	if p.CategoryID != nil {
		k.CategoryID = *p.CategoryID
	}
	if p.WoodTypeID != nil {
		k.WoodTypeID = *p.WoodTypeID
	}
	return k
}

// resolveSale maps a sale line to the aggregate it reduces, or nil when no
// aggregate matches. In composite mode the sale's own key (sales never carry
// a wood type, so that slot is always NoWoodID) must match exactly; a sale
// with no category additionally falls back to the first aggregate, in
// first-seen order, whose product name matches. When two aggregates share a
// name under different categories the fallback is ambiguous and resolved
// purely by that order.
func resolveSale(set *AggregateSet, s SaleLine, mode Mode) *ProductAggregate {
	if mode == ModeNameOnly {
		k := GroupingKey{Name: s.ProductName, CategoryID: UncategorizedID, WoodTypeID: NoWoodID}
		agg, _ := set.Get(k)
		return agg
	}

	k := GroupingKey{Name: s.ProductName, CategoryID: UncategorizedID, WoodTypeID: NoWoodID}
	if s.CategoryID != nil {
		k.CategoryID = *s.CategoryID
	}
	if agg, ok := set.Get(k); ok {
		return agg
	}
	if s.CategoryID != nil {
		return nil
	}
	for _, key := range set.order {
		if key.Name == s.ProductName {
			return set.byKey[key]
		}
	}
	return nil
}
