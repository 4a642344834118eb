package costing

const monthsPerYear = 12

// Allocation is the result of AllocateFixedCosts. Pools are monthly totals;
// the per-unit figures are nil when the output volume is not positive.
type Allocation struct {
	OverheadPool     float64
	LaborPool        float64
	DepreciationPool float64
	Volume           float64

	OverheadPerUnit     *float64
	LaborPerUnit        *float64
	DepreciationPerUnit *float64
}

// Available reports whether the per-unit figures could be computed.
func (a Allocation) Available() bool {
	return a.Volume > 0
}

// MonthlyDepreciation amortizes (purchase - residual) straight-line over the
// asset's economic life. A non-positive life contributes nothing.
func MonthlyDepreciation(a AssetEntry) float64 {
	months := a.EconomicLifeYears * monthsPerYear
	if months <= 0 {
		return 0
	}
	return (a.PurchasePrice - a.ResidualValue) / months
}

// Depreciable reports whether an asset is charged into product cost.
func Depreciable(a AssetEntry) bool {
	return a.Status == AssetActive && a.Category == AssetProduksi
}

// AllocateFixedCosts spreads the monthly overhead, production labor and
// production asset depreciation over monthlyOutputVolume units.
func AllocateFixedCosts(overheads []OverheadEntry, labor []LaborEntry, assets []AssetEntry, monthlyOutputVolume float64) Allocation {
	a := Allocation{Volume: monthlyOutputVolume}

	for _, o := range overheads {
		a.OverheadPool += o.MonthlyAmount
	}
	for _, l := range labor {
		if l.Category == LaborProduction {
			a.LaborPool += l.MonthlySalary
		}
	}
	for _, as := range assets {
		if Depreciable(as) {
			a.DepreciationPool += MonthlyDepreciation(as)
		}
	}

	if monthlyOutputVolume > 0 {
		a.OverheadPerUnit = finite(a.OverheadPool / monthlyOutputVolume)
		a.LaborPerUnit = finite(a.LaborPool / monthlyOutputVolume)
		a.DepreciationPerUnit = finite(a.DepreciationPool / monthlyOutputVolume)
	}
	return a
}
