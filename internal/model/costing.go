package model

import "go-hpp-engine/internal/costing"

// Mapping from persisted rows to the shapes the costing core understands.

func (i Ingredient) ToCosting() costing.Ingredient {
	return costing.Ingredient{
		ID:        i.ID.String(),
		Name:      i.Name,
		UnitPrice: i.UnitPrice,
		PriceUnit: i.PriceUnit,
	}
}

func (p Product) ToCosting() costing.Product {
	return costing.Product{
		ID:                    p.ID.String(),
		Name:                  p.Name,
		PortionsPerBatch:      p.PortionsPerBatch,
		SellingPrice:          p.SellingPrice,
		MonthlyTargetVolume:   p.MonthlyTargetVolume,
		ManualOverheadPerUnit: p.ManualOverheadPerUnit,
	}
}

func (l RecipeLine) ToCosting() costing.RecipeLine {
	return costing.RecipeLine{
		ProductID:    l.ProductID.String(),
		IngredientID: l.IngredientID.String(),
		Quantity:     l.Quantity,
		Unit:         l.Unit,
	}
}

func (o OverheadEntry) ToCosting() costing.OverheadEntry {
	return costing.OverheadEntry{
		ID:            o.ID.String(),
		MonthlyAmount: o.MonthlyAmount,
		Category:      costing.OverheadCategory(o.Category),
	}
}

func (l LaborEntry) ToCosting() costing.LaborEntry {
	return costing.LaborEntry{
		ID:            l.ID.String(),
		MonthlySalary: l.MonthlySalary,
		Category:      costing.LaborCategory(l.Category),
		WorkingDays:   l.WorkingDays,
	}
}

func (a AssetEntry) ToCosting() costing.AssetEntry {
	return costing.AssetEntry{
		ID:                a.ID.String(),
		PurchasePrice:     a.PurchasePrice,
		ResidualValue:     a.ResidualValue,
		EconomicLifeYears: a.EconomicLifeYears,
		Category:          costing.AssetCategory(a.HppCategory),
		Status:            costing.AssetStatus(a.Status),
	}
}

func (c CostAggregate) ToCosting() costing.Aggregate {
	return costing.Aggregate{
		BahanPerUnit:    c.BahanPerUnit,
		LaborPerUnit:    c.LaborPerUnit,
		OverheadPerUnit: c.OverheadPerUnit,
		Total:           c.Total,
	}
}

// AllModels lists every table the service owns, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Product{},
		&RecipeLine{},
		&OverheadEntry{},
		&LaborEntry{},
		&AssetEntry{},
		&CostAggregate{},
		&IngredientCostSummary{},
	}
}
