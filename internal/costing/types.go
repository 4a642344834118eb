// Package costing holds the pure HPP calculations: unit normalization, recipe
// aggregation, fixed-cost allocation, cost resolution, price recommendation
// and promotion evaluation. Nothing in here performs I/O or keeps state
// between calls; callers pass a snapshot of master data in and get values out.
//
// Nullable amounts are *float64. A nil amount means "unavailable" and is never
// replaced by NaN or Inf.
package costing

import "math"

// Ingredient is the canonical ingredient shape seen by the core.
type Ingredient struct {
	ID        string
	Name      string
	UnitPrice *float64
	PriceUnit string
}

// RecipeLine is one bill-of-materials entry. Quantity is per batch.
type RecipeLine struct {
	ProductID    string
	IngredientID string
	Quantity     float64
	Unit         string
}

// Product is the canonical product shape seen by the core.
type Product struct {
	ID                    string
	Name                  string
	PortionsPerBatch      float64
	SellingPrice          *float64
	MonthlyTargetVolume   *float64
	ManualOverheadPerUnit *float64
}

type OverheadCategory string

const (
	OverheadOperational OverheadCategory = "operational"
	OverheadMaintenance OverheadCategory = "maintenance"
)

type OverheadEntry struct {
	ID            string
	MonthlyAmount float64
	Category      OverheadCategory
}

type LaborCategory string

const (
	LaborProduction    LaborCategory = "production"
	LaborNonProduction LaborCategory = "non-production"
)

type LaborEntry struct {
	ID            string
	MonthlySalary float64
	Category      LaborCategory
	WorkingDays   int
}

type AssetCategory string

const (
	AssetProduksi    AssetCategory = "produksi"
	AssetNonProduksi AssetCategory = "non-produksi"
)

type AssetStatus string

const (
	AssetActive   AssetStatus = "active"
	AssetDamaged  AssetStatus = "damaged"
	AssetInactive AssetStatus = "inactive"
)

type AssetEntry struct {
	ID                string
	PurchasePrice     float64
	ResidualValue     float64
	EconomicLifeYears float64
	Category          AssetCategory
	Status            AssetStatus
}

// Aggregate is a precomputed per-unit cost supplied by the owning system.
type Aggregate struct {
	BahanPerUnit    *float64
	LaborPerUnit    *float64
	OverheadPerUnit *float64
	Total           *float64
}

// Snapshot is the master data a resolution runs against. The core never
// mutates it and keeps no reference after a call returns.
type Snapshot struct {
	Products    map[string]Product
	Ingredients map[string]Ingredient
	RecipeLines []RecipeLine
	Overheads   []OverheadEntry
	Labor       []LaborEntry
	Assets      []AssetEntry

	// Aggregates holds the primary precomputed figures keyed by product id.
	Aggregates map[string]Aggregate
	// BahanPerUnit holds precomputed ingredient cost per unit keyed by product id.
	BahanPerUnit map[string]float64
}

// LinesFor returns the recipe lines that belong to productID.
func (s Snapshot) LinesFor(productID string) []RecipeLine {
	var out []RecipeLine
	for _, l := range s.RecipeLines {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// finite turns NaN/Inf into nil so they never escape the core.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func valueOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}
