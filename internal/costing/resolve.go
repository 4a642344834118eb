package costing

import (
	"fmt"
	"math"
)

// Source names the strategy that produced a CostBreakdown.
type Source string

const (
	SourceAggregate    Source = "aggregate"
	SourceBahanSummary Source = "bahan_summary"
	SourceRecipe       Source = "recipe"
)

// CostBreakdown is the per-unit cost of one product. Every amount may be nil.
type CostBreakdown struct {
	ProductID           string   `json:"product_id"`
	ProductName         string   `json:"product_name"`
	Source              Source   `json:"source"`
	IngredientsPerUnit  *float64 `json:"ingredients_per_unit"`
	OverheadPerUnit     *float64 `json:"overhead_per_unit"`
	LaborPerUnit        *float64 `json:"labor_per_unit"`
	DepreciationPerUnit *float64 `json:"depreciation_per_unit"`
	Total               *float64 `json:"total"`
	MonthlyVolume       *float64 `json:"monthly_volume,omitempty"`
	Warnings            []string `json:"warnings,omitempty"`

	// Recipe is set by the recipe strategy only.
	Recipe *RecipeCost `json:"-"`
}

// ResolveInput is everything a strategy may look at.
type ResolveInput struct {
	Product  Product
	Snapshot Snapshot
	Options  Options
}

// Strategy produces a breakdown or nil when its source data is absent.
type Strategy func(in ResolveInput) *CostBreakdown

// DefaultStrategies is the fallback order: precomputed aggregate, precomputed
// ingredient cost plus manual overhead, full recomputation.
func DefaultStrategies() []Strategy {
	return []Strategy{AggregateStrategy, BahanSummaryStrategy, RecipeStrategy}
}

// Resolver runs strategies in order and returns the first result.
type Resolver struct {
	strategies []Strategy
	opts       Options
}

func NewResolver(opts Options, strategies ...Strategy) *Resolver {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Resolver{strategies: strategies, opts: opts}
}

func (r *Resolver) Options() Options {
	return r.opts
}

// Resolve returns the cost breakdown of productID. Only an unknown product is
// an error; any other gap shows up as nil amounts and warnings.
func (r *Resolver) Resolve(productID string, snap Snapshot) (CostBreakdown, error) {
	p, ok := snap.Products[productID]
	if !ok {
		return CostBreakdown{}, fmt.Errorf("%w: product %s", ErrMissingReference, productID)
	}

	in := ResolveInput{Product: p, Snapshot: snap, Options: r.opts}
	for _, s := range r.strategies {
		if b := s(in); b != nil {
			b.ProductID = p.ID
			b.ProductName = p.Name
			return *b, nil
		}
	}

	// Only reachable with a custom strategy list that lacks RecipeStrategy.
	return CostBreakdown{ProductID: p.ID, ProductName: p.Name, Warnings: []string{"no cost source available"}}, nil
}

// AggregateStrategy uses the precomputed aggregate as-is, recomputing the total
// from its parts when it is missing or disagrees with them.
func AggregateStrategy(in ResolveInput) *CostBreakdown {
	agg, ok := in.Snapshot.Aggregates[in.Product.ID]
	if !ok {
		return nil
	}

	b := &CostBreakdown{
		Source:             SourceAggregate,
		IngredientsPerUnit: clone(agg.BahanPerUnit),
		LaborPerUnit:       clone(agg.LaborPerUnit),
		OverheadPerUnit:    clone(agg.OverheadPerUnit),
	}
	sum, parts := sumAvailable(agg.BahanPerUnit, agg.LaborPerUnit, agg.OverheadPerUnit)

	switch {
	case agg.Total == nil:
		if parts > 0 {
			b.Total = finite(sum)
		}
		b.Warnings = append(b.Warnings, "aggregate total missing; summed from parts")
	case parts == 3 && math.Abs(*agg.Total-sum) > in.Options.ConsistencyTolerance:
		b.Total = finite(sum)
		b.Warnings = append(b.Warnings, fmt.Sprintf("aggregate total %.2f disagrees with parts %.2f; using parts", *agg.Total, sum))
	case parts < 3 && *agg.Total < sum-in.Options.ConsistencyTolerance:
		// Known parts alone already exceed the total.
		b.Total = finite(sum)
		b.Warnings = append(b.Warnings, fmt.Sprintf("aggregate total %.2f is below its known parts %.2f; using parts", *agg.Total, sum))
	case parts < 3:
		b.Total = finite(*agg.Total)
		b.Warnings = append(b.Warnings, "aggregate consistency not verified; missing parts")
	default:
		b.Total = finite(*agg.Total)
	}
	return b
}

// BahanSummaryStrategy adds the manual overhead override to a precomputed
// ingredient cost. Labor is unknown on this path.
func BahanSummaryStrategy(in ResolveInput) *CostBreakdown {
	bahan, ok := in.Snapshot.BahanPerUnit[in.Product.ID]
	if !ok {
		return nil
	}

	b := &CostBreakdown{
		Source:             SourceBahanSummary,
		IngredientsPerUnit: finite(bahan),
		OverheadPerUnit:    clone(in.Product.ManualOverheadPerUnit),
	}
	if b.OverheadPerUnit == nil {
		b.Warnings = append(b.Warnings, "manual overhead not recorded; total covers ingredients only")
	}
	b.Total = finite(bahan + valueOr(in.Product.ManualOverheadPerUnit, 0))
	return b
}

// RecipeStrategy recomputes the cost from the recipe and the fixed-cost
// entries. It always produces a breakdown.
func RecipeStrategy(in ResolveInput) *CostBreakdown {
	p := in.Product
	vol := SelectVolume(p, in.Options.DefaultMonthlyVolume)

	rc := AggregateRecipe(in.Snapshot.LinesFor(p.ID), IngredientMap(in.Snapshot.Ingredients), p.PortionsPerBatch)
	alloc := AllocateFixedCosts(in.Snapshot.Overheads, in.Snapshot.Labor, in.Snapshot.Assets, vol)

	b := &CostBreakdown{
		Source:              SourceRecipe,
		IngredientsPerUnit:  rc.PerUnit,
		OverheadPerUnit:     alloc.OverheadPerUnit,
		LaborPerUnit:        alloc.LaborPerUnit,
		DepreciationPerUnit: alloc.DepreciationPerUnit,
		Recipe:              &rc,
	}
	if vol > 0 {
		b.MonthlyVolume = Float(vol)
	}

	if len(rc.Lines) == 0 {
		b.Warnings = append(b.Warnings, "recipe has no lines")
	}
	if rc.PerUnit == nil {
		b.Warnings = append(b.Warnings, "portions per batch not set; ingredient cost per unit unavailable")
	}
	for _, l := range rc.ZeroCostLines {
		b.Warnings = append(b.Warnings, fmt.Sprintf("ingredient %s contributed zero cost (%s)", l.IngredientID, l.ZeroCostReason))
	}
	for _, l := range rc.UnitMismatches {
		b.Warnings = append(b.Warnings, fmt.Sprintf("ingredient %s: unit %q not convertible to %q", l.IngredientID, l.Unit, l.PriceUnit))
	}
	if !alloc.Available() {
		b.Warnings = append(b.Warnings, "monthly volume unavailable; fixed costs not allocated")
		if p.ManualOverheadPerUnit != nil {
			b.OverheadPerUnit = clone(p.ManualOverheadPerUnit)
			b.Warnings = append(b.Warnings, "using manual overhead per unit")
		}
	}

	if rc.PerUnit != nil {
		sum, _ := sumAvailable(b.IngredientsPerUnit, b.OverheadPerUnit, b.LaborPerUnit, b.DepreciationPerUnit)
		b.Total = finite(sum)
	}
	return b
}

// SelectVolume picks the allocation denominator: the product's own monthly
// target when positive, otherwise the global default. Zero means unavailable.
func SelectVolume(p Product, globalDefault float64) float64 {
	if p.MonthlyTargetVolume != nil && *p.MonthlyTargetVolume > 0 {
		return *p.MonthlyTargetVolume
	}
	if globalDefault > 0 {
		return globalDefault
	}
	return 0
}

func sumAvailable(values ...*float64) (float64, int) {
	var sum float64
	var n int
	for _, v := range values {
		if v != nil {
			sum += *v
			n++
		}
	}
	return sum, n
}

func clone(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return finite(*p)
}
