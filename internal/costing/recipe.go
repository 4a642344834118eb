package costing

// IngredientLookup resolves an ingredient by id.
type IngredientLookup interface {
	Ingredient(id string) (Ingredient, bool)
}

// IngredientMap is the map-backed IngredientLookup used with a Snapshot.
type IngredientMap map[string]Ingredient

func (m IngredientMap) Ingredient(id string) (Ingredient, bool) {
	ing, ok := m[id]
	return ing, ok
}

// Reasons a recipe line contributed nothing to the batch cost.
const (
	ZeroCostMissingIngredient = "missing_ingredient"
	ZeroCostMissingPrice      = "missing_price"
)

// LineCost is the costed view of one recipe line.
type LineCost struct {
	IngredientID      string  `json:"ingredient_id"`
	IngredientName    string  `json:"ingredient_name"`
	Quantity          float64 `json:"quantity"`
	Unit              string  `json:"unit"`
	ConvertedQuantity float64 `json:"converted_quantity"`
	PriceUnit         string  `json:"price_unit"`
	Cost              float64 `json:"cost"`
	UnitMismatch      bool    `json:"unit_mismatch,omitempty"`
	ZeroCostReason    string  `json:"zero_cost_reason,omitempty"`
}

// RecipeCost is the result of AggregateRecipe.
type RecipeCost struct {
	PerBatch float64
	// PerUnit is nil when portions per batch is not positive.
	PerUnit          *float64
	PortionsPerBatch float64
	Lines            []LineCost
	ZeroCostLines    []LineCost
	UnitMismatches   []LineCost
}

// AggregateRecipe sums the ingredient cost of one batch and divides it by the
// number of portions the batch yields.
func AggregateRecipe(lines []RecipeLine, ingredients IngredientLookup, portionsPerBatch float64) RecipeCost {
	rc := RecipeCost{PortionsPerBatch: portionsPerBatch}

	for _, line := range lines {
		lc := LineCost{
			IngredientID:      line.IngredientID,
			Quantity:          line.Quantity,
			Unit:              line.Unit,
			ConvertedQuantity: line.Quantity,
		}

		ing, ok := ingredients.Ingredient(line.IngredientID)
		switch {
		case !ok:
			lc.ZeroCostReason = ZeroCostMissingIngredient
		case ing.UnitPrice == nil:
			lc.IngredientName = ing.Name
			lc.PriceUnit = ing.PriceUnit
			lc.ZeroCostReason = ZeroCostMissingPrice
		default:
			lc.IngredientName = ing.Name
			lc.PriceUnit = ing.PriceUnit
			conv := Convert(line.Quantity, line.Unit, ing.PriceUnit)
			lc.ConvertedQuantity = conv.Quantity
			lc.UnitMismatch = conv.Mismatch
			lc.Cost = conv.Quantity * *ing.UnitPrice
		}

		rc.PerBatch += lc.Cost
		rc.Lines = append(rc.Lines, lc)
		if lc.ZeroCostReason != "" {
			rc.ZeroCostLines = append(rc.ZeroCostLines, lc)
		}
		if lc.UnitMismatch {
			rc.UnitMismatches = append(rc.UnitMismatches, lc)
		}
	}

	if portionsPerBatch > 0 {
		rc.PerUnit = finite(rc.PerBatch / portionsPerBatch)
	}
	return rc
}
