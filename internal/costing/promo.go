package costing

import "fmt"

// Mechanic is a promotional offer type.
type Mechanic string

const (
	MechanicDiscount Mechanic = "discount"
	MechanicBundle   Mechanic = "bundle"
	MechanicBOGO     Mechanic = "bogo"
	MechanicAddOn    Mechanic = "addon"
)

// Role is what a slot contributes to a promotion.
type Role string

const (
	RolePaid  Role = "paid"
	RoleFree  Role = "free"
	RoleAddOn Role = "addon"
)

// Risk is the qualitative verdict on a promotion margin.
type Risk string

const (
	RiskHealthy     Risk = "healthy"
	RiskCaution     Risk = "caution"
	RiskRisky       Risk = "risky"
	RiskUnavailable Risk = "unavailable"
)

// PromoItem is one product slot of a scenario.
type PromoItem struct {
	ProductID    string   `json:"product_id"`
	Name         string   `json:"name"`
	UnitCost     *float64 `json:"unit_cost"`
	SellingPrice *float64 `json:"selling_price"`
	Role         Role     `json:"role"`
}

// Scenario describes a promotion to evaluate. PromoPrice is the target price
// for discount and the bundle price for bundle; AddOnPrice is the top-up
// price of the second item for addon.
type Scenario struct {
	Mechanic   Mechanic
	Items      []PromoItem
	PromoPrice *float64
	AddOnPrice *float64
}

// PromotionResult is the verdict on a scenario.
type PromotionResult struct {
	Mechanic     Mechanic    `json:"mechanic"`
	Items        []PromoItem `json:"items"`
	CombinedCost *float64    `json:"combined_cost"`
	Price        *float64    `json:"price"`
	Profit       *float64    `json:"profit"`
	// MarginPct is unclamped; DisplayMarginPct is bounded for presentation.
	MarginPct        *float64 `json:"margin_pct"`
	DisplayMarginPct *float64 `json:"display_margin_pct"`
	Risk             Risk     `json:"risk"`
	OriginalPrice    *float64 `json:"original_price,omitempty"`
	DiscountPct      *float64 `json:"discount_pct,omitempty"`
	BreakEvenPrice   *float64 `json:"break_even_price,omitempty"`
	HealthyPrice     *float64 `json:"healthy_price,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

// PromotionEvaluator evaluates scenarios against one set of risk bands.
type PromotionEvaluator struct {
	risk  RiskThresholds
	clamp DisplayClamp
}

func NewPromotionEvaluator(risk RiskThresholds, clamp DisplayClamp) *PromotionEvaluator {
	return &PromotionEvaluator{risk: risk, clamp: clamp}
}

var slotsByMechanic = map[Mechanic][]Role{
	MechanicDiscount: {RolePaid},
	MechanicBundle:   {RolePaid, RolePaid},
	MechanicBOGO:     {RolePaid, RoleFree},
	MechanicAddOn:    {RolePaid, RoleAddOn},
}

// Evaluate reduces any mechanic to a combined cost against a single price.
func (e *PromotionEvaluator) Evaluate(s Scenario) (PromotionResult, error) {
	roles, ok := slotsByMechanic[s.Mechanic]
	if !ok {
		return PromotionResult{}, fmt.Errorf("%w: unknown mechanic %q", ErrInvalidScenario, s.Mechanic)
	}
	if len(s.Items) != len(roles) {
		return PromotionResult{}, fmt.Errorf("%w: %s needs %d product(s), got %d", ErrInvalidScenario, s.Mechanic, len(roles), len(s.Items))
	}
	if s.PromoPrice != nil && *s.PromoPrice < 0 {
		return PromotionResult{}, fmt.Errorf("%w: promo price must not be negative", ErrInvalidScenario)
	}
	if s.AddOnPrice != nil && *s.AddOnPrice < 0 {
		return PromotionResult{}, fmt.Errorf("%w: add-on price must not be negative", ErrInvalidScenario)
	}

	res := PromotionResult{Mechanic: s.Mechanic, Items: make([]PromoItem, len(s.Items)), Risk: RiskUnavailable}
	for i, it := range s.Items {
		it.Role = roles[i]
		res.Items[i] = it
	}
	main := res.Items[0]

	switch s.Mechanic {
	case MechanicDiscount, MechanicBundle:
		if s.PromoPrice == nil {
			return PromotionResult{}, fmt.Errorf("%w: %s needs a promo price", ErrInvalidScenario, s.Mechanic)
		}
		res.Price = Float(*s.PromoPrice)
		if s.Mechanic == MechanicDiscount && main.SellingPrice != nil {
			res.OriginalPrice = Float(*main.SellingPrice)
			if *main.SellingPrice > 0 {
				res.DiscountPct = finite((*main.SellingPrice - *s.PromoPrice) / *main.SellingPrice * 100)
			}
		}
	case MechanicBOGO:
		if main.SellingPrice == nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("product %s has no selling price", main.ProductID))
		} else {
			res.Price = Float(*main.SellingPrice)
		}
	case MechanicAddOn:
		if s.AddOnPrice == nil {
			return PromotionResult{}, fmt.Errorf("%w: addon needs an add-on price", ErrInvalidScenario)
		}
		if main.SellingPrice == nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("product %s has no selling price", main.ProductID))
		} else {
			res.Price = Float(*main.SellingPrice + *s.AddOnPrice)
		}
	}

	var cost float64
	costKnown := true
	for _, it := range res.Items {
		if it.UnitCost == nil {
			costKnown = false
			res.Warnings = append(res.Warnings, fmt.Sprintf("product %s has no unit cost", it.ProductID))
			continue
		}
		cost += *it.UnitCost
	}
	if costKnown {
		res.CombinedCost = finite(cost)
		res.BreakEvenPrice = finite(cost)
		if e.risk.HealthyPct < 100 {
			res.HealthyPrice = finite(cost / (1 - e.risk.HealthyPct/100))
		}
	}

	if res.CombinedCost == nil || res.Price == nil {
		return res, nil
	}

	ev := Evaluate(*res.CombinedCost, *res.Price)
	res.Profit = Float(ev.Profit)
	res.MarginPct = Float(ev.MarginPct)
	res.DisplayMarginPct = Float(e.clamp.Apply(ev.MarginPct))
	res.Risk = e.risk.Classify(ev.MarginPct)
	return res, nil
}
