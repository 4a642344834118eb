package costing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	TierStandard = "standard"
	TierPremium  = "premium"
)

// Tier is a named target margin.
type Tier struct {
	Label     string  `json:"label"`
	MarginPct float64 `json:"margin_pct"`
}

// DefaultTiers returns the two required tiers.
func DefaultTiers() []Tier {
	return []Tier{
		{Label: TierStandard, MarginPct: 30},
		{Label: TierPremium, MarginPct: 50},
	}
}

// ValidateTiers requires a standard and a premium tier, premium strictly above
// standard. Additional tiers are allowed.
func ValidateTiers(tiers []Tier) error {
	var std, prem *Tier
	seen := make(map[string]bool, len(tiers))
	for i := range tiers {
		t := &tiers[i]
		if t.Label == "" {
			return fmt.Errorf("%w: tier %d has no label", ErrInvalidTiers, i)
		}
		if seen[t.Label] {
			return fmt.Errorf("%w: duplicate tier %q", ErrInvalidTiers, t.Label)
		}
		seen[t.Label] = true
		switch t.Label {
		case TierStandard:
			std = t
		case TierPremium:
			prem = t
		}
	}
	if std == nil || prem == nil {
		return fmt.Errorf("%w: %q and %q tiers are required", ErrInvalidTiers, TierStandard, TierPremium)
	}
	if prem.MarginPct <= std.MarginPct {
		return fmt.Errorf("%w: premium margin %.2f must exceed standard margin %.2f", ErrInvalidTiers, prem.MarginPct, std.MarginPct)
	}
	return nil
}

// Recommendation is the price suggested for one tier.
type Recommendation struct {
	Label           string   `json:"label"`
	TargetMarginPct float64  `json:"target_margin_pct"`
	Computable      bool     `json:"computable"`
	Price           *float64 `json:"price"`
	MarginPct       *float64 `json:"margin_pct"`
	// RoundedPrice is Price rounded up to the currency step, when one is set.
	RoundedPrice     *float64 `json:"rounded_price,omitempty"`
	RoundedMarginPct *float64 `json:"rounded_margin_pct,omitempty"`
	Reason           string   `json:"reason,omitempty"`
}

// Recommend derives price = unitCost / (1 - m/100) for each tier. A tier with
// m >= 100 is reported as not computable; the other tiers are unaffected.
func Recommend(unitCost float64, tiers []Tier) []Recommendation {
	out := make([]Recommendation, 0, len(tiers))
	for _, t := range tiers {
		r := Recommendation{Label: t.Label, TargetMarginPct: t.MarginPct}
		if t.MarginPct >= 100 {
			r.Reason = "target margin must be below 100%"
			out = append(out, r)
			continue
		}
		price := finite(unitCost / (1 - t.MarginPct/100))
		if price == nil {
			r.Reason = "price is not finite"
			out = append(out, r)
			continue
		}
		r.Computable = true
		r.Price = price
		r.MarginPct = Float(Evaluate(unitCost, *price).MarginPct)
		out = append(out, r)
	}
	return out
}

// RecommendRounded is Recommend plus a rounded-up price per computable tier.
func RecommendRounded(unitCost float64, tiers []Tier, step float64) []Recommendation {
	recs := Recommend(unitCost, tiers)
	if step <= 0 {
		return recs
	}
	for i := range recs {
		if !recs[i].Computable {
			continue
		}
		rounded := RoundUpToStep(*recs[i].Price, step)
		recs[i].RoundedPrice = Float(rounded)
		recs[i].RoundedMarginPct = Float(Evaluate(unitCost, rounded).MarginPct)
	}
	return recs
}

// RoundUpToStep rounds price up to the next multiple of step using exact
// decimal arithmetic. A non-positive step returns price unchanged.
func RoundUpToStep(price, step float64) float64 {
	if step <= 0 {
		return price
	}
	s := decimal.NewFromFloat(step)
	// Drop float noise below 1e-6 so an exact multiple is not pushed up a step.
	rounded := decimal.NewFromFloat(price).Round(6).Div(s).Ceil().Mul(s)
	f, _ := rounded.Float64()
	return f
}

// Evaluation is the realized profit of selling at a given price.
type Evaluation struct {
	UnitCost     float64 `json:"unit_cost"`
	SellingPrice float64 `json:"selling_price"`
	Profit       float64 `json:"profit"`
	MarginPct    float64 `json:"margin_pct"`
}

// Evaluate computes profit and margin. A non-positive selling price yields a
// zero margin instead of dividing by zero.
func Evaluate(unitCost, sellingPrice float64) Evaluation {
	e := Evaluation{
		UnitCost:     unitCost,
		SellingPrice: sellingPrice,
		Profit:       sellingPrice - unitCost,
	}
	if sellingPrice > 0 {
		if m := finite(e.Profit / sellingPrice * 100); m != nil {
			e.MarginPct = *m
		}
	}
	return e
}
