package costing

import "fmt"

// RiskThresholds are the margin bands shared by every promotion mechanic.
type RiskThresholds struct {
	HealthyPct float64
	CautionPct float64
}

// DefaultRiskThresholds: >= 50 healthy, [20, 50) caution, below 20 risky.
var DefaultRiskThresholds = RiskThresholds{HealthyPct: 50, CautionPct: 20}

// Classify maps a margin percentage onto a risk level.
func (t RiskThresholds) Classify(marginPct float64) Risk {
	switch {
	case marginPct >= t.HealthyPct:
		return RiskHealthy
	case marginPct >= t.CautionPct:
		return RiskCaution
	default:
		return RiskRisky
	}
}

// Validate rejects bands that overlap or invert.
func (t RiskThresholds) Validate() error {
	if t.CautionPct >= t.HealthyPct {
		return fmt.Errorf("caution threshold %.2f must be below healthy threshold %.2f", t.CautionPct, t.HealthyPct)
	}
	return nil
}

// DisplayClamp bounds margins shown to people. Raw values are kept alongside.
type DisplayClamp struct {
	MinPct float64
	MaxPct float64
}

var DefaultDisplayClamp = DisplayClamp{MinPct: -100, MaxPct: 300}

func (c DisplayClamp) Apply(v float64) float64 {
	if v < c.MinPct {
		return c.MinPct
	}
	if v > c.MaxPct {
		return c.MaxPct
	}
	return v
}

// Options carries the tunables of the engine.
type Options struct {
	// DefaultMonthlyVolume is the allocation denominator for products that
	// have no monthly target of their own. Zero means "no global default".
	DefaultMonthlyVolume float64
	// ConsistencyTolerance is the absolute difference allowed between a
	// precomputed total and the sum of its parts.
	ConsistencyTolerance float64
	// PriceRoundingStep rounds recommended prices up to a multiple of the
	// step. Zero disables rounding.
	PriceRoundingStep float64

	Tiers []Tier
	Risk  RiskThresholds
	Clamp DisplayClamp
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		DefaultMonthlyVolume: 0,
		ConsistencyTolerance: 1,
		PriceRoundingStep:    0,
		Tiers:                DefaultTiers(),
		Risk:                 DefaultRiskThresholds,
		Clamp:                DefaultDisplayClamp,
	}
}

// Validate checks the option set as a whole.
func (o Options) Validate() error {
	if o.DefaultMonthlyVolume < 0 {
		return fmt.Errorf("default monthly volume must not be negative")
	}
	if o.ConsistencyTolerance < 0 {
		return fmt.Errorf("consistency tolerance must not be negative")
	}
	if o.PriceRoundingStep < 0 {
		return fmt.Errorf("price rounding step must not be negative")
	}
	if o.Clamp.MinPct >= o.Clamp.MaxPct {
		return fmt.Errorf("display clamp min %.2f must be below max %.2f", o.Clamp.MinPct, o.Clamp.MaxPct)
	}
	if err := ValidateTiers(o.Tiers); err != nil {
		return err
	}
	return o.Risk.Validate()
}
