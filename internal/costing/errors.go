package costing

import "errors"

// Sentinel errors returned by the costing core. Everything not listed here
// degrades to an unavailable (nil) field instead of failing the call.
var (
	ErrMissingReference = errors.New("missing reference data")
	ErrInvalidScenario  = errors.New("invalid promotion scenario")
	ErrInvalidTiers     = errors.New("invalid pricing tiers")
)
