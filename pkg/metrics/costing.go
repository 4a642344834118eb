package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CostingMetrics counts cost resolutions and promotion verdicts.
type CostingMetrics struct {
	resolutions  *prometheus.CounterVec
	promotions   *prometheus.CounterVec
	unitMismatch prometheus.Counter
}

// NewCostingMetrics registers the costing metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewCostingMetrics(reg prometheus.Registerer) *CostingMetrics {
	if reg == nil {
		return &CostingMetrics{}
	}
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hpp_cost_resolutions_total",
		Help: "Cost resolutions by the strategy that produced them.",
	}, []string{"source"})
	promotions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hpp_promo_evaluations_total",
		Help: "Promotion evaluations by mechanic and risk.",
	}, []string{"mechanic", "risk"})
	unitMismatch := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hpp_unit_mismatch_total",
		Help: "Recipe lines whose unit could not be converted to the ingredient price unit.",
	})
	reg.MustRegister(resolutions, promotions, unitMismatch)
	return &CostingMetrics{
		resolutions:  resolutions,
		promotions:   promotions,
		unitMismatch: unitMismatch,
	}
}

func (m *CostingMetrics) IncResolution(source string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(normalizeLabel(source)).Inc()
}

func (m *CostingMetrics) IncPromotion(mechanic, risk string) {
	if m == nil || m.promotions == nil {
		return
	}
	m.promotions.WithLabelValues(normalizeLabel(mechanic), normalizeLabel(risk)).Inc()
}

func (m *CostingMetrics) AddUnitMismatches(n int) {
	if m == nil || m.unitMismatch == nil || n <= 0 {
		return
	}
	m.unitMismatch.Add(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
