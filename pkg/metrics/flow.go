package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// FlowMetrics records customization and upsell outcomes.
type FlowMetrics struct {
	sessions     *prometheus.CounterVec
	stepsSkipped *prometheus.CounterVec
	upsell       *prometheus.CounterVec
	unitPrice    *prometheus.HistogramVec
}

// NewFlowMetrics registers the flow metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewFlowMetrics(reg prometheus.Registerer) *FlowMetrics {
	if reg == nil {
		return &FlowMetrics{}
	}
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flow_sessions_total",
		Help: "Customization sessions by outcome (started, finalized, cancelled, expired).",
	}, []string{"outcome"})
	stepsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flow_steps_skipped_total",
		Help: "Flow steps skipped during traversal by step and reason.",
	}, []string{"step", "reason"})
	upsell := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upsell_prompt_actions_total",
		Help: "Upsell prompt actions by content type and action.",
	}, []string{"content_type", "action"})
	unitPrice := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flow_finalized_unit_price",
		Help:    "Unit price of finalized primary line items.",
		Buckets: []float64{10, 20, 30, 40, 50, 75, 100, 150},
	}, []string{"category"})
	reg.MustRegister(sessions, stepsSkipped, upsell, unitPrice)
	return &FlowMetrics{
		sessions:     sessions,
		stepsSkipped: stepsSkipped,
		upsell:       upsell,
		unitPrice:    unitPrice,
	}
}

// IncSession increments the session counter for the given outcome.
func (m *FlowMetrics) IncSession(outcome string) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncStepSkipped records a step the traversal jumped over.
func (m *FlowMetrics) IncStepSkipped(step, reason string) {
	if m == nil || m.stepsSkipped == nil {
		return
	}
	m.stepsSkipped.WithLabelValues(normalizeLabel(step), normalizeLabel(reason)).Inc()
}

// IncUpsellAction records an action taken on an upsell prompt.
func (m *FlowMetrics) IncUpsellAction(contentType, action string) {
	if m == nil || m.upsell == nil {
		return
	}
	m.upsell.WithLabelValues(normalizeLabel(contentType), normalizeLabel(action)).Inc()
}

// ObserveUnitPrice records a finalized primary item price.
func (m *FlowMetrics) ObserveUnitPrice(category string, price decimal.Decimal) {
	if m == nil || m.unitPrice == nil {
		return
	}
	m.unitPrice.WithLabelValues(normalizeLabel(category)).Observe(price.InexactFloat64())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
