package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestFlowMetricsRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFlowMetrics(reg)

	m.IncSession("finalized")
	m.IncSession("finalized")
	m.IncStepSkipped("edge", "no_options")
	m.IncUpsellAction("", "skip")
	m.ObserveUnitPrice("pizzas", decimal.RequireFromString("44.00"))

	if got := testutil.ToFloat64(m.sessions.WithLabelValues("finalized")); got != 2 {
		t.Fatalf("expected 2 finalized sessions, got %v", got)
	}
	if got := testutil.ToFloat64(m.stepsSkipped.WithLabelValues("edge", "no_options")); got != 1 {
		t.Fatalf("expected 1 skipped edge, got %v", got)
	}
	if got := testutil.ToFloat64(m.upsell.WithLabelValues("unknown", "skip")); got != 1 {
		t.Fatalf("blank labels should normalize to unknown, got %v", got)
	}
	if count := testutil.CollectAndCount(m.unitPrice); count != 1 {
		t.Fatalf("expected one histogram series, got %d", count)
	}
}

func TestNilFlowMetricsAreNoop(t *testing.T) {
	var m *FlowMetrics
	m.IncSession("started")
	m.IncStepSkipped("dough", "disabled")
	m.IncUpsellAction("drink", "primary")
	m.ObserveUnitPrice("pizzas", decimal.NewFromInt(30))

	unregistered := NewFlowMetrics(nil)
	unregistered.IncSession("cancelled")
}

func TestFlowMetricsHistogramSum(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFlowMetrics(reg)
	m.ObserveUnitPrice("pizzas", decimal.RequireFromString("30.00"))
	m.ObserveUnitPrice("pizzas", decimal.RequireFromString("44.00"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	hist := findHistogram(mfs, "flow_finalized_unit_price")
	if hist == nil {
		t.Fatal("histogram not exported")
	}
	if hist.GetSampleCount() != 2 || hist.GetSampleSum() != 74 {
		t.Fatalf("unexpected histogram count=%d sum=%f", hist.GetSampleCount(), hist.GetSampleSum())
	}
}

func findHistogram(mfs []*dto.MetricFamily, name string) *dto.Histogram {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			return metric.GetHistogram()
		}
	}
	return nil
}
