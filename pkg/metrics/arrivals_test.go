package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestArrivalMetricsExportsCountersAndGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewArrivalMetrics(reg)
	metrics.ObservePoll("ok", 120*time.Millisecond)
	metrics.IncPollError("timeout")
	metrics.IncNotification()
	metrics.SetPendingCount(7)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "arrivals_polls_total", "outcome", "ok"); err != nil {
		t.Fatalf("fetch polls: %v", err)
	} else if got != 1 {
		t.Fatalf("expected polls=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "arrivals_poll_errors_total", "reason", "timeout"); err != nil {
		t.Fatalf("fetch errors: %v", err)
	} else if got != 1 {
		t.Fatalf("expected errors=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "arrivals_poll_duration_seconds", "outcome", "ok"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	if mf := findMetricFamily(mfs, "arrivals_pending_count"); mf == nil {
		t.Fatal("gauge arrivals_pending_count not exported")
	} else if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 7 {
		t.Fatalf("expected pending count 7, got %f", got)
	}
}

func TestArrivalMetricsNilSafe(t *testing.T) {
	var metrics *ArrivalMetrics
	metrics.ObservePoll("ok", time.Second)
	metrics.IncPollError("x")
	metrics.IncNotification()
	metrics.SetPendingCount(1)

	unregistered := NewArrivalMetrics(nil)
	unregistered.ObservePoll("ok", time.Second)
	unregistered.IncNotification()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
