package observability

import (
	"strconv"
	"strings"
	"time"

	gometrics "github.com/armon/go-metrics"
)

const (
	metricsInterval  = time.Minute
	metricsRetention = 15 * time.Minute
)

// Metrics keeps request and gate decision counters in an in-memory sink.
type Metrics struct {
	sink    *gometrics.InmemSink
	metrics *gometrics.Metrics
	prefix  string
}

// NewMetrics initializes metrics storage.
func NewMetrics(serviceName string) (*Metrics, error) {
	sink := gometrics.NewInmemSink(metricsInterval, metricsRetention)

	cfg := gometrics.DefaultConfig(serviceName)
	cfg.EnableHostname = false
	cfg.EnableRuntimeMetrics = false

	m, err := gometrics.New(cfg, sink)
	if err != nil {
		return nil, err
	}
	return &Metrics{sink: sink, metrics: m, prefix: serviceName + "."}, nil
}

// RecordRequest counts a served request and its latency.
func (m *Metrics) RecordRequest(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := []gometrics.Label{
		{Name: "method", Value: method},
		{Name: "status", Value: strconv.Itoa(status)},
	}
	m.metrics.IncrCounterWithLabels([]string{"http", "requests"}, 1, labels)
	m.metrics.AddSampleWithLabels([]string{"http", "duration_ms"}, float32(duration.Milliseconds()), labels)
}

// RecordError counts a request that ended in an error envelope.
func (m *Metrics) RecordError(method, code string) {
	if m == nil {
		return
	}
	m.metrics.IncrCounterWithLabels([]string{"http", "errors"}, 1, []gometrics.Label{
		{Name: "method", Value: method},
		{Name: "code", Value: code},
	})
}

// RecordDecision counts one gate decision.
func (m *Metrics) RecordDecision(outcome, reason string) {
	if m == nil {
		return
	}
	m.metrics.IncrCounterWithLabels([]string{"gate", "decision"}, 1, []gometrics.Label{
		{Name: "outcome", Value: outcome},
		{Name: "reason", Value: reason},
	})
}

// Counters returns counter totals across the retained intervals, keyed by
// name and labels, e.g. "gate.decision;outcome=forwarded;reason=none".
func (m *Metrics) Counters() map[string]float64 {
	out := make(map[string]float64)
	if m == nil {
		return out
	}
	for _, interval := range m.sink.Data() {
		interval.RLock()
		for key, value := range interval.Counters {
			if value.AggregateSample == nil {
				continue
			}
			out[strings.TrimPrefix(key, m.prefix)] += value.Sum
		}
		interval.RUnlock()
	}
	return out
}
