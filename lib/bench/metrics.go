package bench

import (
	"fmt"
	"io"

	vm "github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"
)

// Metrics collects per codec measurements of a benchmark invocation in two
// sinks: a VictoriaMetrics set for Prometheus text exposition and a
// go-metrics registry for a human readable dump.
// Only whole sweeps are recorded, never single round trips.
type Metrics struct {
	set      *vm.Set
	registry gometrics.Registry
}

// NewMetrics creates empty metric sinks
func NewMetrics() *Metrics {
	return &Metrics{
		set:      vm.NewSet(),
		registry: gometrics.NewRegistry(),
	}
}

// Record adds the outcome of one codec sweep
func (m *Metrics) Record(res SweepResult) {
	m.set.GetOrCreateCounter(vmName("serbench_roundtrips_total", res.Codec)).Add(res.Iterations)
	m.set.GetOrCreateCounter(vmName("serbench_encoded_bytes_total", res.Codec)).Add(int(res.EncodedBytes))
	m.set.GetOrCreateHistogram(vmName("serbench_sweep_duration_seconds", res.Codec)).Update(res.Elapsed.Seconds())

	gometrics.GetOrRegisterTimer(gmName(res.Codec, "sweep"), m.registry).Update(res.Elapsed)
	gometrics.GetOrRegisterCounter(gmName(res.Codec, "roundtrips"), m.registry).Inc(int64(res.Iterations))
	gometrics.GetOrRegisterCounter(gmName(res.Codec, "bytes"), m.registry).Inc(res.EncodedBytes)
}

// RecordFailure counts an aborted run of the given codec
func (m *Metrics) RecordFailure(codecKey string) {
	m.set.GetOrCreateCounter(vmName("serbench_failures_total", codecKey)).Inc()
	gometrics.GetOrRegisterCounter(gmName(codecKey, "failures"), m.registry).Inc(1)
}

// SweepTimer returns the go-metrics timer of a codec, nil if nothing was recorded
func (m *Metrics) SweepTimer(codecKey string) gometrics.Timer {
	if t, ok := m.registry.Get(gmName(codecKey, "sweep")).(gometrics.Timer); ok {
		return t
	}
	return nil
}

// WritePrometheus writes all metrics in Prometheus text format
func (m *Metrics) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}

// WriteRegistry writes a readable dump of the go-metrics registry
func (m *Metrics) WriteRegistry(w io.Writer) {
	gometrics.WriteOnce(m.registry, w)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func vmName(metric, codecKey string) string {
	return fmt.Sprintf("%s{codec=%q}", metric, codecKey)
}

func gmName(codecKey, metric string) string {
	return "codec." + codecKey + "." + metric
}
