// Prometheus instrumentation for decode and probe activity
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace string = "msgidscope"

	OutcomeOK    string = "ok"
	OutcomeError string = "error"

	SourceInterface string = "interface"
	SourceRandom    string = "random"
)

// Own registry so tests and embedders never collide with the global default
type Registry struct {
	registry *prometheus.Registry

	decodeRequests *prometheus.CounterVec   // layout, outcome
	decodeDuration *prometheus.HistogramVec // layout
	probeRuns      *prometheus.CounterVec   // source
	streamSessions prometheus.Gauge
}

// Creates and registers every collector
func New() (registry *Registry) {
	registry = &Registry{
		registry: prometheus.NewRegistry(),

		decodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_requests_total",
			Help:      "Identifiers decoded, by layout and outcome",
		}, []string{"layout", "outcome"}),

		decodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_duration_seconds",
			Help:      "Time spent decoding one identifier",
			Buckets:   []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001},
		}, []string{"layout"}),

		probeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_runs_total",
			Help:      "Address probe runs, by where the reported address came from",
		}, []string{"source"}),

		streamSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_sessions",
			Help:      "Open websocket decode sessions",
		}),
	}

	registry.registry.MustRegister(
		registry.decodeRequests,
		registry.decodeDuration,
		registry.probeRuns,
		registry.streamSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return
}

// Exposition handler for the /metrics endpoint
func (registry *Registry) Handler() (handler http.Handler) {
	handler = promhttp.HandlerFor(registry.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return
}

// Underlying prometheus registry
func (registry *Registry) Gatherer() prometheus.Gatherer {
	return registry.registry
}

// Records one decode. A nil registry means metrics are disabled.
func (registry *Registry) ObserveDecode(layout string, err error, elapsed time.Duration) {
	if registry == nil {
		return
	}

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}

	registry.decodeRequests.WithLabelValues(layout, outcome).Inc()
	registry.decodeDuration.WithLabelValues(layout).Observe(elapsed.Seconds())
}

// Records one probe run
func (registry *Registry) ObserveProbe(synthetic bool) {
	if registry == nil {
		return
	}

	source := SourceInterface
	if synthetic {
		source = SourceRandom
	}
	registry.probeRuns.WithLabelValues(source).Inc()
}

// Tracks open stream sessions; call with -1 on close
func (registry *Registry) AddStreamSessions(delta float64) {
	if registry == nil {
		return
	}
	registry.streamSessions.Add(delta)
}
