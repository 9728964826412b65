package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metricsPrometheus struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ Metrics = (*metricsPrometheus)(nil)

// NewMetricsPrometheus registers the archiver collectors on a private registry.
// Channel ids are not used as labels.
func NewMetricsPrometheus(defaultTags map[string]string) Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "archiver",
		Name:        "events_total",
		Help:        "Handled gateway events by outcome.",
		ConstLabels: defaultTags,
	}, []string{"event"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   "archiver",
		Name:        "event_duration_seconds",
		Help:        "Time spent handling a gateway event.",
		ConstLabels: defaultTags,
		Buckets:     prometheus.DefBuckets,
	}, []string{"event"})

	registry.MustRegister(events, duration)

	return &metricsPrometheus{
		registry: registry,
		events:   events,
		duration: duration,
	}
}

func (m *metricsPrometheus) LogEvent(eventName string, _ map[string]string, fields map[string]interface{}) {
	m.events.WithLabelValues(eventName).Inc()

	if ms, ok := fields["duration_ms"]; ok {
		if v, ok := toFloat(ms); ok {
			m.duration.WithLabelValues(eventName).Observe(v / 1000)
		}
	}
}

func (m *metricsPrometheus) LogChannelEvent(eventName string, _ string, fields map[string]interface{}) {
	m.LogEvent(eventName, nil, fields)
}

func (m *metricsPrometheus) Close() {}

func (m *metricsPrometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
