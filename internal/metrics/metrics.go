package metrics

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/plugfox/foxy-archive-server/internal/config"
)

// Metrics defines the contract for logging metrics
type Metrics interface {
	LogEvent(eventName string, tags map[string]string, fields map[string]interface{})
	LogChannelEvent(eventName string, channelID string, fields map[string]interface{})
	Close()
}

// New picks the backend configured by the metrics driver.
func New(cfg *config.MetricsConfig, defaultTags map[string]string, logger *slog.Logger) Metrics {
	switch strings.ToLower(cfg.Driver) {
	case "influx":
		return NewMetricsInflux(cfg.URL, cfg.Token, cfg.Org, cfg.Bucket, defaultTags, logger)
	case "prometheus":
		return NewMetricsPrometheus(defaultTags)
	default:
		return NewMetricsFake()
	}
}

// Handler - the scrape endpoint of a pull based backend, nil for push based ones.
func Handler(m Metrics) http.Handler {
	if p, ok := m.(*metricsPrometheus); ok {
		return p.Handler()
	}
	return nil
}
