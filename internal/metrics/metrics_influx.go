package metrics

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

const measurement = "archiver_event"

type metricsInflux struct {
	client      influxdb2.Client
	writeAPI    api.WriteAPI
	defaultTags map[string]string // Constant tags, like the session id
	done        chan struct{}
}

// Ensure metricsInflux implements Metrics
var _ Metrics = (*metricsInflux)(nil)

// NewMetricsInflux writes points asynchronously in batches.
func NewMetricsInflux(url string, token string, org string, bucket string, defaultTags map[string]string, logger *slog.Logger) Metrics {
	client := influxdb2.NewClient(url, token)
	writeAPI := client.WriteAPI(org, bucket)
	m := &metricsInflux{
		client:      client,
		writeAPI:    writeAPI,
		defaultTags: defaultTags,
		done:        make(chan struct{}),
	}

	go func() {
		defer close(m.done)
		for err := range writeAPI.Errors() {
			logger.WarnContext(context.Background(), "InfluxDB write failed", slog.String("error", err.Error()))
		}
	}()

	return m
}

// Universal method to log an event with customizable tags and fields
func (m *metricsInflux) LogEvent(eventName string, tags map[string]string, fields map[string]interface{}) {
	if len(fields) == 0 {
		return
	}

	point := influxdb2.NewPointWithMeasurement(measurement).
		AddTag("event", eventName).
		SetTime(time.Now())

	// Add constant default tags
	for key, value := range m.defaultTags {
		point.AddTag(key, value)
	}

	// Add custom tags
	for key, value := range tags {
		point.AddTag(key, value)
	}

	// Add custom fields
	for key, value := range fields {
		point.AddField(key, value)
	}

	m.writeAPI.WritePoint(point)
}

// Specific method for logging channel-related events
func (m *metricsInflux) LogChannelEvent(eventName string, channelID string, fields map[string]interface{}) {
	if channelID == "" {
		return
	}

	m.LogEvent(eventName, map[string]string{"channel_id": channelID}, fields)
}

// Close flushes the write API and closes the client
func (m *metricsInflux) Close() {
	m.writeAPI.Flush()
	m.client.Close()
	<-m.done
}
