package metrics

// metricsFake is a no-op implementation of Metrics
type metricsFake struct{}

// Ensure metricsFake implements Metrics
var _ Metrics = (*metricsFake)(nil)

func NewMetricsFake() Metrics {
	return &metricsFake{}
}

func (metrics *metricsFake) LogEvent(_ string, _ map[string]string, _ map[string]interface{}) {}

func (metrics *metricsFake) LogChannelEvent(_ string, _ string, _ map[string]interface{}) {}

func (metrics *metricsFake) Close() {}
