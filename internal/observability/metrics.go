package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeWritten = "written"
	OutcomeFailed  = "failed"
	OutcomeInvalid = "invalid"
	OutcomeSkipped = "skipped"
)

// Metrics holds the counters of one load run. There is no scrape endpoint; the
// registry is written once as a node_exporter textfile when the run ends.
type Metrics struct {
	registry      *prometheus.Registry
	events        *prometheus.CounterVec
	ccSkipped     prometheus.Counter
	upsertLatency prometheus.Histogram
	graphSize     *prometheus.GaugeVec
	lastRun       prometheus.Gauge
}

func NewMetrics(source string) *Metrics {
	reg := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"source": source}
	m := &Metrics{
		registry: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "mailgraph_events_total",
			Help:        "Exchange events processed, by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		ccSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "mailgraph_cc_recipients_skipped_total",
			Help:        "Cc recipients present on events but not written to the graph.",
			ConstLabels: constLabels,
		}),
		upsertLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "mailgraph_upsert_duration_seconds",
			Help:        "Duration of one exchange upsert transaction.",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		graphSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "mailgraph_graph_size",
			Help:        "Node and relationship counts read back after the run.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "mailgraph_last_run_timestamp_seconds",
			Help:        "Unix time the run finished.",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(m.events, m.ccSkipped, m.upsertLatency, m.graphSize, m.lastRun)
	return m
}

func (m *Metrics) ObserveEvent(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(outcome).Inc()
	if dur > 0 {
		m.upsertLatency.Observe(dur.Seconds())
	}
}

func (m *Metrics) AddCCSkipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ccSkipped.Add(float64(n))
}

func (m *Metrics) SetGraphSize(kind string, n int64) {
	if m == nil {
		return
	}
	m.graphSize.WithLabelValues(kind).Set(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile stamps the run end time and writes the registry atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	m.lastRun.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
