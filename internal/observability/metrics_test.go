package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics("synthetic")
	m.ObserveEvent(OutcomeWritten, 5*time.Millisecond)
	m.ObserveEvent(OutcomeWritten, 7*time.Millisecond)
	m.ObserveEvent(OutcomeFailed, 0)
	m.AddCCSkipped(3)
	m.AddCCSkipped(-1)

	if got := testutil.ToFloat64(m.events.WithLabelValues(OutcomeWritten)); got != 2 {
		t.Fatalf("written: want=2 got=%v", got)
	}
	if got := testutil.ToFloat64(m.events.WithLabelValues(OutcomeFailed)); got != 1 {
		t.Fatalf("failed: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.ccSkipped); got != 3 {
		t.Fatalf("cc skipped: want=3 got=%v", got)
	}
	if got := testutil.CollectAndCount(m.upsertLatency); got != 1 {
		t.Fatalf("latency series: want=1 got=%d", got)
	}
}

func TestMetricsWriteTextfile(t *testing.T) {
	m := NewMetrics("eml")
	m.ObserveEvent(OutcomeWritten, time.Millisecond)
	m.SetGraphSize("persons", 12)

	path := filepath.Join(t.TempDir(), "mailgraph.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	body := string(raw)
	for _, want := range []string{
		`mailgraph_events_total{outcome="written",source="eml"} 1`,
		`mailgraph_graph_size{kind="persons",source="eml"} 12`,
		"mailgraph_last_run_timestamp_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("textfile missing %q:\n%s", want, body)
		}
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveEvent(OutcomeWritten, time.Second)
	m.AddCCSkipped(1)
	m.SetGraphSize("emails", 1)
	if err := m.WriteTextfile("/nonexistent/x.prom"); err != nil {
		t.Fatalf("nil WriteTextfile: %v", err)
	}
}
