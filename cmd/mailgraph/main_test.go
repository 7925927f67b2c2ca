package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MAILGRAPH_CONFIG", "MAILGRAPH_SOURCE", "MAILGRAPH_COUNT", "MAILGRAPH_DRY_RUN", "MAILGRAPH_METRICS_FILE",
		"EML_DIR", "NEO4J_URI", "OTEL_ENABLED",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_MODE", "production")
}

func TestRunDryRunSynthetic(t *testing.T) {
	isolateEnv(t)
	metricsPath := filepath.Join(t.TempDir(), "mailgraph.prom")

	code := run([]string{"-dry-run", "-count", "20", "-metrics-file", metricsPath})
	if code != 0 {
		t.Fatalf("exit code: want=0 got=%d", code)
	}
	raw, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(raw), `mailgraph_events_total{outcome="written",source="synthetic"} 20`) {
		t.Fatalf("metrics:\n%s", raw)
	}
	if !strings.Contains(string(raw), `mailgraph_graph_size{kind="emails",source="synthetic"} 20`) {
		t.Fatalf("metrics:\n%s", raw)
	}
}

func TestRunExchangeSourceFails(t *testing.T) {
	isolateEnv(t)
	metricsPath := filepath.Join(t.TempDir(), "mailgraph.prom")
	if code := run([]string{"-dry-run", "-source", "exchange", "-metrics-file", metricsPath}); code != 1 {
		t.Fatalf("exit code: want=1 got=%d", code)
	}
	raw, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("aborted run should still write metrics: %v", err)
	}
	if !strings.Contains(string(raw), `mailgraph_events_total{outcome="failed",source="exchange"} 1`) {
		t.Fatalf("metrics:\n%s", raw)
	}
}

func TestRunSourceFlagIsCaseInsensitive(t *testing.T) {
	isolateEnv(t)
	if code := run([]string{"-dry-run", "-source", " Synthetic ", "-count", "2"}); code != 0 {
		t.Fatalf("exit code: want=0 got=%d", code)
	}
	if code := run([]string{"-dry-run", "-source", "EXCHANGE"}); code != 1 {
		t.Fatalf("exit code: want=1 got=%d", code)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	isolateEnv(t)
	if code := run([]string{"-dry-run", "-count", "-3"}); code != 1 {
		t.Fatalf("exit code: want=1 got=%d", code)
	}
}

func TestRunUnreachableNeo4j(t *testing.T) {
	isolateEnv(t)
	t.Setenv("NEO4J_URI", "bolt://127.0.0.1:1")
	t.Setenv("NEO4J_TIMEOUT_SECONDS", "1")
	if code := run([]string{"-count", "1"}); code != 1 {
		t.Fatalf("exit code: want=1 got=%d", code)
	}
}

func TestRunBadFlag(t *testing.T) {
	isolateEnv(t)
	if code := run([]string{"-no-such-flag"}); code != 2 {
		t.Fatalf("exit code: want=2 got=%d", code)
	}
}
