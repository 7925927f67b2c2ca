package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/mailgraph/internal/config"
	"github.com/yungbote/mailgraph/internal/data/graph"
	"github.com/yungbote/mailgraph/internal/ingest"
	"github.com/yungbote/mailgraph/internal/observability"
	"github.com/yungbote/mailgraph/internal/platform/logger"
	"github.com/yungbote/mailgraph/internal/platform/neo4jdb"
	"github.com/yungbote/mailgraph/internal/source"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mailgraph", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file (overrides MAILGRAPH_CONFIG)")
	src := fs.String("source", "", "data source: synthetic, exchange, imap or eml")
	count := fs.Int("count", 0, "number of synthetic events")
	dryRun := fs.Bool("dry-run", false, "load into an in-memory graph instead of Neo4j")
	metricsFile := fs.String("metrics-file", "", "write Prometheus textfile metrics here when done")
	verify := fs.Bool("verify", false, "read node and relationship counts back after loading")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("load config: %v\n", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source = strings.ToLower(strings.TrimSpace(*src))
		case "count":
			cfg.Count = *count
		case "dry-run":
			cfg.DryRun = *dryRun
		case "metrics-file":
			cfg.MetricsFile = *metricsFile
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx := context.Background()
	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{ServiceName: "mailgraph", Version: version})
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}()
	metrics := observability.NewMetrics(cfg.Source)

	dataSource, err := source.FromConfig(cfg, log)
	if err != nil {
		log.Error("select source failed", "error", err)
		return 1
	}

	var store graph.ExchangeGraph
	if cfg.DryRun {
		log.Info("dry run: writing to in-memory graph")
		store = graph.NewMemoryExchangeGraph()
	} else {
		client, err := neo4jdb.New(ctx, cfg.Neo4j, log)
		if err != nil {
			log.Error("neo4j connection failed", "error", err)
			return 1
		}
		defer client.Close(context.Background())
		g := graph.NewNeo4jExchangeGraph(client, log)
		g.EnsureSchema(ctx)
		store = g
	}

	_, err = ingest.NewLoader(dataSource, store, log, metrics).Run(ctx)
	if err != nil {
		writeMetrics(log, metrics, cfg.MetricsFile)
		return 1
	}
	if *verify || cfg.DryRun {
		_, _ = ingest.RecordGraphSize(ctx, store, log, metrics)
	}
	writeMetrics(log, metrics, cfg.MetricsFile)

	fmt.Println("Done!")
	return 0
}

func writeMetrics(log *logger.Logger, metrics *observability.Metrics, path string) {
	if err := metrics.WriteTextfile(path); err != nil {
		log.Warn("write metrics textfile failed", "path", path, "error", err)
	}
}
