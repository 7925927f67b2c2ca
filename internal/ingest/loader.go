package ingest

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/mailgraph/internal/data/graph"
	types "github.com/yungbote/mailgraph/internal/domain"
	"github.com/yungbote/mailgraph/internal/observability"
	"github.com/yungbote/mailgraph/internal/platform/logger"
	"github.com/yungbote/mailgraph/internal/source"
)

type Summary struct {
	Seen      int
	Written   int
	Failed    int
	CCSkipped int
}

type Loader struct {
	src     source.Source
	writer  graph.ExchangeWriter
	log     *logger.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

func NewLoader(src source.Source, writer graph.ExchangeWriter, log *logger.Logger, metrics *observability.Metrics) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{
		src:     src,
		writer:  writer,
		log:     log.With("component", "Loader", "source", src.Name()),
		metrics: metrics,
		tracer:  otel.Tracer("github.com/yungbote/mailgraph/internal/ingest"),
	}
}

// Run drains the source one event at a time, one transaction per event. A
// failed event is logged and skipped; only a fatal source error ends the run
// early. It counts as one failure and is returned alongside the partial summary.
func (l *Loader) Run(ctx context.Context) (Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var sum Summary
	for ev, err := range l.src.Exchanges(ctx) {
		if err != nil {
			if source.IsFatal(err) {
				sum.Failed++
				l.metrics.ObserveEvent(observability.OutcomeFailed, 0)
				l.log.Error("load aborted", "seen", sum.Seen, "written", sum.Written, "failed", sum.Failed, "error", err)
				return sum, err
			}
			sum.Failed++
			l.metrics.ObserveEvent(observability.OutcomeSkipped, 0)
			l.log.Warn("source item skipped", "error", err)
			continue
		}
		sum.Seen++
		sum.CCSkipped += len(ev.CC)
		l.metrics.AddCCSkipped(len(ev.CC))

		if err := l.upsert(ctx, ev); err != nil {
			sum.Failed++
			continue
		}
		sum.Written++
	}

	if sum.CCSkipped > 0 {
		l.log.Warn("cc recipients are not written to the graph", "cc_recipients", sum.CCSkipped)
	}
	l.log.Info("load finished", "seen", sum.Seen, "written", sum.Written, "failed", sum.Failed)
	return sum, nil
}

func (l *Loader) upsert(ctx context.Context, ev *types.ExchangeEvent) error {
	ctx, span := l.tracer.Start(ctx, "mailgraph.upsert_exchange", trace.WithAttributes(
		attribute.String("mailgraph.event_id", ev.ID.String()),
		attribute.Int("mailgraph.recipients", len(ev.To)),
	))
	defer span.End()

	start := time.Now()
	err := l.writer.UpsertExchange(ctx, ev)
	dur := time.Since(start)
	if err == nil {
		l.metrics.ObserveEvent(observability.OutcomeWritten, dur)
		l.log.Debug("exchange upserted", "event_id", ev.ID.String(), "duration_ms", dur.Milliseconds())
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "upsert failed")
	outcome := observability.OutcomeFailed
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		outcome = observability.OutcomeInvalid
	}
	l.metrics.ObserveEvent(outcome, dur)
	l.log.Error("exchange upsert failed (skipping)", "event_id", ev.ID.String(), "outcome", outcome, "error", err)
	return err
}

// RecordGraphSize reads the graph back and publishes its size. Errors are
// logged only; the load itself already finished.
func RecordGraphSize(ctx context.Context, reader graph.ExchangeReader, log *logger.Logger, metrics *observability.Metrics) (graph.Stats, error) {
	stats, err := reader.Stats(ctx)
	if err != nil {
		if log != nil {
			log.Warn("graph stats failed", "error", err)
		}
		return graph.Stats{}, err
	}
	metrics.SetGraphSize("persons", stats.Persons)
	metrics.SetGraphSize("emails", stats.Emails)
	metrics.SetGraphSize("sent", stats.Sent)
	metrics.SetGraphSize("received", stats.Received)
	if log != nil {
		log.Info("graph size", "persons", stats.Persons, "emails", stats.Emails, "sent", stats.Sent, "received", stats.Received)
	}
	return stats, nil
}
