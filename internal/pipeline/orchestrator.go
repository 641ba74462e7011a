// Package pipeline coordinates a full scan cycle: collect quotes from all
// enabled sources, analyze them for arbitrage opportunities, then fan the
// result out to the configured backends (database, cache, object storage,
// notifications).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"goldarb/internal/arbitrage"
	"goldarb/internal/collector"
	"goldarb/internal/domain"
	"goldarb/internal/notify"
	"goldarb/internal/report"
)

// CycleResult bundles everything produced by one scan cycle.
type CycleResult struct {
	Analysis domain.AnalysisResult
	Failures []domain.CollectionFailure
	Document report.Document
}

// Orchestrator drives scan cycles. All backends except the collector and
// analyzer are optional; a nil store, cache, archiver, or notifier is simply
// skipped. This lets the one-shot scan mode run without any infrastructure.
type Orchestrator struct {
	collector *collector.Collector
	analyzer  *arbitrage.Analyzer
	sources   []domain.SourceAdapter

	quoteStore domain.QuoteStore
	oppStore   domain.OpportunityStore
	cache      domain.PriceCache
	archiver   domain.ReportArchiver
	notifier   *notify.Notifier

	logger *slog.Logger
}

// Options holds the optional backends for an Orchestrator.
type Options struct {
	QuoteStore       domain.QuoteStore
	OpportunityStore domain.OpportunityStore
	Cache            domain.PriceCache
	Archiver         domain.ReportArchiver
	Notifier         *notify.Notifier
}

// NewOrchestrator creates an Orchestrator over the given collector, analyzer,
// and source set. Backends in opts may be nil.
func NewOrchestrator(
	col *collector.Collector,
	analyzer *arbitrage.Analyzer,
	sources []domain.SourceAdapter,
	opts Options,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		collector:  col,
		analyzer:   analyzer,
		sources:    sources,
		quoteStore: opts.QuoteStore,
		oppStore:   opts.OpportunityStore,
		cache:      opts.Cache,
		archiver:   opts.Archiver,
		notifier:   opts.Notifier,
		logger:     logger.With(slog.String("component", "pipeline")),
	}
}

// RunOnce executes a single scan cycle and returns its result. Backend
// failures (store, cache, archive, notify) are logged but do not fail the
// cycle; only collection/analysis errors are returned.
func (o *Orchestrator) RunOnce(ctx context.Context) (CycleResult, error) {
	started := time.Now()
	o.logger.InfoContext(ctx, "scan cycle starting", slog.Int("sources", len(o.sources)))

	quotes, failures := o.collector.CollectAll(ctx, o.sources)

	res, err := o.analyzer.Analyze(quotes)
	if err != nil {
		o.logger.ErrorContext(ctx, "analysis failed",
			slog.Int("quotes", len(quotes)),
			slog.Int("failures", len(failures)),
			slog.String("error", err.Error()),
		)
		o.notifyCycleFailed(ctx, err, failures)
		return CycleResult{Failures: failures}, err
	}

	doc := report.NewDocument(res, failures)

	o.persist(ctx, res)
	o.updateCache(ctx, res.Quotes)
	o.archive(ctx, doc, res.ComputedAt)
	o.notifyOpportunities(ctx, res, failures)

	o.logger.InfoContext(ctx, "scan cycle complete",
		slog.Int("quotes", len(res.Quotes)),
		slog.Int("opportunities", len(res.Opportunities)),
		slog.Int("failures", len(failures)),
		slog.Duration("elapsed", time.Since(started)),
	)

	return CycleResult{Analysis: res, Failures: failures, Document: doc}, nil
}

// RunLoop runs scan cycles on the given interval until ctx is cancelled. The
// first cycle runs immediately. Cycle errors are logged; the loop keeps
// going.
func (o *Orchestrator) RunLoop(ctx context.Context, interval time.Duration) error {
	o.logger.InfoContext(ctx, "watch loop starting", slog.Duration("interval", interval))

	if _, err := o.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		o.logger.WarnContext(ctx, "scan cycle failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.logger.InfoContext(ctx, "watch loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := o.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				o.logger.WarnContext(ctx, "scan cycle failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (o *Orchestrator) persist(ctx context.Context, res domain.AnalysisResult) {
	if o.quoteStore != nil {
		if err := o.quoteStore.InsertBatch(ctx, res.Quotes); err != nil {
			o.logger.ErrorContext(ctx, "persist quotes failed", slog.String("error", err.Error()))
		}
	}
	if o.oppStore != nil && len(res.Opportunities) > 0 {
		if err := o.oppStore.InsertBatch(ctx, res.Opportunities); err != nil {
			o.logger.ErrorContext(ctx, "persist opportunities failed", slog.String("error", err.Error()))
		}
	}
}

func (o *Orchestrator) updateCache(ctx context.Context, quotes []domain.Quote) {
	if o.cache == nil {
		return
	}
	for _, q := range quotes {
		if err := o.cache.SetPrice(ctx, q.Source, q.Price, q.CapturedAt); err != nil {
			o.logger.WarnContext(ctx, "cache update failed",
				slog.String("source", q.Source),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (o *Orchestrator) archive(ctx context.Context, doc report.Document, at time.Time) {
	if o.archiver == nil {
		return
	}
	data, err := doc.JSON()
	if err != nil {
		o.logger.ErrorContext(ctx, "encode report failed", slog.String("error", err.Error()))
		return
	}
	if err := o.archiver.Archive(ctx, data, at); err != nil {
		o.logger.ErrorContext(ctx, "archive report failed", slog.String("error", err.Error()))
	}
}

func (o *Orchestrator) notifyOpportunities(ctx context.Context, res domain.AnalysisResult, failures []domain.CollectionFailure) {
	if o.notifier == nil || len(res.Opportunities) == 0 {
		return
	}
	title := fmt.Sprintf("%d arbitrage opportunity(ies) found", len(res.Opportunities))
	if err := o.notifier.Notify(ctx, notify.EventOpportunities, title, report.Text(res, failures)); err != nil {
		o.logger.WarnContext(ctx, "notification failed", slog.String("error", err.Error()))
	}
}

func (o *Orchestrator) notifyCycleFailed(ctx context.Context, cycleErr error, failures []domain.CollectionFailure) {
	if o.notifier == nil {
		return
	}
	if err := o.notifier.Notify(ctx, notify.EventCycleFailed, "scan cycle failed", report.FailureText(cycleErr, failures)); err != nil {
		o.logger.WarnContext(ctx, "notification failed", slog.String("error", err.Error()))
	}
}
