// Package collector gathers quotes from all configured sources concurrently,
// tolerating per-source failure. A cycle returns whatever succeeded within
// the batch deadline plus a failure record for everything else.
package collector

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"goldarb/internal/domain"
	"goldarb/internal/record"
)

const (
	// DefaultConcurrency bounds simultaneous in-flight fetches.
	DefaultConcurrency = 5
	// DefaultTimeout is the overall batch deadline.
	DefaultTimeout = 30 * time.Second
)

// Config configures the collector.
type Config struct {
	Concurrency int
	Timeout     time.Duration
}

// Collector fans out over source adapters through a bounded worker pool.
type Collector struct {
	builder     *record.Builder
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

// New creates a Collector. Zero config fields fall back to defaults.
func New(cfg Config, builder *record.Builder, logger *slog.Logger) *Collector {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Collector{
		builder:     builder,
		concurrency: cfg.Concurrency,
		timeout:     cfg.Timeout,
		logger:      logger.With(slog.String("component", "collector")),
	}
}

// outcome is one source's result, exactly one of quote or failure.
type outcome struct {
	source  string
	quote   domain.Quote
	failure *domain.CollectionFailure
}

// CollectAll fetches from every source concurrently and returns the quotes
// that were built successfully plus a failure record per source that errored,
// failed validation, or was still pending at the deadline. A single source
// never aborts the batch. Output order is completion order.
func (c *Collector) CollectAll(ctx context.Context, sources []domain.SourceAdapter) ([]domain.Quote, []domain.CollectionFailure) {
	if len(sources) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Buffered to capacity so abandoned workers never block on send.
	results := make(chan outcome, len(sources))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, src := range sources {
		g.Go(func() error {
			results <- c.fetchOne(ctx, src)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	var (
		quotes    []domain.Quote
		failures  []domain.CollectionFailure
		collected = make(map[string]bool, len(sources))
	)

	for len(collected) < len(sources) {
		select {
		case r := <-results:
			collected[r.source] = true
			if r.failure != nil {
				failures = append(failures, *r.failure)
			} else {
				quotes = append(quotes, r.quote)
			}
		case <-ctx.Done():
			// Deadline elapsed: abandon everything still pending.
			for _, src := range sources {
				if !collected[src.Name()] {
					failures = append(failures, domain.CollectionFailure{
						Source: src.Name(),
						Reason: "timeout",
					})
				}
			}
			c.logger.Warn("batch deadline elapsed",
				slog.Int("collected", len(quotes)),
				slog.Int("abandoned", len(sources)-len(collected)),
			)
			return quotes, failures
		}
	}

	<-done
	c.logger.Info("collection complete",
		slog.Int("sources", len(sources)),
		slog.Int("quotes", len(quotes)),
		slog.Int("failures", len(failures)),
	)
	return quotes, failures
}

func (c *Collector) fetchOne(ctx context.Context, src domain.SourceAdapter) outcome {
	name := src.Name()

	raw, err := src.Fetch(ctx)
	if err != nil {
		c.logger.Warn("source fetch failed",
			slog.String("source", name),
			slog.String("error", err.Error()),
		)
		return outcome{source: name, failure: &domain.CollectionFailure{
			Source: name,
			Reason: "fetch: " + err.Error(),
		}}
	}

	quote, err := c.builder.Build(raw)
	if err != nil {
		c.logger.Warn("quote validation failed",
			slog.String("source", name),
			slog.String("error", err.Error()),
		)
		return outcome{source: name, failure: &domain.CollectionFailure{
			Source: name,
			Reason: err.Error(),
		}}
	}

	return outcome{source: name, quote: quote}
}
