package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"goldarb/internal/arbitrage"
	"goldarb/internal/collector"
	"goldarb/internal/pipeline"
	"goldarb/internal/record"
	"goldarb/internal/report"
	"goldarb/internal/server"
	"goldarb/internal/server/handler"
)

// shutdownTimeout bounds graceful HTTP server shutdown.
const shutdownTimeout = 10 * time.Second

// buildOrchestrator assembles the scan pipeline from the wired dependencies.
func (a *App) buildOrchestrator(deps *Dependencies) *pipeline.Orchestrator {
	col := collector.New(collector.Config{
		Concurrency: a.cfg.Scan.Concurrency,
		Timeout:     a.cfg.Scan.Timeout.Duration,
	}, record.NewBuilder(), a.logger)

	analyzer := arbitrage.New(arbitrage.Config{
		MinProfitPercentage: a.cfg.Scan.MinProfitPercentage,
	}, a.logger)

	return pipeline.NewOrchestrator(col, analyzer, deps.Sources, pipeline.Options{
		QuoteStore:       deps.QuoteStore,
		OpportunityStore: deps.OpportunityStore,
		Cache:            deps.PriceCache,
		Archiver:         deps.Archiver,
		Notifier:         deps.Notifier,
	}, a.logger)
}

// ScanMode runs a single scan cycle and prints the text report to stdout.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	orch := a.buildOrchestrator(deps)

	res, err := orch.RunOnce(ctx)
	if err != nil {
		fmt.Fprint(os.Stderr, report.FailureText(err, res.Failures))
		return fmt.Errorf("app: scan: %w", err)
	}

	fmt.Print(report.Text(res.Analysis, res.Failures))
	return nil
}

// WatchMode runs scan cycles on the configured interval until the context is
// cancelled.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	orch := a.buildOrchestrator(deps)

	err := orch.RunLoop(ctx, a.cfg.Scan.Interval.Duration)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ServerMode serves the HTTP API over stored history only; no scanning runs.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps)
	return g.Wait()
}

// FullMode runs the watch loop and the HTTP API together.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	orch := a.buildOrchestrator(deps)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := orch.RunLoop(ctx, a.cfg.Scan.Interval.Duration)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	a.startHTTPServer(ctx, g, deps)

	return g.Wait()
}

// startHTTPServer adds the API server goroutines to the given errgroup: one
// serving requests, one waiting on ctx to trigger a graceful shutdown.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
	}, server.Handlers{
		Health:        handler.NewHealthHandler(a.logger),
		Quotes:        handler.NewQuoteHandler(deps.QuoteStore, deps.PriceCache, deps.SourceNames, a.logger),
		Opportunities: handler.NewOpportunityHandler(deps.OpportunityStore, a.logger),
	}, a.logger)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
