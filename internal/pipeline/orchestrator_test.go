package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"goldarb/internal/arbitrage"
	"goldarb/internal/collector"
	"goldarb/internal/domain"
	"goldarb/internal/record"
)

type stubSource struct {
	name  string
	price string
	err   error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) (domain.RawQuote, error) {
	if s.err != nil {
		return domain.RawQuote{}, s.err
	}
	return domain.RawQuote{
		Source:     s.name,
		Price:      s.price,
		Currency:   "rial",
		UnitFactor: 1,
	}, nil
}

type stubQuoteStore struct {
	domain.QuoteStore
	inserted []domain.Quote
}

func (s *stubQuoteStore) InsertBatch(ctx context.Context, quotes []domain.Quote) error {
	s.inserted = append(s.inserted, quotes...)
	return nil
}

type stubOppStore struct {
	domain.OpportunityStore
	inserted []domain.Opportunity
}

func (s *stubOppStore) InsertBatch(ctx context.Context, opps []domain.Opportunity) error {
	s.inserted = append(s.inserted, opps...)
	return nil
}

type stubCache struct {
	prices map[string]int64
}

func (c *stubCache) SetPrice(ctx context.Context, source string, price int64, ts time.Time) error {
	c.prices[source] = price
	return nil
}

func (c *stubCache) GetPrice(ctx context.Context, source string) (int64, time.Time, error) {
	return 0, time.Time{}, domain.ErrNotFound
}

func (c *stubCache) GetPrices(ctx context.Context, sources []string) (map[string]int64, error) {
	return nil, nil
}

type stubArchiver struct {
	documents [][]byte
}

func (a *stubArchiver) Archive(ctx context.Context, document []byte, at time.Time) error {
	a.documents = append(a.documents, document)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestOrchestrator(t *testing.T, sources []domain.SourceAdapter, opts Options) *Orchestrator {
	t.Helper()
	logger := testLogger()
	col := collector.New(collector.Config{Concurrency: 2, Timeout: 5 * time.Second}, record.NewBuilder(), logger)
	an := arbitrage.New(arbitrage.Config{MinProfitPercentage: 0.5}, logger)
	return NewOrchestrator(col, an, sources, opts, logger)
}

func TestRunOnceFansOutToBackends(t *testing.T) {
	quoteStore := &stubQuoteStore{}
	oppStore := &stubOppStore{}
	cache := &stubCache{prices: map[string]int64{}}
	archiver := &stubArchiver{}

	sources := []domain.SourceAdapter{
		&stubSource{name: "alpha", price: "100"},
		&stubSource{name: "beta", price: "105"},
	}

	o := newTestOrchestrator(t, sources, Options{
		QuoteStore:       quoteStore,
		OpportunityStore: oppStore,
		Cache:            cache,
		Archiver:         archiver,
	})

	res, err := o.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if len(res.Analysis.Quotes) != 2 {
		t.Fatalf("quotes = %d, want 2", len(res.Analysis.Quotes))
	}
	// Only buy alpha at 100, sell beta at 105 clears the 0.5% threshold.
	if len(res.Analysis.Opportunities) != 1 {
		t.Fatalf("opportunities = %d, want 1", len(res.Analysis.Opportunities))
	}

	if len(quoteStore.inserted) != 2 {
		t.Errorf("persisted quotes = %d, want 2", len(quoteStore.inserted))
	}
	if len(oppStore.inserted) != 1 {
		t.Errorf("persisted opportunities = %d, want 1", len(oppStore.inserted))
	}
	if cache.prices["alpha"] != 100 || cache.prices["beta"] != 105 {
		t.Errorf("cached prices = %v, want alpha=100 beta=105", cache.prices)
	}
	if len(archiver.documents) != 1 {
		t.Fatalf("archived documents = %d, want 1", len(archiver.documents))
	}
	if doc := string(archiver.documents[0]); !strings.Contains(doc, `"arbitrage_opportunities"`) {
		t.Errorf("archived document missing opportunities key:\n%s", doc)
	}
}

func TestRunOnceWithoutBackends(t *testing.T) {
	sources := []domain.SourceAdapter{
		&stubSource{name: "alpha", price: "100"},
		&stubSource{name: "beta", price: "105"},
	}

	o := newTestOrchestrator(t, sources, Options{})

	res, err := o.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(res.Analysis.Opportunities) != 1 {
		t.Fatalf("opportunities = %d, want 1", len(res.Analysis.Opportunities))
	}
}

func TestRunOnceReturnsAnalysisError(t *testing.T) {
	quoteStore := &stubQuoteStore{}

	sources := []domain.SourceAdapter{
		&stubSource{name: "alpha", price: "100"},
		&stubSource{name: "beta", err: errors.New("connection refused")},
	}

	o := newTestOrchestrator(t, sources, Options{QuoteStore: quoteStore})

	res, err := o.RunOnce(context.Background())
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].Source != "beta" {
		t.Fatalf("failures = %+v, want one for beta", res.Failures)
	}
	if len(quoteStore.inserted) != 0 {
		t.Errorf("persisted quotes = %d, want 0 on failed cycle", len(quoteStore.inserted))
	}
}

func TestRunLoopStopsOnCancel(t *testing.T) {
	sources := []domain.SourceAdapter{
		&stubSource{name: "alpha", price: "100"},
		&stubSource{name: "beta", price: "105"},
	}

	o := newTestOrchestrator(t, sources, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- o.RunLoop(ctx, time.Hour)
	}()

	// First cycle runs immediately; cancel shortly after.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("RunLoop = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunLoop did not stop after cancel")
	}
}
