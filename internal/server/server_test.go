package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"goldarb/internal/domain"
	"goldarb/internal/server/handler"
)

type stubQuoteStore struct {
	quotes []domain.Quote
	err    error
}

func (s *stubQuoteStore) InsertBatch(ctx context.Context, quotes []domain.Quote) error { return nil }

func (s *stubQuoteStore) ListRecent(ctx context.Context, opts domain.ListOpts) ([]domain.Quote, error) {
	return s.quotes, s.err
}

func (s *stubQuoteStore) ListBySource(ctx context.Context, source string, opts domain.ListOpts) ([]domain.Quote, error) {
	var out []domain.Quote
	for _, q := range s.quotes {
		if q.Source == source {
			out = append(out, q)
		}
	}
	return out, s.err
}

func (s *stubQuoteStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.quotes)), nil
}

type stubOppStore struct {
	opps []domain.Opportunity
}

func (s *stubOppStore) InsertBatch(ctx context.Context, opps []domain.Opportunity) error { return nil }

func (s *stubOppStore) ListRecent(ctx context.Context, opts domain.ListOpts) ([]domain.Opportunity, error) {
	return s.opps, nil
}

func (s *stubOppStore) ListByPair(ctx context.Context, buySource, sellSource string, opts domain.ListOpts) ([]domain.Opportunity, error) {
	var out []domain.Opportunity
	for _, o := range s.opps {
		if o.BuySource == buySource && o.SellSource == sellSource {
			out = append(out, o)
		}
	}
	return out, nil
}

func newTestServer(quotes *stubQuoteStore, opps *stubOppStore) *Server {
	logger := slog.New(slog.DiscardHandler)
	return NewServer(
		Config{Port: 8000},
		Handlers{
			Health:        handler.NewHealthHandler(logger),
			Quotes:        handler.NewQuoteHandler(quotes, nil, nil, logger),
			Opportunities: handler.NewOpportunityHandler(opps, logger),
		},
		logger,
	)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubQuoteStore{}, &stubOppStore{})

	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestListQuotesEndpoint(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	quotes := &stubQuoteStore{quotes: []domain.Quote{
		{Source: "milli", Price: 86_610_000, Currency: "rial", CapturedAt: now},
		{Source: "talapp", Price: 85_900_000, Currency: "rial", CapturedAt: now},
	}}
	srv := newTestServer(quotes, &stubOppStore{})

	req := httptest.NewRequest("GET", "/api/quotes", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"milli"`) || !strings.Contains(rec.Body.String(), `"talapp"`) {
		t.Errorf("body missing sources: %s", rec.Body.String())
	}
}

func TestListQuotesBySourceEndpoint(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	quotes := &stubQuoteStore{quotes: []domain.Quote{
		{Source: "milli", Price: 86_610_000, Currency: "rial", CapturedAt: now},
		{Source: "talapp", Price: 85_900_000, Currency: "rial", CapturedAt: now},
	}}
	srv := newTestServer(quotes, &stubOppStore{})

	req := httptest.NewRequest("GET", "/api/quotes/milli", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"milli"`) {
		t.Errorf("body missing milli: %s", body)
	}
	if strings.Contains(body, `"talapp"`) {
		t.Errorf("body should not contain talapp: %s", body)
	}
}

func TestListOpportunitiesByPairEndpoint(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	opps := &stubOppStore{opps: []domain.Opportunity{
		{
			ID: "a", BuySource: "talapp", SellSource: "milli",
			BuyPrice: 85_900_000, SellPrice: 86_610_000,
			ProfitPerGram: 710_000, ProfitPercentage: 0.8265, ComputedAt: now,
		},
	}}
	srv := newTestServer(&stubQuoteStore{}, opps)

	req := httptest.NewRequest("GET", "/api/opportunities/talapp/milli", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"profit_per_gram":710000`) {
		t.Errorf("body missing opportunity: %s", rec.Body.String())
	}
}

func TestPairWithIdenticalSourcesRejected(t *testing.T) {
	srv := newTestServer(&stubQuoteStore{}, &stubOppStore{})

	req := httptest.NewRequest("GET", "/api/opportunities/milli/milli", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLatestPricesWithoutCache(t *testing.T) {
	srv := newTestServer(&stubQuoteStore{}, &stubOppStore{})

	req := httptest.NewRequest("GET", "/api/prices", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != 503 {
		t.Fatalf("status = %d, want 503 when cache is not configured", rec.Code)
	}
}
