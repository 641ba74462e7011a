package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"goldarb/internal/domain"
)

func sampleResult() domain.AnalysisResult {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.AnalysisResult{
		Quotes: []domain.Quote{
			{Source: "milli", Price: 86610000, Currency: "IRR",
				Change:     domain.PriceChange{Text: "1.47%", Direction: domain.ChangeUp},
				CapturedAt: at},
			{Source: "goldika", Price: 87500000, Currency: "IRR", CapturedAt: at},
		},
		Opportunities: []domain.Opportunity{
			{
				ID: "o1", BuySource: "milli", SellSource: "goldika",
				BuyPrice: 86610000, SellPrice: 87500000,
				ProfitPerGram: 890000, ProfitPercentage: 1.0275951,
				ComputedAt: at,
			},
		},
		Stats: domain.PriceStats{
			Min: 86610000, Max: 87500000, Mean: 87055000,
			Range: 890000, RangePercent: 1.0275951, VolatilityPercent: 0.511,
		},
		ComputedAt: at,
	}
}

func TestNewDocument_PreservesLegacyShape(t *testing.T) {
	doc := NewDocument(sampleResult(), []domain.CollectionFailure{
		{Source: "talasea", Reason: "timeout"},
	})

	data, err := doc.JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}

	for _, key := range []string{"timestamp", "prices", "arbitrage_opportunities", "failures"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	prices := decoded["prices"].([]any)
	if len(prices) != 2 {
		t.Fatalf("expected 2 price records, got %d", len(prices))
	}
	price := prices[0].(map[string]any)
	for _, key := range []string{"source", "price", "currency", "price_change", "timestamp"} {
		if _, ok := price[key]; !ok {
			t.Errorf("price record missing key %q", key)
		}
	}
	if price["price_change"] != "+1.47%" {
		t.Errorf("expected signed change text, got %v", price["price_change"])
	}

	opps := decoded["arbitrage_opportunities"].([]any)
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity record, got %d", len(opps))
	}
	opp := opps[0].(map[string]any)
	for _, key := range []string{"buy_source", "sell_source", "buy_price", "sell_price", "profit_per_gram", "profit_percentage", "timestamp"} {
		if _, ok := opp[key]; !ok {
			t.Errorf("opportunity record missing key %q", key)
		}
	}
}

func TestNewDocument_RoundsPercentagesAtPresentation(t *testing.T) {
	doc := NewDocument(sampleResult(), nil)
	// 1.0275951 rounds to exactly two decimals in the document.
	if got := doc.Opportunities[0].ProfitPercentage; got != 1.03 {
		t.Errorf("expected 1.03, got %v", got)
	}
}

func TestText_ListsPricesAndOpportunities(t *testing.T) {
	text := Text(sampleResult(), []domain.CollectionFailure{
		{Source: "talasea", Reason: "timeout"},
	})

	for _, want := range []string{
		"86,610,000",
		"87,500,000",
		"buy milli",
		"sell goldika",
		"(1.03%)",
		"talasea: timeout",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report text missing %q:\n%s", want, text)
		}
	}

	// Prices sorted lowest to highest.
	if strings.Index(text, "milli") > strings.Index(text, "goldika") {
		t.Error("expected milli (cheaper) listed before goldika")
	}
}

func TestFailureText(t *testing.T) {
	text := FailureText(domain.ErrInsufficientData, []domain.CollectionFailure{
		{Source: "milli", Reason: "fetch: connection refused"},
	})
	if !strings.Contains(text, "insufficient data") || !strings.Contains(text, "milli") {
		t.Errorf("unexpected failure text:\n%s", text)
	}
}
