// Package report renders a cycle's analysis for humans (console, Telegram)
// and machines (the persisted JSON document). The JSON shape matches the
// layout downstream consumers already read; only additive fields are allowed.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"goldarb/internal/domain"
	"goldarb/internal/normalize"
)

// topOpportunities caps the opportunity list in the text rendering.
const topOpportunities = 5

// PriceRecord is one quote in the persisted document.
type PriceRecord struct {
	Source      string `json:"source"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
	PriceChange string `json:"price_change"`
	Timestamp   string `json:"timestamp"`
}

// OpportunityRecord is one opportunity in the persisted document.
type OpportunityRecord struct {
	BuySource        string  `json:"buy_source"`
	SellSource       string  `json:"sell_source"`
	BuyPrice         int64   `json:"buy_price"`
	SellPrice        int64   `json:"sell_price"`
	ProfitPerGram    int64   `json:"profit_per_gram"`
	ProfitPercentage float64 `json:"profit_percentage"`
	Timestamp        string  `json:"timestamp"`
}

// FailureRecord is one source failure in the persisted document. Additive
// relative to the legacy shape.
type FailureRecord struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Document is the persisted per-cycle report.
type Document struct {
	Timestamp     string              `json:"timestamp"`
	Prices        []PriceRecord       `json:"prices"`
	Opportunities []OpportunityRecord `json:"arbitrage_opportunities"`
	Failures      []FailureRecord     `json:"failures,omitempty"`
}

// NewDocument builds the persisted document from a cycle's analysis output.
// Percentages are rounded to two decimals here, at the presentation boundary.
func NewDocument(res domain.AnalysisResult, failures []domain.CollectionFailure) Document {
	doc := Document{
		Timestamp:     res.ComputedAt.Format(time.RFC3339),
		Prices:        make([]PriceRecord, 0, len(res.Quotes)),
		Opportunities: make([]OpportunityRecord, 0, len(res.Opportunities)),
	}

	for _, q := range res.Quotes {
		doc.Prices = append(doc.Prices, PriceRecord{
			Source:      q.Source,
			Price:       q.Price,
			Currency:    q.Currency,
			PriceChange: q.Change.String(),
			Timestamp:   q.CapturedAt.Format(time.RFC3339),
		})
	}

	for _, o := range res.Opportunities {
		doc.Opportunities = append(doc.Opportunities, OpportunityRecord{
			BuySource:        o.BuySource,
			SellSource:       o.SellSource,
			BuyPrice:         o.BuyPrice,
			SellPrice:        o.SellPrice,
			ProfitPerGram:    o.ProfitPerGram,
			ProfitPercentage: round2(o.ProfitPercentage),
			Timestamp:        o.ComputedAt.Format(time.RFC3339),
		})
	}

	for _, f := range failures {
		doc.Failures = append(doc.Failures, FailureRecord{Source: f.Source, Reason: f.Reason})
	}

	return doc
}

// JSON marshals the document with indentation, mirroring the legacy files.
func (d Document) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: marshal document: %w", err)
	}
	return data, nil
}

// Text renders a human-readable report: prices lowest to highest, the top
// opportunities, range analysis, and per-source failures.
func Text(res domain.AnalysisResult, failures []domain.CollectionFailure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Gold price report — %s\n", res.ComputedAt.Format("2006-01-02 15:04:05"))

	sorted := make([]domain.Quote, len(res.Quotes))
	copy(sorted, res.Quotes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Price != sorted[j].Price {
			return sorted[i].Price < sorted[j].Price
		}
		return sorted[i].Source < sorted[j].Source
	})

	b.WriteString("\nPrices (lowest to highest):\n")
	for _, q := range sorted {
		fmt.Fprintf(&b, "  %-10s %15s %s", q.Source, normalize.Format(q.Price), q.Currency)
		if change := q.Change.String(); change != "" {
			fmt.Fprintf(&b, "  (%s)", change)
		}
		b.WriteByte('\n')
	}

	s := res.Stats
	b.WriteString("\nRange analysis:\n")
	fmt.Fprintf(&b, "  low %s  high %s  range %s (%.2f%%)  volatility %.2f%%\n",
		normalize.Format(s.Min), normalize.Format(s.Max),
		normalize.Format(s.Range), s.RangePercent, s.VolatilityPercent)

	if len(res.Opportunities) == 0 {
		b.WriteString("\nNo arbitrage opportunities above threshold.\n")
	} else {
		fmt.Fprintf(&b, "\nTop opportunities (%d total):\n", len(res.Opportunities))
		for i, o := range res.Opportunities {
			if i == topOpportunities {
				break
			}
			fmt.Fprintf(&b, "  %d. buy %s at %s → sell %s at %s: +%s/g (%.2f%%)\n",
				i+1, o.BuySource, normalize.Format(o.BuyPrice),
				o.SellSource, normalize.Format(o.SellPrice),
				normalize.Format(o.ProfitPerGram), o.ProfitPercentage)
		}
	}

	if len(failures) > 0 {
		fmt.Fprintf(&b, "\nFailed sources (%d):\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(&b, "  %s: %s\n", f.Source, f.Reason)
		}
	}

	return b.String()
}

// FailureText renders a cycle that produced no analysis at all.
func FailureText(err error, failures []domain.CollectionFailure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cycle failed: %v\n", err)
	if len(failures) > 0 {
		b.WriteString("Failed sources:\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "  %s: %s\n", f.Source, f.Reason)
		}
	}
	return b.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
