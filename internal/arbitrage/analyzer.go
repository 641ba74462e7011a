// Package arbitrage computes directed buy/sell spreads across a cycle's
// quotes and ranks the ones that clear the configured profit threshold.
package arbitrage

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"goldarb/internal/domain"
)

// DefaultMinProfitPercentage is the threshold applied when none is configured.
const DefaultMinProfitPercentage = 0.5

// Config configures the analyzer.
type Config struct {
	// MinProfitPercentage is the minimum directed spread, in percent of the
	// buy price, for a pair to count as an opportunity.
	MinProfitPercentage float64
}

// Analyzer derives opportunities and summary statistics from one cycle's
// quotes. It is a pure computation: input quotes are never mutated and the
// result is a fresh structure.
type Analyzer struct {
	minProfitPct float64
	logger       *slog.Logger
}

// New creates an Analyzer. A zero threshold falls back to the default.
func New(cfg Config, logger *slog.Logger) *Analyzer {
	minPct := cfg.MinProfitPercentage
	if minPct == 0 {
		minPct = DefaultMinProfitPercentage
	}
	return &Analyzer{
		minProfitPct: minPct,
		logger:       logger.With(slog.String("component", "analyzer")),
	}
}

// Analyze filters out invalid quotes, rejects mixed-currency input, computes
// every directed pairwise spread, and returns the opportunities clearing the
// threshold together with price statistics over all valid quotes.
//
// The full ordered cross product is evaluated deliberately: intermediate
// pairs can each clear the threshold even when neither end is the global
// extreme. Fewer than two valid quotes yields domain.ErrInsufficientData.
func (a *Analyzer) Analyze(quotes []domain.Quote) (domain.AnalysisResult, error) {
	valid := make([]domain.Quote, 0, len(quotes))
	for _, q := range quotes {
		if !q.Valid() {
			a.logger.Warn("excluding invalid quote",
				slog.String("source", q.Source),
				slog.Int64("price", q.Price),
			)
			continue
		}
		valid = append(valid, q)
	}

	if err := checkCurrencies(valid); err != nil {
		return domain.AnalysisResult{}, err
	}

	if len(valid) < 2 {
		return domain.AnalysisResult{}, fmt.Errorf(
			"%w: %d valid quote(s), need at least 2", domain.ErrInsufficientData, len(valid),
		)
	}

	now := time.Now().UTC()

	var opps []domain.Opportunity
	for i, buy := range valid {
		for j, sell := range valid {
			if i == j {
				continue
			}
			profit := sell.Price - buy.Price
			profitPct := float64(profit) / float64(buy.Price) * 100
			if profitPct < a.minProfitPct {
				continue
			}
			opps = append(opps, domain.Opportunity{
				ID:               uuid.Must(uuid.NewRandom()).String(),
				BuySource:        buy.Source,
				SellSource:       sell.Source,
				BuyPrice:         buy.Price,
				SellPrice:        sell.Price,
				ProfitPerGram:    profit,
				ProfitPercentage: profitPct,
				ComputedAt:       now,
			})
		}
	}

	// Deterministic ranking: profit percentage desc, absolute profit desc,
	// buy source asc.
	sort.Slice(opps, func(i, j int) bool {
		if opps[i].ProfitPercentage != opps[j].ProfitPercentage {
			return opps[i].ProfitPercentage > opps[j].ProfitPercentage
		}
		if opps[i].ProfitPerGram != opps[j].ProfitPerGram {
			return opps[i].ProfitPerGram > opps[j].ProfitPerGram
		}
		return opps[i].BuySource < opps[j].BuySource
	})

	a.logger.Info("analysis complete",
		slog.Int("valid_quotes", len(valid)),
		slog.Int("opportunities", len(opps)),
		slog.Float64("min_profit_pct", a.minProfitPct),
	)

	return domain.AnalysisResult{
		Quotes:        valid,
		Opportunities: opps,
		Stats:         computeStats(valid),
		ComputedAt:    now,
	}, nil
}

// checkCurrencies rejects analysis over quotes with differing currency
// labels; a spread across currencies is meaningless.
func checkCurrencies(quotes []domain.Quote) error {
	seen := make(map[string]bool)
	for _, q := range quotes {
		seen[q.Currency] = true
	}
	if len(seen) > 1 {
		labels := make([]string, 0, len(seen))
		for c := range seen {
			labels = append(labels, c)
		}
		sort.Strings(labels)
		return fmt.Errorf("%w: %s", domain.ErrMixedCurrencies, strings.Join(labels, ", "))
	}
	return nil
}

// computeStats summarizes all valid quotes: min, max, arithmetic mean, range,
// range as percent of min, and population standard deviation as percent of
// the mean.
func computeStats(quotes []domain.Quote) domain.PriceStats {
	if len(quotes) == 0 {
		return domain.PriceStats{}
	}

	min, max := quotes[0].Price, quotes[0].Price
	var sum int64
	for _, q := range quotes {
		if q.Price < min {
			min = q.Price
		}
		if q.Price > max {
			max = q.Price
		}
		sum += q.Price
	}
	mean := float64(sum) / float64(len(quotes))

	var sqDiff float64
	for _, q := range quotes {
		d := float64(q.Price) - mean
		sqDiff += d * d
	}
	stddev := math.Sqrt(sqDiff / float64(len(quotes)))

	return domain.PriceStats{
		Min:               min,
		Max:               max,
		Mean:              mean,
		Range:             max - min,
		RangePercent:      float64(max-min) / float64(min) * 100,
		VolatilityPercent: stddev / mean * 100,
	}
}
