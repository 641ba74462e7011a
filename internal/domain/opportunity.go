package domain

import "time"

// Opportunity is a directed buy-low/sell-high pair between two sources that
// cleared the minimum profit threshold. Derived, read-only, and scoped to a
// single report.
type Opportunity struct {
	ID               string
	BuySource        string
	SellSource       string
	BuyPrice         int64
	SellPrice        int64
	ProfitPerGram    int64   // SellPrice - BuyPrice, in Rial
	ProfitPercentage float64 // ProfitPerGram / BuyPrice * 100, unrounded
	ComputedAt       time.Time
}

// PriceStats summarizes the valid quotes of one cycle. Percentages are kept
// unrounded; rounding happens only at presentation.
type PriceStats struct {
	Min               int64
	Max               int64
	Mean              float64
	Range             int64   // Max - Min
	RangePercent      float64 // Range / Min * 100
	VolatilityPercent float64 // population stddev / mean * 100
}

// AnalysisResult is the analyzer's output for one cycle: the valid quotes it
// ranked, every opportunity that cleared the threshold (sorted by profit
// percentage descending), and summary statistics.
type AnalysisResult struct {
	Quotes        []Quote
	Opportunities []Opportunity
	Stats         PriceStats
	ComputedAt    time.Time
}
