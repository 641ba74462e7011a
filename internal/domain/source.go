package domain

import "context"

// ChangeCue is a visual/semantic sign hint extracted from a source's markup
// (color classes, up/down icons) for change text that carries no explicit
// +/- sign.
type ChangeCue string

const (
	CueNone     ChangeCue = ""
	CuePositive ChangeCue = "positive"
	CueNegative ChangeCue = "negative"
)

// RawQuote is what a source adapter hands to the record builder: unparsed
// price and change text plus the source-declared properties needed to
// normalize them.
type RawQuote struct {
	Source   string
	Price    string // may contain Perso-Arabic digits and grouping commas
	Change   string // optional; "" when the page exposes no change indicator
	Cue      ChangeCue
	Currency string
	// UnitFactor rescales the source's quoted unit to Rial per gram, e.g.
	// 10 for Toman-quoted sources, 1000 for per-milligram pricing. Zero
	// means 1. Declared per source, never inferred from the string.
	UnitFactor int64
}

// SourceAdapter is one site-specific scraper. Fetch must honor ctx
// cancellation; the collector abandons adapters still pending at the batch
// deadline.
type SourceAdapter interface {
	Name() string
	Fetch(ctx context.Context) (RawQuote, error)
}

// CollectionFailure records a single source's failure within a cycle.
// Failures are always recovered locally: the batch continues with whatever
// succeeded.
type CollectionFailure struct {
	Source string
	Reason string
}
