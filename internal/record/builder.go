// Package record turns the raw fields fetched from a source into a validated
// immutable Quote.
package record

import (
	"strings"
	"time"

	"goldarb/internal/domain"
	"goldarb/internal/normalize"
)

// Builder constructs Quotes from RawQuotes. It is a pure transformation with
// no side effects; the clock is injectable for tests.
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a Builder using the wall clock.
func NewBuilder() *Builder {
	return &Builder{now: func() time.Time { return time.Now().UTC() }}
}

// NewBuilderWithClock creates a Builder with a fixed clock.
func NewBuilderWithClock(now func() time.Time) *Builder {
	return &Builder{now: now}
}

// Build normalizes the raw price through the source-declared unit factor and
// resolves the change indicator. A price that cannot be parsed returns a
// *domain.ValidationError wrapping the normalization failure.
func (b *Builder) Build(raw domain.RawQuote) (domain.Quote, error) {
	price, err := normalize.Normalize(raw.Price, raw.UnitFactor)
	if err != nil {
		return domain.Quote{}, &domain.ValidationError{
			Source: raw.Source,
			Reason: "unparseable price",
			Err:    err,
		}
	}

	return domain.Quote{
		Source:     raw.Source,
		Price:      price,
		Currency:   raw.Currency,
		Change:     resolveChange(raw.Change, raw.Cue),
		CapturedAt: b.now(),
	}, nil
}

// resolveChange determines the change direction: an explicit +/- sign wins,
// an unsigned value falls back to the markup cue, and with neither the
// direction stays unknown. Unsigned text is never assumed positive.
func resolveChange(rawChange string, cue domain.ChangeCue) domain.PriceChange {
	text := strings.TrimSpace(normalize.LatinDigits(rawChange))
	if text == "" {
		return domain.PriceChange{Direction: domain.ChangeUnknown}
	}

	switch {
	case strings.HasPrefix(text, "+"):
		return domain.PriceChange{Text: strings.TrimPrefix(text, "+"), Direction: domain.ChangeUp}
	case strings.HasPrefix(text, "-"):
		return domain.PriceChange{Text: strings.TrimPrefix(text, "-"), Direction: domain.ChangeDown}
	}

	switch cue {
	case domain.CuePositive:
		return domain.PriceChange{Text: text, Direction: domain.ChangeUp}
	case domain.CueNegative:
		return domain.PriceChange{Text: text, Direction: domain.ChangeDown}
	default:
		return domain.PriceChange{Text: text, Direction: domain.ChangeUnknown}
	}
}
