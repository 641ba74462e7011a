// Package domain defines the core value types and the interfaces that the
// backend packages (postgres, redis, s3) implement. It carries no
// dependencies so every other package can import it freely.
package domain

import "time"

// ChangeDirection classifies the direction of a source's reported price
// change. Unsigned change text with no markup cue stays ChangeUnknown; it is
// never assumed to be an increase.
type ChangeDirection string

const (
	ChangeUnknown ChangeDirection = "unknown"
	ChangeUp      ChangeDirection = "up"
	ChangeDown    ChangeDirection = "down"
)

// PriceChange is a source's reported change indicator. Text is the normalized
// (Latin-digit) raw text, e.g. "1.47%"; Direction carries the resolved sign.
type PriceChange struct {
	Text      string
	Direction ChangeDirection
}

// String renders the change with an explicit sign where one is known.
func (c PriceChange) String() string {
	if c.Text == "" {
		return ""
	}
	switch c.Direction {
	case ChangeUp:
		return "+" + c.Text
	case ChangeDown:
		return "-" + c.Text
	default:
		return c.Text
	}
}

// Quote is a single source's price observation at a point in time. Quotes are
// immutable: a collection cycle builds a fresh set and discards it once
// opportunities are derived.
type Quote struct {
	Source     string
	Price      int64 // canonical unit: Rial per gram
	Currency   string
	Change     PriceChange
	CapturedAt time.Time
}

// Valid reports whether the quote may participate in arbitrage analysis.
// A zero or negative price marks a quote as invalid; note that a parse
// failure never produces a zero price (it fails collection instead), so an
// actual zero means the source really published one.
func (q Quote) Valid() bool {
	return q.Price > 0
}
