package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrInsufficientData is returned by the analyzer when fewer than two
	// valid quotes survive filtering. Terminal for the cycle, not a crash.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrMixedCurrencies is returned when quotes carry differing currency
	// labels; spreads across currencies are meaningless and are rejected
	// rather than silently computed.
	ErrMixedCurrencies = errors.New("mixed currencies")
)

// NormalizationError reports that raw price text could not be converted to a
// number. It deliberately replaces the fallback-to-zero behavior of naive
// scrapers: callers can always distinguish "no data" from "zero price".
type NormalizationError struct {
	Raw    string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %q: %s", e.Raw, e.Reason)
}

// ValidationError reports that a source's raw fields could not be built into
// a Quote.
type ValidationError struct {
	Source string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("source %s: %s", e.Source, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
