// Package normalize converts the heterogeneous price strings published by
// gold sources (Perso-Arabic digits, grouping commas, sub-unit pricing) into
// canonical integer Rial-per-gram values, and formats them back for display.
package normalize

import (
	"strconv"
	"strings"

	"goldarb/internal/domain"
)

// digitOffsets maps the first rune of each supported non-Latin digit block.
// Perso-Arabic (U+06F0) is what the Iranian sites publish; Arabic-Indic
// (U+0660) shows up in some mixed-locale markup.
var digitBlocks = []rune{'۰', '٠'}

// LatinDigits translates every supported non-Latin digit rune to its Latin
// equivalent, character by character. All other runes pass through unchanged.
func LatinDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(latinDigit(r))
	}
	return b.String()
}

func latinDigit(r rune) rune {
	for _, base := range digitBlocks {
		if r >= base && r <= base+9 {
			return '0' + (r - base)
		}
	}
	return r
}

// Normalize converts a raw price string into an integer price in the
// canonical unit. factor is the source-declared unit conversion (10 for
// Toman-quoted prices, 1000 for per-milligram pricing, 0 or 1 for none).
//
// Empty residue, multiple decimal points, or values too large for int64
// yield a *domain.NormalizationError; a parse failure never silently
// produces zero.
func Normalize(raw string, factor int64) (int64, error) {
	if factor <= 0 {
		factor = 1
	}

	cleaned := clean(LatinDigits(raw))
	if cleaned == "" {
		return 0, &domain.NormalizationError{Raw: raw, Reason: "no numeric content"}
	}

	intPart, fracPart, found := strings.Cut(cleaned, ".")
	if strings.Contains(fracPart, ".") {
		return 0, &domain.NormalizationError{Raw: raw, Reason: "multiple decimal points"}
	}
	if intPart == "" && fracPart == "" {
		return 0, &domain.NormalizationError{Raw: raw, Reason: "no digits"}
	}

	var value int64
	if intPart != "" {
		n, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, &domain.NormalizationError{Raw: raw, Reason: "integer part out of range"}
		}
		value = n * factor
		if value/factor != n {
			return 0, &domain.NormalizationError{Raw: raw, Reason: "value out of range"}
		}
	}

	if found && fracPart != "" {
		// Scale the fraction into the factor with exact integer math,
		// rounding the residue half up.
		frac, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, &domain.NormalizationError{Raw: raw, Reason: "fractional part out of range"}
		}
		scale := int64(1)
		for range fracPart {
			scale *= 10
		}
		value += (frac*factor + scale/2) / scale
	}

	return value, nil
}

// clean strips grouping separators and any remaining non-digit,
// non-decimal-point characters (currency labels, whitespace, signs).
func clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format renders price with a grouping comma every three digits from the
// least-significant end. It is the exact inverse of Normalize for
// canonically-grouped integer input.
func Format(price int64) string {
	s := strconv.FormatInt(price, 10)

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	if len(s) > 3 {
		var b strings.Builder
		lead := len(s) % 3
		if lead > 0 {
			b.WriteString(s[:lead])
		}
		for i := lead; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}

	if neg {
		return "-" + s
	}
	return s
}
