// Package source implements SourceAdapters for the supported gold platforms.
// Each adapter fetches one page over HTTP and extracts the 18-carat
// per-gram price and the optional change indicator with site-specific
// patterns; DOM-heavy or bot-protected sites are out of scope.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"goldarb/internal/domain"
	"goldarb/internal/normalize"
)

const (
	// userAgent mirrors a desktop browser; several sites serve a stripped
	// page to unknown agents.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	// maxBodyBytes caps how much of a page is read for pattern matching.
	maxBodyBytes = 2 << 20
)

// Site declares one source: where to fetch and how to read the page.
type Site struct {
	Name     string
	URL      string
	Currency string
	// UnitFactor rescales the quoted unit to Rial per gram (0 means 1).
	UnitFactor int64
	// PricePattern extracts the price text; the first capture group is used.
	PricePattern string
	// ChangePattern extracts the change indicator, optional.
	ChangePattern string
	// PositiveCues / NegativeCues are markup fragments (color classes,
	// direction keywords) that resolve the sign of an unsigned change.
	PositiveCues []string
	NegativeCues []string
}

// HTTPSource fetches and parses one site.
type HTTPSource struct {
	site     Site
	priceRe  *regexp.Regexp
	changeRe *regexp.Regexp
	client   *http.Client
}

// NewHTTPSource compiles the site's patterns and returns the adapter.
func NewHTTPSource(site Site, client *http.Client) (*HTTPSource, error) {
	if site.Name == "" || site.URL == "" {
		return nil, fmt.Errorf("source: name and url are required")
	}
	priceRe, err := regexp.Compile(site.PricePattern)
	if err != nil {
		return nil, fmt.Errorf("source %s: price pattern: %w", site.Name, err)
	}
	var changeRe *regexp.Regexp
	if site.ChangePattern != "" {
		changeRe, err = regexp.Compile(site.ChangePattern)
		if err != nil {
			return nil, fmt.Errorf("source %s: change pattern: %w", site.Name, err)
		}
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{site: site, priceRe: priceRe, changeRe: changeRe, client: client}, nil
}

// Name returns the source identifier, stable across runs.
func (s *HTTPSource) Name() string { return s.site.Name }

// Fetch downloads the page and extracts the raw price and change fields.
// It returns an error when the page yields no price match; normalization is
// left to the record builder.
func (s *HTTPSource) Fetch(ctx context.Context) (domain.RawQuote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.site.URL, nil)
	if err != nil {
		return domain.RawQuote{}, fmt.Errorf("source %s: create request: %w", s.site.Name, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "fa-IR,fa;q=0.9,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.RawQuote{}, fmt.Errorf("source %s: get: %w", s.site.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.RawQuote{}, fmt.Errorf("source %s: unexpected status %d", s.site.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.RawQuote{}, fmt.Errorf("source %s: read body: %w", s.site.Name, err)
	}
	// Translate digits once so one pattern matches Latin and Perso-Arabic
	// renderings alike, and cue scanning sees the same text the patterns do.
	page := normalize.LatinDigits(string(body))

	price, ok := firstGroup(s.priceRe, page)
	if !ok {
		return domain.RawQuote{}, fmt.Errorf("source %s: no price match", s.site.Name)
	}

	raw := domain.RawQuote{
		Source:     s.site.Name,
		Price:      price,
		Currency:   s.site.Currency,
		UnitFactor: s.site.UnitFactor,
	}

	if s.changeRe != nil {
		if change, ok := firstGroup(s.changeRe, page); ok {
			raw.Change = change
			raw.Cue = s.changeCue(page, change)
		}
	}

	return raw, nil
}

// changeCue scans the markup around the change text for sign cues when the
// text itself carries no explicit sign.
func (s *HTTPSource) changeCue(page, change string) domain.ChangeCue {
	if strings.HasPrefix(change, "+") || strings.HasPrefix(change, "-") {
		return domain.CueNone
	}

	idx := strings.Index(page, change)
	if idx < 0 {
		return domain.CueNone
	}
	// Inspect the enclosing element: a window before the match catches
	// class/style attributes, a short window after catches icon markup.
	lo := idx - 300
	if lo < 0 {
		lo = 0
	}
	hi := idx + len(change) + 100
	if hi > len(page) {
		hi = len(page)
	}
	window := strings.ToLower(page[lo:hi])

	for _, cue := range s.site.NegativeCues {
		if strings.Contains(window, strings.ToLower(cue)) {
			return domain.CueNegative
		}
	}
	for _, cue := range s.site.PositiveCues {
		if strings.Contains(window, strings.ToLower(cue)) {
			return domain.CuePositive
		}
	}
	return domain.CueNone
}

func firstGroup(re *regexp.Regexp, page string) (string, bool) {
	m := re.FindStringSubmatch(page)
	if len(m) < 2 || strings.TrimSpace(m[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// Compile-time interface check.
var _ domain.SourceAdapter = (*HTTPSource)(nil)
