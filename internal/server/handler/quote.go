package handler

import (
	"log/slog"
	"net/http"
	"time"

	"goldarb/internal/domain"
)

// QuoteHandler serves quote history and the latest cached prices.
type QuoteHandler struct {
	store   domain.QuoteStore
	cache   domain.PriceCache
	sources []string
	logger  *slog.Logger
}

// NewQuoteHandler creates a QuoteHandler. cache may be nil, in which case the
// latest-prices endpoint reports 503. sources lists the registered source
// names used for the cache multi-get.
func NewQuoteHandler(store domain.QuoteStore, cache domain.PriceCache, sources []string, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{
		store:   store,
		cache:   cache,
		sources: sources,
		logger:  logHandler(logger, "quotes"),
	}
}

type quoteResponse struct {
	Source      string `json:"source"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
	PriceChange string `json:"price_change"`
	Timestamp   string `json:"timestamp"`
}

func toQuoteResponses(quotes []domain.Quote) []quoteResponse {
	out := make([]quoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, quoteResponse{
			Source:      q.Source,
			Price:       q.Price,
			Currency:    q.Currency,
			PriceChange: q.Change.String(),
			Timestamp:   q.CapturedAt.Format(time.RFC3339),
		})
	}
	return out
}

// ListQuotes returns recent quotes across all sources, newest first.
// GET /api/quotes
func (h *QuoteHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)

	quotes, err := h.store.ListRecent(r.Context(), opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list quotes failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list quotes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"quotes": toQuoteResponses(quotes),
		"limit":  opts.Limit,
		"offset": opts.Offset,
	})
}

// ListQuotesBySource returns recent quotes for one source, newest first.
// GET /api/quotes/{source}
func (h *QuoteHandler) ListQuotesBySource(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")
	opts := parseListOpts(r)

	quotes, err := h.store.ListBySource(r.Context(), source, opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list quotes by source failed",
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list quotes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"source": source,
		"quotes": toQuoteResponses(quotes),
		"limit":  opts.Limit,
		"offset": opts.Offset,
	})
}

// LatestPrices returns the latest cached price per source.
// GET /api/prices
func (h *QuoteHandler) LatestPrices(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeError(w, http.StatusServiceUnavailable, "price cache not configured")
		return
	}

	prices, err := h.cache.GetPrices(r.Context(), h.sources)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "get latest prices failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to get latest prices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"prices": prices,
	})
}
