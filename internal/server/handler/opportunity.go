package handler

import (
	"log/slog"
	"net/http"
	"time"

	"goldarb/internal/domain"
)

// OpportunityHandler serves stored arbitrage opportunity history.
type OpportunityHandler struct {
	store  domain.OpportunityStore
	logger *slog.Logger
}

// NewOpportunityHandler creates an OpportunityHandler.
func NewOpportunityHandler(store domain.OpportunityStore, logger *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		store:  store,
		logger: logHandler(logger, "opportunities"),
	}
}

type opportunityResponse struct {
	ID               string  `json:"id"`
	BuySource        string  `json:"buy_source"`
	SellSource       string  `json:"sell_source"`
	BuyPrice         int64   `json:"buy_price"`
	SellPrice        int64   `json:"sell_price"`
	ProfitPerGram    int64   `json:"profit_per_gram"`
	ProfitPercentage float64 `json:"profit_percentage"`
	Timestamp        string  `json:"timestamp"`
}

func toOpportunityResponses(opps []domain.Opportunity) []opportunityResponse {
	out := make([]opportunityResponse, 0, len(opps))
	for _, o := range opps {
		out = append(out, opportunityResponse{
			ID:               o.ID,
			BuySource:        o.BuySource,
			SellSource:       o.SellSource,
			BuyPrice:         o.BuyPrice,
			SellPrice:        o.SellPrice,
			ProfitPerGram:    o.ProfitPerGram,
			ProfitPercentage: o.ProfitPercentage,
			Timestamp:        o.ComputedAt.Format(time.RFC3339),
		})
	}
	return out
}

// ListOpportunities returns recent opportunities, newest first.
// GET /api/opportunities
func (h *OpportunityHandler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)

	opps, err := h.store.ListRecent(r.Context(), opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list opportunities failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list opportunities")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"opportunities": toOpportunityResponses(opps),
		"limit":         opts.Limit,
		"offset":        opts.Offset,
	})
}

// ListOpportunitiesByPair returns recent opportunities for one buy/sell pair.
// GET /api/opportunities/{buy}/{sell}
func (h *OpportunityHandler) ListOpportunitiesByPair(w http.ResponseWriter, r *http.Request) {
	buy := r.PathValue("buy")
	sell := r.PathValue("sell")
	if buy == sell {
		writeError(w, http.StatusBadRequest, "buy and sell source must differ")
		return
	}
	opts := parseListOpts(r)

	opps, err := h.store.ListByPair(r.Context(), buy, sell, opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list opportunities by pair failed",
			slog.String("buy_source", buy),
			slog.String("sell_source", sell),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list opportunities")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"buy_source":    buy,
		"sell_source":   sell,
		"opportunities": toOpportunityResponses(opps),
		"limit":         opts.Limit,
		"offset":        opts.Offset,
	})
}
