package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination and time filtering for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
}

// QuoteStore persists per-cycle quote history.
type QuoteStore interface {
	InsertBatch(ctx context.Context, quotes []Quote) error
	ListRecent(ctx context.Context, opts ListOpts) ([]Quote, error)
	ListBySource(ctx context.Context, source string, opts ListOpts) ([]Quote, error)
	Count(ctx context.Context) (int64, error)
}

// OpportunityStore persists detected arbitrage opportunities.
type OpportunityStore interface {
	InsertBatch(ctx context.Context, opps []Opportunity) error
	ListRecent(ctx context.Context, opts ListOpts) ([]Opportunity, error)
	ListByPair(ctx context.Context, buySource, sellSource string, opts ListOpts) ([]Opportunity, error)
}
