package domain

import (
	"context"
	"time"
)

// PriceCache provides fast access to the latest normalized price per source.
type PriceCache interface {
	SetPrice(ctx context.Context, source string, price int64, ts time.Time) error
	GetPrice(ctx context.Context, source string) (int64, time.Time, error)
	GetPrices(ctx context.Context, sources []string) (map[string]int64, error)
}
