package collector

import (
	"context"
	"time"

	"RecurringInvest/internal/model"
)

// Fetcher defines the interface for fetching historical price data.
type Fetcher interface {
	// FetchDailyTicks returns raw daily quotes covering [from, to].
	FetchDailyTicks(ctx context.Context, symbol string, from, to time.Time) ([]model.Tick, error)
	// FetchCurrentPrice returns the latest available price for the symbol.
	FetchCurrentPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}
