package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"RecurringInvest/internal/model"
)

// FallbackFetcher tries an ordered list of fetchers and returns the first
// success. Callers cannot depend on which path served a request. Attempts
// are not retried after a context cancellation.
type FallbackFetcher struct {
	fetchers []Fetcher
}

// NewFallbackFetcher creates a fetcher chain in attempt order.
func NewFallbackFetcher(fetchers ...Fetcher) *FallbackFetcher {
	return &FallbackFetcher{fetchers: fetchers}
}

func (f *FallbackFetcher) Name() string {
	names := make([]string, len(f.fetchers))
	for i, fe := range f.fetchers {
		names[i] = fe.Name()
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

func (f *FallbackFetcher) FetchDailyTicks(ctx context.Context, symbol string, from, to time.Time) ([]model.Tick, error) {
	var lastErr error
	for _, fe := range f.fetchers {
		ticks, err := fe.FetchDailyTicks(ctx, symbol, from, to)
		if err == nil {
			return ticks, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		log.Printf("[WARN] fetch daily ticks via %s: %v", fe.Name(), err)
	}
	return nil, fmt.Errorf("all sources failed: %w", lastErr)
}

func (f *FallbackFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	var lastErr error
	for _, fe := range f.fetchers {
		price, err := fe.FetchCurrentPrice(ctx, symbol)
		if err == nil {
			return price, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		log.Printf("[WARN] fetch current price via %s: %v", fe.Name(), err)
	}
	return 0, fmt.Errorf("all sources failed: %w", lastErr)
}
