package collector

import (
	"context"
	"fmt"
	"time"

	"RecurringInvest/internal/model"
)

// Range padding around the nominal request: one leading day absorbs
// timezone skew between the request's epoch bounds and exchange-local
// session dates; the trailing days give the trading-day resolver's
// forward search data to find near the end boundary.
const (
	leadPadDays  = 1
	trailPadDays = 7
)

// Collector fetches raw ticks and builds the immutable PriceSeries a
// simulation run operates on.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// CollectSeries fetches the padded date range for symbol and normalizes it
// into a PriceSeries. An empty series is ErrNoData.
func (c *Collector) CollectSeries(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	from := start.AddDate(0, 0, -leadPadDays)
	to := end.AddDate(0, 0, trailPadDays)

	ticks, err := c.Fetcher.FetchDailyTicks(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch series for %s: %w", symbol, err)
	}
	series := model.NewPriceSeries(ticks)
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrNoData, symbol)
	}
	return series, nil
}

// CurrentPrice fetches the latest valuation price for symbol.
func (c *Collector) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	price, err := c.Fetcher.FetchCurrentPrice(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("fetch current price for %s: %w", symbol, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: non-positive current price for %s", model.ErrNoData, symbol)
	}
	return price, nil
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Ticks    []model.Tick
	Price    float64
	TickErr  error
	PriceErr error
	Calls    int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyTicks(_ context.Context, _ string, _, _ time.Time) ([]model.Tick, error) {
	m.Calls++
	if m.TickErr != nil {
		return nil, m.TickErr
	}
	return m.Ticks, nil
}

func (m *MockFetcher) FetchCurrentPrice(_ context.Context, _ string) (float64, error) {
	m.Calls++
	if m.PriceErr != nil {
		return 0, m.PriceErr
	}
	return m.Price, nil
}
