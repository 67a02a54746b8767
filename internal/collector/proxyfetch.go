package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"RecurringInvest/internal/model"
)

// ProxyFetcher implements Fetcher against the local forwarding proxy, which
// exposes the chart API as GET /chart?symbol=&period1=&period2=. The body
// shape is identical to the upstream provider's.
type ProxyFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewProxyFetcher creates a fetcher for a running proxy instance.
func NewProxyFetcher(baseURL string, timeout time.Duration) *ProxyFetcher {
	return &ProxyFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (f *ProxyFetcher) Name() string { return "proxy" }

func (f *ProxyFetcher) fetchChart(ctx context.Context, symbol string, period1, period2 int64) ([]model.Tick, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("period1", fmt.Sprintf("%d", period1))
	q.Set("period2", fmt.Sprintf("%d", period2))
	q.Set("interval", "1d")
	endpoint := f.BaseURL + "/chart?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", model.ErrProviderUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: proxy status %d", model.ErrProviderUnavailable, resp.StatusCode)
	}
	return decodeChart(body)
}

func (f *ProxyFetcher) FetchDailyTicks(ctx context.Context, symbol string, from, to time.Time) ([]model.Tick, error) {
	return f.fetchChart(ctx, symbol, from.Unix(), to.AddDate(0, 0, 1).Unix())
}

func (f *ProxyFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	now := time.Now()
	ticks, err := f.fetchChart(ctx, symbol, now.AddDate(0, 0, -7).Unix(), now.Unix())
	if err != nil {
		return 0, err
	}
	for i := len(ticks) - 1; i >= 0; i-- {
		if p, ok := ticks[i].Price(); ok {
			return p, nil
		}
	}
	return 0, model.ErrNoData
}
