package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"RecurringInvest/internal/model"
	"RecurringInvest/internal/schedule"
)

// browserUA avoids trivial bot blocking on the public chart API.
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// YahooFetcher implements Fetcher against the Yahoo Finance v8 chart API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a fetcher for the given API base URL
// (e.g. "https://query1.finance.yahoo.com").
func NewYahooFetcher(baseURL string, timeout time.Duration) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
// Every level is validated defensively: the provider omits fields and
// returns null entries for non-trading sessions.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []interface{} `json:"open"`
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// decodeChart parses a chart API response body into ticks, dated in the
// exchange timezone and sorted chronologically.
func decodeChart(body []byte) ([]model.Tick, error) {
	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: decode chart: %v", model.ErrProviderUnavailable, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: provider error: %s", model.ErrNoData, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, model.ErrNoData
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, model.ErrNoData
	}
	quote := result.Indicators.Quote[0]

	ticks := make([]model.Tick, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		var open, close float64
		if i < len(quote.Open) {
			open = toFloat(quote.Open[i])
		}
		if i < len(quote.Close) {
			close = toFloat(quote.Close[i])
		}
		ticks = append(ticks, model.Tick{
			Date:  time.Unix(ts, 0).In(schedule.Location()),
			Open:  open,
			Close: close,
		})
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Date.Before(ticks[j].Date) })
	return ticks, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, period1, period2 int64) ([]model.Tick, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&includePrePost=false&events=div%%2Csplits",
		f.BaseURL, url.PathEscape(symbol), period1, period2)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "application/json, text/plain, */*")

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
		return nil, fmt.Errorf("%w: status %d", model.ErrProviderUnavailable, resp.StatusCode)
	}
	return decodeChart(body)
}

func (f *YahooFetcher) FetchDailyTicks(ctx context.Context, symbol string, from, to time.Time) ([]model.Tick, error) {
	// period2 is exclusive on the provider side; push it past the last day.
	return f.fetchChart(ctx, symbol, from.Unix(), to.AddDate(0, 0, 1).Unix())
}

func (f *YahooFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
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
