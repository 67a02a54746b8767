// Package proxy implements the forwarding/caching proxy between the
// simulation engine and the Yahoo chart provider. It shields the engine
// (and any browser frontend) from rate limits and bot blocking: requests
// carry a browser User-Agent, 429s are retried with backoff, successful
// responses are cached in SQLite, and CORS is wide open.
package proxy

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/robfig/cron/v3"
)

const (
	maxAttempts = 3
	browserUA   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Proxy forwards chart requests to the upstream provider through the cache.
type Proxy struct {
	upstream string
	client   *http.Client
	cache    *Cache
	cron     *cron.Cron
	// sleep is swappable in tests to skip real backoff waits.
	sleep func(time.Duration)
}

// New creates a Proxy for the given upstream base URL
// (e.g. "https://query1.finance.yahoo.com").
func New(upstream string, timeout time.Duration, cache *Cache) *Proxy {
	return &Proxy{
		upstream: upstream,
		client:   &http.Client{Timeout: timeout},
		cache:    cache,
		cron:     cron.New(cron.WithSeconds()),
		sleep:    time.Sleep,
	}
}

// Handler returns the proxy's HTTP handler.
func (p *Proxy) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Get("/chart", p.handleChart)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// StartPruning registers the cache pruning job on the given cron spec.
func (p *Proxy) StartPruning(spec string) error {
	_, err := p.cron.AddFunc(spec, func() {
		if n := p.cache.Prune(); n > 0 {
			log.Printf("[INFO] pruned %d expired cache entries", n)
		}
	})
	if err != nil {
		return fmt.Errorf("register prune job: %w", err)
	}
	p.cron.Start()
	return nil
}

// StopPruning stops the cron scheduler.
func (p *Proxy) StopPruning() {
	p.cron.Stop()
}

func (p *Proxy) handleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := q.Get("symbol")
	period1 := q.Get("period1")
	period2 := q.Get("period2")
	if symbol == "" || period1 == "" || period2 == "" {
		http.Error(w, "Missing required params", http.StatusBadRequest)
		return
	}
	interval := q.Get("interval")
	if interval == "" {
		interval = "1d"
	}
	includePrePost := q.Get("includePrePost")
	if includePrePost == "" {
		includePrePost = "false"
	}
	events := q.Get("events")
	if events == "" {
		events = "div,splits"
	}

	target := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%s&period2=%s&interval=%s&includePrePost=%s&events=%s",
		p.upstream, url.PathEscape(symbol), url.QueryEscape(period1), url.QueryEscape(period2),
		url.QueryEscape(interval), url.QueryEscape(includePrePost), url.QueryEscape(events))

	if cached, ok := p.cache.Get(target); ok {
		w.Header().Set("Content-Type", cached.ContentType)
		w.Header().Set("X-Cache", "HIT")
		w.Write(cached.Body)
		return
	}

	body, contentType, status, err := p.fetchUpstream(r, target)
	if err != nil {
		log.Printf("[ERROR] upstream fetch: %v", err)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}

	if status == http.StatusOK {
		p.cache.Put(target, body, contentType)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(status)
	w.Write(body)
}

// fetchUpstream performs the upstream GET with retry/backoff on rate limits
// and transient transport errors.
func (p *Proxy) fetchUpstream(r *http.Request, target string) (body []byte, contentType string, status int, err error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, reqErr := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
		if reqErr != nil {
			return nil, "", 0, reqErr
		}
		req.Header.Set("User-Agent", browserUA)
		req.Header.Set("Accept", "application/json, text/plain, */*")

		resp, doErr := p.client.Do(req)
		if doErr != nil {
			lastErr = doErr
			p.sleep(time.Duration(attempt) * 800 * time.Millisecond)
			continue
		}
		b, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxAttempts {
			p.sleep(time.Duration(attempt) * 1500 * time.Millisecond)
			continue
		}
		ct := resp.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/json"
		}
		return b, ct, resp.StatusCode, nil
	}
	return nil, "", 0, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
