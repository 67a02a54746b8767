package proxy

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.db"), ttl)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func newTestProxy(t *testing.T, upstream string) *Proxy {
	p := New(upstream, 5*time.Second, newTestCache(t, time.Hour))
	p.sleep = func(time.Duration) {}
	return p
}

func TestProxy_MissingParams(t *testing.T) {
	p := newTestProxy(t, "http://unused")
	handler := p.Handler()

	for _, target := range []string{
		"/chart",
		"/chart?symbol=SPY",
		"/chart?symbol=SPY&period1=1",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestProxy_ForwardsAndCaches(t *testing.T) {
	var hits int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a browser User-Agent on upstream requests")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"chart":{"result":[]}}`)
	}))
	defer upstream.Close()

	p := newTestProxy(t, upstream.URL)
	handler := p.Handler()
	target := "/chart?symbol=SPY&period1=100&period2=200"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("first request should miss, got %q", rec.Header().Get("X-Cache"))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second request should hit the cache, got %q", rec.Header().Get("X-Cache"))
	}
	if n := atomic.LoadInt64(&hits); n != 1 {
		t.Errorf("expected exactly 1 upstream hit, got %d", n)
	}
}

func TestProxy_RetriesRateLimit(t *testing.T) {
	var hits int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt64(&hits, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"chart":{"result":[]}}`)
	}))
	defer upstream.Close()

	p := newTestProxy(t, upstream.URL)
	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart?symbol=SPY&period1=1&period2=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after retries, got %d", rec.Code)
	}
	if n := atomic.LoadInt64(&hits); n != 3 {
		t.Errorf("expected 3 upstream attempts, got %d", n)
	}
}

func TestProxy_ErrorResponsesNotCached(t *testing.T) {
	var hits int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	p := newTestProxy(t, upstream.URL)
	handler := p.Handler()
	target := "/chart?symbol=NOPE&period1=1&period2=2"

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected upstream 404 passed through, got %d", rec.Code)
		}
	}
	if n := atomic.LoadInt64(&hits); n != 2 {
		t.Errorf("error responses must not be cached, expected 2 upstream hits, got %d", n)
	}
}

func TestCache_ExpiredEntriesPruned(t *testing.T) {
	// Negative TTL makes every entry immediately stale.
	cache := newTestCache(t, -time.Hour)
	cache.Put("key", []byte("body"), "application/json")

	if _, ok := cache.Get("key"); ok {
		t.Error("stale entry must not be served")
	}
	if n := cache.Prune(); n != 1 {
		t.Errorf("expected 1 pruned row, got %d", n)
	}
}

func TestCache_PutOverwrites(t *testing.T) {
	cache := newTestCache(t, time.Hour)
	cache.Put("key", []byte("old"), "application/json")
	cache.Put("key", []byte("new"), "application/json")

	got, ok := cache.Get("key")
	if !ok || string(got.Body) != "new" {
		t.Fatalf("expected overwritten body, got (%v, %v)", got, ok)
	}
}
