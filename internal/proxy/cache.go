package proxy

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Cache persists upstream chart responses in a SQLite database so repeated
// simulations over the same range do not re-hit the provider.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.Mutex
}

type cachedResponse struct {
	Body        []byte
	ContentType string
}

// NewCache opens (or creates) the cache database and runs migrations.
func NewCache(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode: the proxy serves reads while the pruner deletes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &Cache{db: db, ttl: ttl}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] chart cache opened: %s (ttl %s)", dbPath, ttl)
	return c, nil
}

func (c *Cache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chart_cache (
			key          TEXT PRIMARY KEY,
			body         BLOB NOT NULL,
			content_type TEXT NOT NULL,
			fetched_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_fetched ON chart_cache(fetched_at)`,
	}
	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

// Get returns the cached response for key if it exists and is fresh.
func (c *Cache) Get(key string) (*cachedResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		resp      cachedResponse
		fetchedAt int64
	)
	err := c.db.QueryRow(
		`SELECT body, content_type, fetched_at FROM chart_cache WHERE key = ?`, key,
	).Scan(&resp.Body, &resp.ContentType, &fetchedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("[WARN] cache read: %v", err)
		}
		return nil, false
	}
	if time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		return nil, false
	}
	return &resp, true
}

// Put stores a successful upstream response.
func (c *Cache) Put(key string, body []byte, contentType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		`INSERT INTO chart_cache (key, body, content_type, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   body = excluded.body,
		   content_type = excluded.content_type,
		   fetched_at = excluded.fetched_at`,
		key, body, contentType, time.Now().Unix(),
	)
	if err != nil {
		log.Printf("[WARN] cache write (ignored): %v", err)
	}
}

// Prune deletes entries older than the TTL. Returns the rows removed.
func (c *Cache) Prune() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.ttl).Unix()
	res, err := c.db.Exec(`DELETE FROM chart_cache WHERE fetched_at < ?`, cutoff)
	if err != nil {
		log.Printf("[ERROR] cache prune: %v", err)
		return 0
	}
	n, _ := res.RowsAffected()
	return n
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	log.Println("[INFO] closing chart cache")
	return c.db.Close()
}
