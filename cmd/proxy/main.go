package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"RecurringInvest/internal/config"
	"RecurringInvest/internal/proxy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] chart proxy starting...")

	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	if dir := filepath.Dir(cfg.Proxy.CachePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("[FATAL] create cache dir: %v", err)
		}
	}
	cache, err := proxy.NewCache(cfg.Proxy.CachePath, cfg.CacheTTL())
	if err != nil {
		log.Fatalf("[FATAL] open cache: %v", err)
	}
	defer cache.Close()

	p := proxy.New(cfg.Proxy.UpstreamURL, cfg.ProviderTimeout(), cache)
	if err := p.StartPruning(cfg.Proxy.PruneCron); err != nil {
		log.Fatalf("[FATAL] start pruning: %v", err)
	}
	defer p.StopPruning()

	srv := &http.Server{
		Addr:         cfg.Proxy.ListenAddr,
		Handler:      p.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	go func() {
		log.Printf("[INFO] chart proxy listening on %s", cfg.Proxy.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] proxy server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
	log.Println("[INFO] chart proxy stopped")
}
