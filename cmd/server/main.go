package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"RecurringInvest/internal/collector"
	"RecurringInvest/internal/config"
	"RecurringInvest/internal/server"
	"RecurringInvest/internal/simulator"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] api server starting...")

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

	// Provider: try the local caching proxy first when configured, fall
	// back to the provider directly.
	var fetcher collector.Fetcher
	direct := collector.NewYahooFetcher(cfg.Provider.BaseURL, cfg.ProviderTimeout())
	if cfg.Provider.ProxyURL != "" {
		local := collector.NewProxyFetcher(cfg.Provider.ProxyURL, cfg.ProviderTimeout())
		fetcher = collector.NewFallbackFetcher(local, direct)
	} else {
		fetcher = direct
	}
	log.Printf("[INFO] price source: %s", fetcher.Name())

	runner := simulator.NewRunner(collector.NewCollector(fetcher))
	srv := server.New(cfg.Server.ListenAddr, runner)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("[FATAL] server: %v", err)
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
	log.Println("[INFO] api server stopped")
}
