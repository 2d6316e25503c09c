package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mohamedkhairy/chart-engine/internal/calendar"
	"github.com/mohamedkhairy/chart-engine/internal/chartcache"
	"github.com/mohamedkhairy/chart-engine/internal/config"
	"github.com/mohamedkhairy/chart-engine/internal/data"
	"github.com/mohamedkhairy/chart-engine/internal/session"
	"github.com/mohamedkhairy/chart-engine/internal/timezone"
	"github.com/mohamedkhairy/chart-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cal, err := calendar.New()
	if err != nil {
		logger.Fatal("Failed to load holiday calendar", logger.ErrorField(err))
	}

	tz := timezone.NewResolver()
	resolver := session.NewResolver(cal, tz, cfg.Exchange)
	zone := resolver.Zone()

	provider, err := data.NewProvider(cfg.MarketData.Provider, data.ProviderConfig{
		APIKey:    cfg.MarketData.APIKey,
		APISecret: cfg.MarketData.APISecret,
		BaseURL:   cfg.MarketData.BaseURL,
		Feed:      cfg.MarketData.Feed,
	})
	if err != nil {
		logger.Fatal("Failed to create market data provider", logger.ErrorField(err))
	}

	cache := chartcache.New(
		provider,
		session.NewRangeBuilder(resolver, cal),
		data.NewNormalizer(tz, zone),
		chartcache.WithTTL(cfg.Cache.TTL),
	)
	chartcache.SetDefault(cache)

	now := time.Now()
	res := resolver.Resolve(now)
	fmt.Printf("exchange:     %s (%s, %s)\n", cfg.Exchange, zone, tz.AbbreviationAt(zone, now))
	fmt.Printf("session:      %s\n", res.State)
	fmt.Printf("trading day:  %s\n", calendar.DateKey(res.TradingDay))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, symbol := range os.Args[1:] {
		pct, ok := cache.ChangePercent(ctx, symbol)
		if !ok {
			fmt.Printf("%-8s unavailable\n", symbol)
			continue
		}
		fmt.Printf("%-8s %+.2f%%\n", symbol, pct)
	}
}
