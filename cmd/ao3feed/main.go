package main

import (
	"flag"
	"net/http"
	"time"

	"ao3feed-backend/lib/configutil"
	"ao3feed-backend/lib/serviceutil"
	"ao3feed-backend/services/feed"
)

type ScraperConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type FeedConfig struct {
	HeartbeatIntervalMs int `json:"heartbeat_interval_ms"`
}

type Config struct {
	Port    int           `json:"port"`
	Scraper ScraperConfig `json:"scraper"`
	Feed    FeedConfig    `json:"feed"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 3336
	}

	scraper, err := InitScraper(ctx, cfg.Scraper)
	if err != nil {
		serviceutil.Fatal("init scraper", err)
	}

	mux := http.NewServeMux()
	feedService := feed.NewService(scraper, feed.Options{
		HeartbeatInterval: time.Duration(cfg.Feed.HeartbeatIntervalMs) * time.Millisecond,
	})
	feedService.Register(mux)

	go serviceutil.StartHttpServer(cfg.Port, mux)
	<-ctx.Done()
}
