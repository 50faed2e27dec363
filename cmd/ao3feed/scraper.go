package main

import (
	"context"
	"log/slog"
	"time"

	"ao3feed-backend/lib/scrapers/ao3"
)

// InitScraper builds the shared AO3 client. Login, when credentials are
// configured, happens exactly once here; the client is read-only for the
// rest of the process lifetime. A half-configured credential pair is a
// startup failure, the process must not begin serving with it.
func InitScraper(ctx context.Context, cfg ScraperConfig) (*ao3.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	if (cfg.Username == "") != (cfg.Password == "") {
		return nil, ao3.ErrPartialCredentials
	}

	client, err := ao3.NewClient(ctx, ao3.ClientOptions{
		BaseUrl: cfg.BaseUrl,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Username != "" {
		err = client.LoginUsernamePassword(ctx, cfg.Username, cfg.Password)
		if err != nil {
			return nil, err
		}
		slog.Info("logged in", "username", cfg.Username)
	}

	return client, nil
}
