package commands

import (
	"context"
	"os"
	"strconv"
	"time"

	"ao3feed-backend/lib/configutil"
	"ao3feed-backend/lib/scrapers/ao3"
	"ao3feed-backend/lib/serviceutil"
	"ao3feed-backend/services/feed"

	"github.com/spf13/cobra"
)

type Config struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

var fetchBaseUrl *string

func init() {
	fetchBaseUrl = fetchCmd.Flags().String("base-url", "", "Origin to scrape instead of archiveofourown.org.")
	rootCmd.AddCommand(fetchCmd)
}

func createClient(ctx context.Context, cfg Config) *ao3.Client {
	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	client, err := ao3.NewClient(ctx, ao3.ClientOptions{
		BaseUrl: cfg.BaseUrl,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize ao3 client", err)
	}

	if (cfg.Username == "") != (cfg.Password == "") {
		serviceutil.Fatal("bad credentials", ao3.ErrPartialCredentials)
	}
	if cfg.Username != "" {
		err = client.LoginUsernamePassword(ctx, cfg.Username, cfg.Password)
		if err != nil {
			serviceutil.Fatal("failed to login", err)
		}
	}

	return client
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <work-id>",
	Short: "Scrapes a single work and writes its RSS feed to stdout.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		workId, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			serviceutil.Fatal("work id must be an unsigned integer", err)
		}

		// config is optional here, the flags and defaults cover the
		// unauthenticated case
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("failed to read config", err)
		}
		if *fetchBaseUrl != "" {
			cfg.BaseUrl = *fetchBaseUrl
		}

		ctx := cmd.Context()
		client := createClient(ctx, cfg)

		work, err := client.FetchWork(ctx, workId)
		if err != nil {
			serviceutil.Fatal("failed to scrape work", err)
		}
		rss, err := feed.SynthesizeRSS(work, client.BaseUrl)
		if err != nil {
			serviceutil.Fatal("failed to synthesize feed", err)
		}

		os.Stdout.Write(rss)
	},
}
