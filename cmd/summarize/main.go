package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spinecare/fracture-dashboard/internal/adapters/feed"
	"github.com/spinecare/fracture-dashboard/internal/analytics"
	"github.com/spinecare/fracture-dashboard/internal/application/services"
	"github.com/spinecare/fracture-dashboard/internal/infrastructure/observability"
	"github.com/spinecare/fracture-dashboard/pkg/config"
)

func main() {
	year := flag.String("year", "All", "submission year to summarize, or All")
	query := flag.String("q", "", "text filter applied to the record table")
	rowsOnly := flag.Bool("rows", false, "print only the table rows")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	// stdout carries the JSON output
	observability.InitLoggerTo(os.Stderr, cfg.App.Name+"-summarize", cfg.App.Env)

	keywords := analytics.DefaultKeywords()
	if cfg.Keywords.File != "" {
		keywords, err = analytics.LoadKeywords(cfg.Keywords.File)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load keywords")
		}
	}

	source, err := feed.NewConfiguredSource(&cfg.Feed, observability.Component("feed"), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure record feed")
	}
	svc := services.NewDashboardService(source, keywords, nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Feed.Timeout+5*time.Second)
	defer cancel()

	q := services.DashboardQuery{Year: *year, Search: *query}

	var out interface{}
	if *rowsOnly {
		out, err = svc.Rows(ctx, q)
	} else {
		out, err = svc.Build(ctx, q)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build summary")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("Failed to write summary")
	}
}
