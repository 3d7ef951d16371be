package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/stylemate/stylemate/config"
	"github.com/stylemate/stylemate/internal/analyze"
	"github.com/stylemate/stylemate/internal/item"
	"github.com/stylemate/stylemate/internal/tracker"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	save := flag.Bool("save", false, "file each result into the issue tracker")
	heuristicOnly := flag.Bool("heuristic", false, "skip AI analysis even when a key is configured")
	flag.Parse()

	urls := flag.Args()
	if len(urls) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-save] [-heuristic] <product-url> [url...]\n", os.Args[0])
		os.Exit(1)
	}

	config.LoadEnvFile()
	cfg, err := config.ResolveAIConfig()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load stored AI config, continuing without AI")
	}
	if *heuristicOnly {
		cfg.Enabled = false
	}

	ctx := context.Background()
	orchestrator := analyze.New(ctx, cfg)

	// Each analysis is internally sequential; only separate URLs run in
	// parallel.
	results := make([]*item.Item, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, rawURL := range urls {
		g.Go(func() error {
			result, err := orchestrator.AnalyzeProduct(gctx, rawURL)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", rawURL, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}

	if *save {
		store, err := tracker.NewSQLiteStore(config.DBPath())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open tracker store")
		}
		defer store.Close()
		for _, result := range results {
			id, err := store.Create(result)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to file item")
			}
			log.Info().Int64("issue", id).Str("name", result.Name).Msg("item filed")
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		log.Fatal().Err(err).Msg("failed to encode results")
	}
}
