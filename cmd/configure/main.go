package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stylemate/stylemate/config"
	"github.com/stylemate/stylemate/internal/item"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	key := flag.String("key", "", "AI service API key to store")
	gemini := flag.Bool("gemini", false, "the key is a Gemini key")
	disable := flag.Bool("disable", false, "disable AI analysis without removing the key")
	flag.Parse()

	if *key == "" && !*disable {
		fmt.Fprintf(os.Stderr, "Usage: %s -key <api-key> [-gemini] | -disable\n", os.Args[0])
		os.Exit(1)
	}

	config.LoadEnvFile()
	store, err := config.OpenSettingsStore()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open settings store")
	}
	if store == nil {
		log.Fatal().Msg("STYLEMATE_SECRET_KEY must be set to encrypt stored settings")
	}
	defer store.Close()

	cfg := item.AIConfig{APIKey: *key, Gemini: *gemini, Enabled: !*disable && *key != ""}
	if *disable {
		if existing, err := store.LoadAIConfig(); err == nil && existing.APIKey != "" {
			cfg = existing
			cfg.Enabled = false
		}
	}

	if err := store.SaveAIConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to save AI config")
	}
	log.Info().Bool("gemini", cfg.Gemini).Bool("enabled", cfg.Enabled).Msg("AI config saved")
}
