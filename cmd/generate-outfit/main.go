package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stylemate/stylemate/config"
	"github.com/stylemate/stylemate/internal/item"
	"github.com/stylemate/stylemate/internal/outfit"
)

// request is the JSON input file shape: a profile plus the chosen items,
// typically the output of analyze-product.
type request struct {
	Profile item.Profile `json:"profile"`
	Items   []item.Item  `json:"items"`
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	out := flag.String("o", "outfit.png", "output file for locally rendered collages")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-o outfit.png] <request.json>\n", os.Args[0])
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read request file")
	}
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		log.Fatal().Err(err).Msg("failed to parse request file")
	}

	config.LoadEnvFile()
	cfg, err := config.ResolveAIConfig()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load stored AI config, falling back to collage")
	}

	synthesizer := outfit.NewSynthesizer(cfg)
	artifact, err := synthesizer.Synthesize(context.Background(), req.Profile, req.Items)
	if err != nil {
		log.Fatal().Err(err).Msg("outfit synthesis failed")
	}

	// Remote generations are URLs; local collages are inline PNGs.
	const pngPrefix = "data:image/png;base64,"
	if strings.HasPrefix(artifact.ImageDataURI, pngPrefix) {
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(artifact.ImageDataURI, pngPrefix))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to decode collage data")
		}
		if err := os.WriteFile(*out, raw, 0644); err != nil {
			log.Fatal().Err(err).Msg("failed to write collage")
		}
		log.Info().Str("file", *out).Msg("collage written")
		return
	}
	fmt.Println(artifact.ImageDataURI)
}
