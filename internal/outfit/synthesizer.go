// Package outfit turns a profile and a set of analyzed items into a single
// outfit image, preferring remote AI generation and falling back to a
// locally rendered collage.
package outfit

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/stylemate/stylemate/internal/item"
	"github.com/stylemate/stylemate/internal/llm"
)

// Synthesizer produces the final outfit artifact. The generator may be nil,
// which routes every request to the collage fallback.
type Synthesizer struct {
	cfg       item.AIConfig
	generator llm.ImageGenerator
	collage   *CollageRenderer
}

// NewSynthesizer builds a Synthesizer from an AI config.
func NewSynthesizer(cfg item.AIConfig) *Synthesizer {
	var generator llm.ImageGenerator
	if cfg.Active() {
		generator = llm.NewOpenAIImageGenerator(cfg.APIKey)
	}
	return &Synthesizer{cfg: cfg, generator: generator, collage: NewCollageRenderer()}
}

// NewSynthesizerWithDeps builds a Synthesizer from explicit dependencies.
func NewSynthesizerWithDeps(cfg item.AIConfig, generator llm.ImageGenerator, collage *CollageRenderer) *Synthesizer {
	return &Synthesizer{cfg: cfg, generator: generator, collage: collage}
}

// Synthesize returns the outfit artifact for the profile and items. AI
// generation is attempted only when it is configured and at least one item
// carries an image; any generation failure falls back to the collage. A
// collage failure is the only error the caller sees.
func (s *Synthesizer) Synthesize(ctx context.Context, profile item.Profile, items []item.Item) (*item.OutfitArtifact, error) {
	if s.generator != nil && anyItemHasImage(items) {
		url, err := s.generator.GenerateOutfitImage(ctx, profile, items)
		if err == nil {
			return &item.OutfitArtifact{ImageDataURI: url}, nil
		}
		log.Warn().Err(err).Msg("AI outfit generation failed, rendering collage")
	}
	return s.collage.Render(ctx, profile, items, s.cfg.Active())
}

func anyItemHasImage(items []item.Item) bool {
	for _, it := range items {
		if it.ImageURL != "" {
			return true
		}
	}
	return false
}
