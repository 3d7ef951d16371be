package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	"github.com/stylemate/stylemate/internal/item"
)

// ImageGenerator requests a generated outfit image from an image-generation
// endpoint and returns its URL.
type ImageGenerator interface {
	GenerateOutfitImage(ctx context.Context, profile item.Profile, items []item.Item) (string, error)
}

// OpenAIImageGenerator generates outfit images through the images endpoint.
type OpenAIImageGenerator struct {
	client openai.Client
}

func NewOpenAIImageGenerator(apiKey string, opts ...option.RequestOption) *OpenAIImageGenerator {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIImageGenerator{client: openai.NewClient(opts...)}
}

// GenerateOutfitImage requests a single high-resolution portrait image of
// the profile wearing the given items and returns the generated image URL.
func (g *OpenAIImageGenerator) GenerateOutfitImage(ctx context.Context, profile item.Profile, items []item.Item) (string, error) {
	prompt := BuildOutfitPrompt(profile, items)
	log.Debug().Str("prompt", prompt).Msg("requesting outfit image generation")

	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:   openai.ImageModelDallE3,
		Prompt:  prompt,
		N:       openai.Int(1),
		Size:    openai.ImageGenerateParamsSize1024x1792,
		Quality: openai.ImageGenerateParamsQualityHD,
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("no image in generation response")
	}
	return resp.Data[0].URL, nil
}

// BuildOutfitPrompt composes the natural-language generation prompt from the
// profile and chosen items.
func BuildOutfitPrompt(profile item.Profile, items []item.Item) string {
	pieces := make([]string, 0, len(items))
	for _, it := range items {
		pieces = append(pieces, fmt.Sprintf("%s (%s)", it.Name, it.Category.KoreanLabel()))
	}
	return fmt.Sprintf(
		"A full-body fashion photo of a %s with a %s, wearing: %s. Clean studio background, natural pose, photorealistic.",
		profile.GenderNoun(), profile.BodyType.Phrase(), strings.Join(pieces, ", "),
	)
}
