package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/stylemate/stylemate/internal/item"
)

const geminiModel = "gemini-3-flash-preview"

// GeminiAnalyzer is the alternate vision analyzer. Gemini takes image bytes
// inline rather than by URL, so the image is downloaded first.
type GeminiAnalyzer struct {
	client     *genai.Client
	downloader *ImageDownloader
}

// NewGeminiAnalyzer creates a Gemini-based analyzer with the given API key.
func NewGeminiAnalyzer(ctx context.Context, apiKey string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiAnalyzer{client: client, downloader: NewImageDownloader()}, nil
}

// AnalyzeProductImage implements Analyzer using Gemini. The retry path uses
// the shorter English prompt, mirroring the reduced-fidelity retry of the
// primary analyzer.
func (g *GeminiAnalyzer) AnalyzeProductImage(ctx context.Context, imageURL, originalURL string) (*item.Item, error) {
	data, mimeType, err := g.downloader.DownloadFromURL(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image for analysis: %w", err)
	}

	prompt := fmt.Sprintf(visionPrompt, originalURL)
	result, err := g.request(ctx, prompt, data, mimeType)
	if err == nil {
		return result, nil
	}
	log.Info().Err(err).Msg("primary gemini attempt failed, retrying with short prompt")

	result, err = g.request(ctx, visionRetryPrompt, data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("vision analysis failed after retry: %w", err)
	}
	return result, nil
}

func (g *GeminiAnalyzer) request(ctx context.Context, prompt string, data []byte, mimeType string) (*item.Item, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, geminiModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	text := result.Text()
	if isRefusal(text) {
		return nil, fmt.Errorf("model refused to analyze image: %s", truncate(text, 80))
	}
	return parseItemResponse(text)
}

// NewAnalyzer returns the analyzer selected by cfg, or nil when AI analysis
// is not active (missing key forces the heuristic path regardless of
// Enabled).
func NewAnalyzer(ctx context.Context, cfg item.AIConfig) Analyzer {
	if !cfg.Active() {
		return nil
	}
	if cfg.Gemini {
		analyzer, err := NewGeminiAnalyzer(ctx, cfg.APIKey)
		if err != nil {
			log.Warn().Err(err).Msg("failed to create gemini analyzer, AI analysis disabled")
			return nil
		}
		return analyzer
	}
	return NewOpenAIAnalyzer(cfg.APIKey)
}
