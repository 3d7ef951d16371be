// Package analyze coordinates the extraction pipeline: AI vision analysis
// when configured, layered over heuristic URL and page analysis so that any
// syntactically valid product URL always yields a result.
package analyze

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stylemate/stylemate/internal/extract"
	"github.com/stylemate/stylemate/internal/fetch"
	"github.com/stylemate/stylemate/internal/item"
	"github.com/stylemate/stylemate/internal/llm"
)

// Orchestrator runs the layered analysis fallback. The analyzer may be nil,
// which forces the heuristic path; it is injected rather than read from
// process-wide state so both branches are testable deterministically.
type Orchestrator struct {
	locator  *extract.ImageLocator
	brands   *extract.BrandExtractor
	analyzer llm.Analyzer
}

// New builds an Orchestrator from an AI config.
func New(ctx context.Context, cfg item.AIConfig) *Orchestrator {
	client := fetch.NewClient(fetch.ClientOpts{})
	return &Orchestrator{
		locator:  extract.NewImageLocator(client),
		brands:   extract.NewBrandExtractor(client),
		analyzer: llm.NewAnalyzer(ctx, cfg),
	}
}

// NewWithDeps builds an Orchestrator from explicit dependencies.
func NewWithDeps(locator *extract.ImageLocator, brands *extract.BrandExtractor, analyzer llm.Analyzer) *Orchestrator {
	return &Orchestrator{locator: locator, brands: brands, analyzer: analyzer}
}

// AnalyzeProduct analyzes a product URL. An unparseable or hostless URL is
// the only error; every other failure falls through to the next analysis
// layer, ending at the pure heuristic composer which cannot fail.
func (o *Orchestrator) AnalyzeProduct(ctx context.Context, rawURL string) (*item.Item, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid product URL %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("product URL has no host: %q", rawURL)
	}

	if o.analyzer != nil {
		if imageURL, ok := o.locator.Locate(ctx, rawURL); ok {
			result, err := o.analyzer.AnalyzeProductImage(ctx, imageURL, rawURL)
			if err == nil {
				result.ImageURL = imageURL
				result.OriginalURL = rawURL
				result.Normalize()
				log.Info().Str("url", rawURL).Msg("AI analysis succeeded")
				return result, nil
			}
			log.Warn().Err(err).Str("url", rawURL).Msg("AI analysis failed, falling back to heuristics")
		}
	}

	// Locate is idempotent, so repeating it after the AI branch is safe.
	imageURL, _ := o.locator.Locate(ctx, rawURL)
	result := o.composeHeuristic(ctx, u, rawURL, imageURL)
	return result, nil
}

// composeHeuristic assembles a result purely from URL and domain rules plus
// whatever the brand extractor can scrape. It always succeeds.
func (o *Orchestrator) composeHeuristic(ctx context.Context, u *url.URL, rawURL, imageURL string) *item.Item {
	domain := strings.ToLower(u.Host)
	category, keywords := extract.ClassifyURL(rawURL)
	brand := o.brands.Extract(ctx, rawURL)
	price := extract.EstimatePrice(domain)

	name := brand
	color, hasColor := extract.MatchColor(rawURL)
	if hasColor {
		name += " " + color
	}
	if len(keywords) > 0 {
		name += " " + keywords[0]
	}
	name += " " + category.KoreanLabel()

	result := &item.Item{
		Name:        name,
		Category:    category,
		Brand:       brand,
		Price:       price,
		ImageURL:    imageURL,
		OriginalURL: rawURL,
		Description: fmt.Sprintf("%s에서 가져온 %s 아이템입니다.", domain, category.KoreanLabel()),
	}
	if hasColor {
		result.Colors = []string{color}
	}
	result.Normalize()
	return result
}
