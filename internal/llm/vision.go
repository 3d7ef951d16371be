// Package llm holds the AI-backed analyzers: multimodal vision analysis of
// product images and outfit image generation. Everything here degrades
// gracefully; the orchestrator falls back to heuristics when a call fails.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/stylemate/stylemate/internal/item"
)

// Analyzer produces a structured item description from a product image.
type Analyzer interface {
	// AnalyzeProductImage analyzes the image at imageURL in the context of
	// the product page at originalURL.
	AnalyzeProductImage(ctx context.Context, imageURL, originalURL string) (*item.Item, error)
}

// refusalMarkers are phrases that indicate the model declined to analyze the
// image rather than returning data.
var refusalMarkers = []string{
	"sorry",
	"cannot",
	"can't",
	"죄송",
	"할 수 없",
	"불가능",
}

// isRefusal reports whether the response text looks like a refusal rather
// than an answer.
func isRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range refusalMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// rawItem is the loosely typed shape the model is asked to return. Price and
// colors arrive in whatever type the model chose; decoding is lenient.
type rawItem struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Price       json.RawMessage `json:"price"`
	Colors      []string        `json:"colors"`
	Material    string          `json:"material"`
	Fit         string          `json:"fit"`
	Description string          `json:"description"`
}

// parseItemResponse locates the first {...} block in the response text and
// decodes it with defaults for missing or mistyped fields. A missing JSON
// object is the only error; a malformed field never is.
func parseItemResponse(text string) (*item.Item, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response: %s", truncate(text, 120))
	}

	var raw rawItem
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	result := &item.Item{
		Name:        raw.Name,
		Category:    item.ParseCategory(strings.ToLower(strings.TrimSpace(raw.Category))),
		Brand:       raw.Brand,
		Price:       coercePrice(raw.Price),
		Colors:      raw.Colors,
		Material:    raw.Material,
		Fit:         raw.Fit,
		Description: raw.Description,
	}
	result.Normalize()
	return result, nil
}

// coercePrice accepts a JSON number, a numeric string (possibly with
// thousands separators or a currency suffix) or nothing at all.
func coercePrice(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 {
			return 0
		}
		return int(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, s)
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
