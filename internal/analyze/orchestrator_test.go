package analyze

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylemate/stylemate/internal/extract"
	"github.com/stylemate/stylemate/internal/fetch"
	"github.com/stylemate/stylemate/internal/item"
)

// stubAnalyzer returns a fixed result or error and records its calls.
type stubAnalyzer struct {
	result *item.Item
	err    error
	calls  int
}

func (s *stubAnalyzer) AnalyzeProductImage(ctx context.Context, imageURL, originalURL string) (*item.Item, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	result := *s.result
	return &result, nil
}

// newTestOrchestrator wires an orchestrator against a local page server so
// no test touches the network.
func newTestOrchestrator(t *testing.T, analyzer *stubAnalyzer, page string) (*Orchestrator, string) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	t.Cleanup(ts.Close)

	client := fetch.NewClient(fetch.ClientOpts{Proxies: []string{ts.URL + "/?%s"}})
	o := &Orchestrator{
		locator: extract.NewImageLocator(client),
		brands:  extract.NewBrandExtractor(client),
	}
	if analyzer != nil {
		o.analyzer = analyzer
	}
	return o, ts.URL
}

func TestAnalyzeProductInvalidURL(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil, "<html></html>")

	_, err := o.AnalyzeProduct(context.Background(), "://broken")
	assert.Error(t, err)

	_, err = o.AnalyzeProduct(context.Background(), "/relative/only")
	assert.Error(t, err, "a URL without a host must be rejected")
}

func TestAnalyzeProductAIPath(t *testing.T) {
	analyzed := &item.Item{
		Name:     "나이키 윈드러너",
		Category: item.CategoryOuterwear,
		Brand:    "Nike",
		Price:    129000,
		Colors:   []string{"블랙"},
	}
	stub := &stubAnalyzer{result: analyzed}
	o, base := newTestOrchestrator(t, stub, "<html></html>")

	productURL := base + "/black-jacket/main-photo.jpg"
	got, err := o.AnalyzeProduct(context.Background(), productURL)
	require.NoError(t, err)

	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "나이키 윈드러너", got.Name)
	assert.Equal(t, productURL, got.OriginalURL)
	assert.Equal(t, productURL, got.ImageURL, "the located image must be stamped onto the AI result")
}

func TestAnalyzeProductFallsBackWhenAIFails(t *testing.T) {
	stub := &stubAnalyzer{err: fmt.Errorf("model unavailable")}
	o, base := newTestOrchestrator(t, stub, "<html><head><title>Shop</title></head></html>")

	got, err := o.AnalyzeProduct(context.Background(), base+"/black-jacket-coat-photo.png")
	require.NoError(t, err, "AI failure must degrade to heuristics, not surface")

	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, item.CategoryOuterwear, got.Category)
	assert.True(t, got.Category.Valid())
	assert.GreaterOrEqual(t, got.Price, 0)
	assert.NotEmpty(t, got.Colors)
}

func TestAnalyzeProductHeuristicComposer(t *testing.T) {
	o, base := newTestOrchestrator(t, nil, "<html><head><title>Shop</title></head></html>")

	got, err := o.AnalyzeProduct(context.Background(), base+"/goods/black-denim-pants")
	require.NoError(t, err)

	assert.Equal(t, item.CategoryBottoms, got.Category)
	assert.Equal(t, []string{"블랙"}, got.Colors)
	assert.Contains(t, got.Name, "블랙")
	assert.Contains(t, got.Name, "하의")
	assert.GreaterOrEqual(t, got.Price, 0)
	assert.NotEmpty(t, got.Description)
}

func TestAnalyzeProductNeverFailsForValidURLs(t *testing.T) {
	// Page fetches return garbage and there is no analyzer; every valid
	// URL must still produce a normalized result.
	o, _ := newTestOrchestrator(t, nil, "%%% not html %%%")

	urls := []string{
		"https://totally-unknown.invalid/x",
		"https://shop.invalid/구매목록",
		"https://a.invalid/?q=1",
	}
	for _, u := range urls {
		got, err := o.AnalyzeProduct(context.Background(), u)
		require.NoError(t, err, u)
		assert.True(t, got.Category.Valid(), u)
		assert.GreaterOrEqual(t, got.Price, 0, u)
		assert.NotEmpty(t, got.Colors, u)
		assert.Equal(t, u, got.OriginalURL)
	}
}
