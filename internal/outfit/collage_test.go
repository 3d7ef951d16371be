package outfit

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylemate/stylemate/internal/item"
)

func decodeArtifact(t *testing.T, artifact *item.OutfitArtifact) image.Image {
	t.Helper()
	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(artifact.ImageDataURI, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(artifact.ImageDataURI, prefix))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestRenderWithoutAnyItemImages(t *testing.T) {
	r := NewCollageRenderer()
	profile := item.Profile{Gender: "female", BodyType: item.BodyAverage}
	items := []item.Item{
		{Name: "니트", Category: item.CategoryTops},
		{Name: "슬랙스", Category: item.CategoryBottoms},
	}

	artifact, err := r.Render(context.Background(), profile, items, false)
	require.NoError(t, err, "zero item images must still render a complete collage")

	img := decodeArtifact(t, artifact)
	assert.Equal(t, collageWidth, img.Bounds().Dx())
	assert.Equal(t, collageHeight, img.Bounds().Dy())

	// The placeholder figure's head sits at (300,130).
	_, _, _, a := img.At(300, 130).RGBA()
	assert.NotZero(t, a)
}

func TestRenderSkipsBrokenItemImages(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	r := NewCollageRenderer()
	items := []item.Item{
		{Name: "운동화", Category: item.CategoryShoes, ImageURL: ts.URL + "/gone.jpg"},
	}

	artifact, err := r.Render(context.Background(), item.Profile{}, items, true)
	require.NoError(t, err, "a broken item image must be skipped, not abort the render")
	decodeArtifact(t, artifact)
}

func TestRenderDrawsItemThumbnails(t *testing.T) {
	// Serve a solid red PNG as the item image.
	var buf bytes.Buffer
	src := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	require.NoError(t, png.Encode(&buf, src))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	defer ts.Close()

	r := NewCollageRenderer()
	items := []item.Item{
		{Name: "셔츠", Category: item.CategoryTops, ImageURL: ts.URL + "/red.png"},
	}

	artifact, err := r.Render(context.Background(), item.Profile{}, items, true)
	require.NoError(t, err)
	img := decodeArtifact(t, artifact)

	// Center of the tops anchor zone should now be reddish.
	zone := anchorZones[item.CategoryTops]
	c := img.At((zone.Min.X+zone.Max.X)/2, (zone.Min.Y+zone.Max.Y)/2)
	red, green, _, _ := c.RGBA()
	assert.Greater(t, red, green, "tops zone should carry the item image tint")
}

func TestSynthesizeFallsBackToCollage(t *testing.T) {
	s := NewSynthesizer(item.AIConfig{})

	artifact, err := s.Synthesize(context.Background(), item.Profile{Gender: "male", BodyType: item.BodyAthletic}, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(artifact.ImageDataURI, "data:image/png;base64,"))
}

type failingGenerator struct{ calls int }

func (f *failingGenerator) GenerateOutfitImage(ctx context.Context, profile item.Profile, items []item.Item) (string, error) {
	f.calls++
	return "", assert.AnError
}

func TestSynthesizeCollageOnGenerationFailure(t *testing.T) {
	gen := &failingGenerator{}
	s := NewSynthesizerWithDeps(item.AIConfig{APIKey: "k", Enabled: true}, gen, NewCollageRenderer())

	items := []item.Item{{Name: "코트", Category: item.CategoryOuterwear, ImageURL: "https://img.invalid/1.jpg"}}
	artifact, err := s.Synthesize(context.Background(), item.Profile{}, items)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.True(t, strings.HasPrefix(artifact.ImageDataURI, "data:image/png;base64,"))
}

type fixedGenerator struct{ url string }

func (f *fixedGenerator) GenerateOutfitImage(ctx context.Context, profile item.Profile, items []item.Item) (string, error) {
	return f.url, nil
}

func TestSynthesizeUsesGeneratorWhenItemsHaveImages(t *testing.T) {
	gen := &fixedGenerator{url: "https://images.example/generated.png"}
	s := NewSynthesizerWithDeps(item.AIConfig{APIKey: "k", Enabled: true}, gen, NewCollageRenderer())

	items := []item.Item{{Name: "셔츠", Category: item.CategoryTops, ImageURL: "https://img.invalid/1.jpg"}}
	artifact, err := s.Synthesize(context.Background(), item.Profile{}, items)
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/generated.png", artifact.ImageDataURI)
}

func TestSynthesizeSkipsGeneratorWithoutItemImages(t *testing.T) {
	gen := &fixedGenerator{url: "https://images.example/generated.png"}
	s := NewSynthesizerWithDeps(item.AIConfig{APIKey: "k", Enabled: true}, gen, NewCollageRenderer())

	items := []item.Item{{Name: "셔츠", Category: item.CategoryTops}}
	artifact, err := s.Synthesize(context.Background(), item.Profile{}, items)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(artifact.ImageDataURI, "data:image/png;base64,"),
		"no item images routes straight to the collage")
}
