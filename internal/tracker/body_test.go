package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylemate/stylemate/internal/item"
)

func sampleItem() *item.Item {
	return &item.Item{
		Name:        "커버낫 오버핏 후드티",
		Category:    item.CategoryTops,
		Brand:       "Covernat",
		Price:       59000,
		ImageURL:    "https://cdn.shop.com/hoodie.jpg",
		OriginalURL: "https://shop.com/goods/1",
		Colors:      []string{"블랙", "그레이"},
		Sizes:       []string{"M", "L"},
		Material:    "면 100%",
		Fit:         "오버핏",
		Description: "기모 안감의 데일리 후드티.\n두 번째 줄.",
	}
}

func TestBodyRoundTrip(t *testing.T) {
	original := sampleItem()
	body := FormatBody(original)

	parsed, ok := ParseBody(body)
	require.True(t, ok)

	assert.Equal(t, original.Name, parsed.Name)
	assert.Equal(t, original.Brand, parsed.Brand)
	assert.Equal(t, original.Category, parsed.Category)
	assert.Equal(t, original.Price, parsed.Price)
	assert.Equal(t, original.Colors, parsed.Colors)
	assert.Equal(t, original.Sizes, parsed.Sizes)
	assert.Equal(t, original.Material, parsed.Material)
	assert.Equal(t, original.Fit, parsed.Fit)
	assert.Equal(t, original.OriginalURL, parsed.OriginalURL)
	assert.Equal(t, original.Description, parsed.Description)
	// The body format does not persist the image URL.
	assert.Empty(t, parsed.ImageURL)
}

func TestParseBodyMissingRequiredFields(t *testing.T) {
	_, ok := ParseBody("## 아이템 정보\n- 브랜드: Nike\n")
	assert.False(t, ok, "a body without name and category is not an item")

	_, ok = ParseBody("free-form text that is not a tracker body")
	assert.False(t, ok)
}

func TestParseBodyKeepsURLColons(t *testing.T) {
	body := FormatBody(sampleItem())
	parsed, ok := ParseBody(body)
	require.True(t, ok)
	assert.Equal(t, "https://shop.com/goods/1", parsed.OriginalURL)
}

func TestLabels(t *testing.T) {
	labels := Labels(sampleItem(), "winter")
	assert.Contains(t, labels, "category:tops")
	assert.Contains(t, labels, "brand:Covernat")
	assert.Contains(t, labels, "color:블랙")
	assert.Contains(t, labels, "tag:winter")
}
