package item

// Category is one of the five fixed clothing categories. Every analysis
// result carries exactly one of these, never free text.
type Category string

const (
	CategoryTops        Category = "tops"
	CategoryBottoms     Category = "bottoms"
	CategoryOuterwear   Category = "outerwear"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
)

// Categories lists all categories in their fixed evaluation order. The
// classifier and the collage renderer both depend on this order.
var Categories = []Category{
	CategoryTops,
	CategoryBottoms,
	CategoryOuterwear,
	CategoryShoes,
	CategoryAccessories,
}

// DefaultColor is the placeholder used whenever no color is known.
const DefaultColor = "화이트"

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTops, CategoryBottoms, CategoryOuterwear, CategoryShoes, CategoryAccessories:
		return true
	}
	return false
}

// KoreanLabel returns the label shown to users.
func (c Category) KoreanLabel() string {
	switch c {
	case CategoryTops:
		return "상의"
	case CategoryBottoms:
		return "하의"
	case CategoryOuterwear:
		return "아우터"
	case CategoryShoes:
		return "신발"
	case CategoryAccessories:
		return "액세서리"
	}
	return string(c)
}

// Emoji returns the category emoji used in item summaries.
func (c Category) Emoji() string {
	switch c {
	case CategoryTops:
		return "👕"
	case CategoryBottoms:
		return "👖"
	case CategoryOuterwear:
		return "🧥"
	case CategoryShoes:
		return "👟"
	case CategoryAccessories:
		return "👜"
	}
	return "🏷️"
}

// ParseCategory coerces free text into a Category, defaulting to tops.
func ParseCategory(s string) Category {
	c := Category(s)
	if c.Valid() {
		return c
	}
	return CategoryTops
}

// Item is the normalized result of analyzing one product URL.
type Item struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Brand       string   `json:"brand"`
	Price       int      `json:"price"` // whole KRW
	ImageURL    string   `json:"imageUrl,omitempty"`
	OriginalURL string   `json:"originalUrl"`
	Colors      []string `json:"colors"`
	Material    string   `json:"material,omitempty"`
	Fit         string   `json:"fit,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Description string   `json:"description"`
}

// Normalize enforces the result invariants in place: category always one of
// the five known values, price never negative, colors never empty.
func (i *Item) Normalize() {
	if !i.Category.Valid() {
		i.Category = ParseCategory(string(i.Category))
	}
	if i.Price < 0 {
		i.Price = 0
	}
	if len(i.Colors) == 0 {
		i.Colors = []string{DefaultColor}
	}
}

// AIConfig holds the AI service configuration. It is passed by value to the
// orchestrator and synthesizer; there is no process-global instance.
type AIConfig struct {
	APIKey  string
	Gemini  bool // use the Gemini analyzer instead of the default one
	Enabled bool
}

// Active reports whether AI-backed analysis may run. A missing key forces
// the heuristic path regardless of Enabled.
func (c AIConfig) Active() bool {
	return c.Enabled && c.APIKey != ""
}
