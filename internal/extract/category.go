package extract

import (
	"strings"

	"github.com/stylemate/stylemate/internal/item"
)

// categoryKeywords are the fixed per-category keyword sets. Iteration
// follows item.Categories order; on a tie the earlier category keeps the
// win.
var categoryKeywords = map[item.Category][]string{
	item.CategoryTops: {
		"shirt", "tshirt", "t-shirt", "tee", "blouse", "knit", "sweater",
		"hoodie", "sweatshirt", "top", "폴로", "티셔츠", "셔츠", "니트", "맨투맨", "후드",
	},
	item.CategoryBottoms: {
		"pants", "jeans", "denim", "slacks", "trousers", "shorts", "skirt",
		"leggings", "바지", "청바지", "데님", "슬랙스", "스커트", "치마", "반바지",
	},
	item.CategoryOuterwear: {
		"jacket", "coat", "parka", "padding", "puffer", "blazer", "cardigan",
		"jumper", "windbreaker", "자켓", "재킷", "코트", "패딩", "점퍼", "가디건",
	},
	item.CategoryShoes: {
		"shoes", "sneakers", "boots", "loafer", "sandal", "heel", "slipper",
		"runner", "신발", "운동화", "스니커즈", "부츠", "로퍼", "샌들", "구두",
	},
	item.CategoryAccessories: {
		"bag", "backpack", "cap", "hat", "beanie", "belt", "watch", "ring",
		"necklace", "scarf", "muffler", "wallet", "가방", "모자", "시계", "목걸이", "지갑",
	},
}

// colorKeywords map URL fragments to display color names for the heuristic
// composer.
var colorKeywords = []struct {
	Fragment string
	Color    string
}{
	{"black", "블랙"},
	{"white", "화이트"},
	{"navy", "네이비"},
	{"blue", "블루"},
	{"red", "레드"},
	{"green", "그린"},
	{"beige", "베이지"},
	{"brown", "브라운"},
	{"grey", "그레이"},
	{"gray", "그레이"},
	{"pink", "핑크"},
	{"ivory", "아이보리"},
	{"khaki", "카키"},
}

// ClassifyURL scores the URL against the five category keyword sets and
// returns the best-scoring category with its matched keywords. Zero matches
// across all sets defaults to tops.
func ClassifyURL(rawURL string) (item.Category, []string) {
	lower := strings.ToLower(rawURL)

	best := item.CategoryTops
	bestScore := 0
	var bestMatches []string
	for _, category := range item.Categories {
		var matches []string
		for _, kw := range categoryKeywords[category] {
			if strings.Contains(lower, kw) {
				matches = append(matches, kw)
			}
		}
		if len(matches) > bestScore {
			best = category
			bestScore = len(matches)
			bestMatches = matches
		}
	}
	return best, bestMatches
}

// MatchColor returns the first recognized color keyword in the URL.
func MatchColor(rawURL string) (string, bool) {
	lower := strings.ToLower(rawURL)
	for _, ck := range colorKeywords {
		if strings.Contains(lower, ck.Fragment) {
			return ck.Color, true
		}
	}
	return "", false
}
