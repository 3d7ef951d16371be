package extract

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/stylemate/stylemate/internal/fetch"
)

// BrandSource identifies which strategy produced a brand candidate.
type BrandSource string

const (
	SourceMeta         BrandSource = "meta"
	SourceJSONLD       BrandSource = "jsonld"
	SourceTitle        BrandSource = "title"
	SourceClassContext BrandSource = "classContext"
	SourceKnownText    BrandSource = "knownText"
	SourceDomain       BrandSource = "domain"
)

// BrandCandidate is a tentative brand name from one strategy. Candidates are
// transient: generated per-analysis, reduced to one winner, discarded.
type BrandCandidate struct {
	Name   string
	Source BrandSource
}

// knownBrands is the fixed table of recognized brand names, Korean and Latin
// scripts, checked with word-boundary matching against de-tagged page text.
var knownBrands = []string{
	"Nike", "Adidas", "New Balance", "Converse", "Vans", "Puma", "Reebok",
	"Zara", "H&M", "Uniqlo", "COS", "Massimo Dutti", "Mango",
	"Gucci", "Prada", "Chanel", "Louis Vuitton", "Burberry", "Balenciaga",
	"Saint Laurent", "Bottega Veneta", "Maison Margiela",
	"Musinsa Standard", "Covernat", "Thisisneverthat", "Ader Error",
	"나이키", "아디다스", "뉴발란스", "컨버스", "자라", "유니클로",
	"구찌", "프라다", "샤넬", "루이비통", "버버리", "발렌시아가",
	"무신사 스탠다드", "커버낫", "디스이즈네버댓",
}

// retailerDomainBrands maps a host's first label to its canonical brand
// label, used as the final fallback when nothing better is found.
var retailerDomainBrands = map[string]string{
	"musinsa":      "무신사",
	"29cm":         "29CM",
	"wconcept":     "W컨셉",
	"zigzag":       "지그재그",
	"ably":         "에이블리",
	"coupang":      "쿠팡",
	"gmarket":      "G마켓",
	"ssg":          "SSG",
	"lotteon":      "롯데온",
	"amazon":       "Amazon",
	"aliexpress":   "AliExpress",
	"rakuten":      "Rakuten",
	"taobao":       "Taobao",
	"uniqlo":       "Uniqlo",
	"zara":         "Zara",
	"hm":           "H&M",
	"nike":         "Nike",
	"adidas":       "Adidas",
	"gucci":        "Gucci",
	"louisvuitton": "Louis Vuitton",
}

// BrandExtractor finds the best brand name for a product page.
type BrandExtractor struct {
	client    *fetch.Client
	converter *md.Converter
}

func NewBrandExtractor(client *fetch.Client) *BrandExtractor {
	return &BrandExtractor{
		client:    client,
		converter: md.NewConverter("", true, nil),
	}
}

// Extract returns a single best brand name for the product URL. It never
// returns an empty string; "Unknown" is the floor value. The page is fetched
// once with a browser user agent; on fetch failure only the domain fallback
// runs.
func (b *BrandExtractor) Extract(ctx context.Context, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "Unknown"
	}
	domain := strings.ToLower(u.Host)

	var candidates []BrandCandidate
	html, err := b.client.Get(ctx, rawURL)
	if err != nil {
		log.Debug().Err(err).Str("url", rawURL).Msg("page fetch failed, using domain fallback for brand")
	} else {
		candidates = b.collectFromHTML(html)
	}
	candidates = append(candidates, domainFallback(domain))

	return selectBrand(candidates, domain)
}

func (b *BrandExtractor) collectFromHTML(html string) []BrandCandidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var candidates []BrandCandidate
	add := func(source BrandSource, names ...string) {
		for _, name := range names {
			if name = normalizeBrand(name); name != "" {
				candidates = append(candidates, BrandCandidate{Name: name, Source: source})
			}
		}
	}

	// Meta tags.
	for _, sel := range []string{
		`meta[property="og:site_name"]`,
		`meta[name="twitter:site"]`,
		`meta[name="brand"]`,
		`meta[name="author"]`,
	} {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if content, ok := s.Attr("content"); ok {
				add(SourceMeta, content)
			}
		})
	}

	// Structured data blocks.
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		add(SourceJSONLD, brandsFromJSONLD(s.Text())...)
	})

	// Page title.
	add(SourceTitle, brandsFromTitle(doc.Find("title").First().Text())...)

	// Text surrounding brand/logo/company elements, re-matched against the
	// known-brand table.
	doc.Find("[class],[id]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		hint := strings.ToLower(class + " " + id)
		if !strings.Contains(hint, "brand") && !strings.Contains(hint, "logo") && !strings.Contains(hint, "company") {
			return
		}
		add(SourceClassContext, matchKnownBrands(contextWindow(s, 200))...)
	})

	// Known brands anywhere in the de-tagged page text.
	if text, err := b.converter.ConvertString(html); err == nil {
		add(SourceKnownText, matchKnownBrands(text)...)
	}

	return candidates
}

// brandsFromJSONLD pulls brand/manufacturer fields out of a structured data
// block. The block may hold a single object or an array of them; each field
// may be a plain string or an object with a name.
func brandsFromJSONLD(raw string) []string {
	var node any
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		return nil
	}
	var objects []map[string]any
	switch v := node.(type) {
	case map[string]any:
		objects = append(objects, v)
	case []any:
		for _, el := range v {
			if obj, ok := el.(map[string]any); ok {
				objects = append(objects, obj)
			}
		}
	}
	var names []string
	for _, obj := range objects {
		for _, key := range []string{"brand", "manufacturer"} {
			switch v := obj[key].(type) {
			case string:
				names = append(names, v)
			case map[string]any:
				if name, ok := v["name"].(string); ok {
					names = append(names, name)
				}
			}
		}
	}
	return names
}

var (
	titleDashRe   = regexp.MustCompile(`^([^|–-]{2,40})\s*[-–]\s+`)
	titlePipeRe   = regexp.MustCompile(`\|\s*([^|]{2,40})\s*$`)
	titlePrefixRe = regexp.MustCompile(`^([A-Z][A-Za-z&'-]+(?:\s+[A-Z][A-Za-z&'-]+){0,2})\b`)
)

// brandsFromTitle extracts brand-shaped segments from the page title:
// "Brand - Product", "Product | Brand" and a leading capitalized word run.
func brandsFromTitle(title string) []string {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	var names []string
	if m := titleDashRe.FindStringSubmatch(title); m != nil {
		names = append(names, m[1])
	}
	if m := titlePipeRe.FindStringSubmatch(title); m != nil {
		names = append(names, m[1])
	}
	if m := titlePrefixRe.FindStringSubmatch(title); m != nil {
		names = append(names, m[1])
	}
	return names
}

// matchKnownBrands returns every known brand present in text with word
// boundaries. Korean brand names have no \b semantics, so those fall back to
// plain substring matching.
func matchKnownBrands(text string) []string {
	var found []string
	for _, brand := range knownBrands {
		if isASCIIWord(brand) {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(brand) + `\b`)
			if err != nil {
				continue
			}
			if re.MatchString(text) {
				found = append(found, brand)
			}
		} else if strings.Contains(text, brand) {
			found = append(found, brand)
		}
	}
	return found
}

func isASCIIWord(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

// contextWindow returns the element's text plus up to n runes on each side
// within its parent, so a brand name sitting next to a logo element still
// matches. Slicing is rune-based; Korean text never gets cut mid-character.
func contextWindow(s *goquery.Selection, n int) string {
	own := s.Text()
	parent := s.Parent().Text()
	if parent == "" {
		parent = own
	}
	runes := []rune(parent)
	if own == "" {
		if len(runes) > 2*n {
			runes = runes[:2*n]
		}
		return string(runes)
	}
	start, end := 0, len(runes)
	if idx := strings.Index(parent, own); idx >= 0 {
		start = len([]rune(parent[:idx]))
		end = start + len([]rune(own))
	}
	if start > n {
		start -= n
	} else {
		start = 0
	}
	if end+n < len(runes) {
		end += n
	} else {
		end = len(runes)
	}
	return string(runes[start:end])
}

// domainFallback derives a brand candidate from the host's first label.
func domainFallback(domain string) BrandCandidate {
	label := strings.TrimPrefix(domain, "www.")
	if i := strings.Index(label, "."); i > 0 {
		label = label[:i]
	}
	if brand, ok := retailerDomainBrands[label]; ok {
		return BrandCandidate{Name: brand, Source: SourceDomain}
	}
	// Numeric labels (IP hosts) never name a brand.
	if label == "" || strings.Trim(label, "0123456789") == "" {
		return BrandCandidate{Name: "Unknown", Source: SourceDomain}
	}
	return BrandCandidate{Name: strings.ToUpper(label[:1]) + label[1:], Source: SourceDomain}
}

var brandCharRe = regexp.MustCompile(`[^\p{L}\p{N}_&'\- ]`)

// normalizeBrand trims, strips leading @/#, collapses whitespace and drops
// everything except word characters, &, ' and -.
func normalizeBrand(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimLeft(name, "@#")
	name = brandCharRe.ReplaceAllString(name, " ")
	name = strings.Join(strings.Fields(name), " ")
	return name
}

// selectBrand reduces candidates to one winner. Unknown, empty and
// single-character candidates are dropped; a candidate sharing a substring
// relation with the domain wins; otherwise the most frequent candidate wins,
// with ties resolved by first-encountered order.
func selectBrand(candidates []BrandCandidate, domain string) string {
	var usable []BrandCandidate
	for _, c := range candidates {
		if c.Name == "" || strings.EqualFold(c.Name, "Unknown") || len([]rune(c.Name)) <= 1 {
			continue
		}
		usable = append(usable, c)
	}
	if len(usable) == 0 {
		return "Unknown"
	}

	for _, c := range usable {
		lower := strings.ToLower(strings.ReplaceAll(c.Name, " ", ""))
		if strings.Contains(domain, lower) || strings.Contains(lower, domain) {
			return c.Name
		}
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	canonical := make(map[string]string)
	for i, c := range usable {
		key := strings.ToLower(c.Name)
		counts[key]++
		if _, seen := firstSeen[key]; !seen {
			firstSeen[key] = i
			canonical[key] = c.Name
		}
	}
	best := ""
	for key := range counts {
		if best == "" {
			best = key
			continue
		}
		if counts[key] > counts[best] || (counts[key] == counts[best] && firstSeen[key] < firstSeen[best]) {
			best = key
		}
	}
	return canonical[best]
}
