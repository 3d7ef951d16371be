package extract

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/stylemate/stylemate/internal/fetch"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif"}

var imageKeywords = []string{"image", "img", "photo", "picture", "thumb", "thumbnail"}

// imageStrategy is one attempt at locating a product image. Strategies are
// iterated in order until one yields a candidate; a strategy must never
// return an error, only "no candidate".
type imageStrategy interface {
	name() string
	attempt(ctx context.Context, u *url.URL) (string, bool)
}

// ImageLocator finds a best-candidate product image URL for a product page.
type ImageLocator struct {
	strategies []imageStrategy
}

func NewImageLocator(client *fetch.Client) *ImageLocator {
	return &ImageLocator{
		strategies: []imageStrategy{
			directExtension{},
			&pageScrape{client: client},
			retailerRules{},
			genericPattern{},
		},
	}
}

// Locate returns a best-candidate image URL for the product page, or false
// when every strategy comes up empty. It never fails; internal errors are
// downgraded to "no candidate". Locate is idempotent and safe to repeat.
func (l *ImageLocator) Locate(ctx context.Context, rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	for _, s := range l.strategies {
		if candidate, ok := s.attempt(ctx, u); ok && isLikelyImageURL(candidate) {
			log.Debug().Str("strategy", s.name()).Str("image", candidate).Msg("image candidate found")
			return candidate, true
		}
	}
	return "", false
}

// isLikelyImageURL accepts a URL as an image candidate only if its path ends
// in a known image extension or the URL contains an image-related keyword.
func isLikelyImageURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	lower := strings.ToLower(rawURL)
	for _, kw := range imageKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// directExtension accepts the product URL itself when it already points at
// an image file.
type directExtension struct{}

func (directExtension) name() string { return "direct-extension" }

func (directExtension) attempt(_ context.Context, u *url.URL) (string, bool) {
	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return u.String(), true
		}
	}
	return "", false
}

// pageScrape fetches the page HTML through the CORS-relay cascade and mines
// it for meta tags and img elements. Each relay's body is parsed in turn; a
// relay that answers with HTML yielding no candidate does not stop the next
// relay from being tried.
type pageScrape struct {
	client *fetch.Client
}

func (*pageScrape) name() string { return "page-scrape" }

func (s *pageScrape) attempt(ctx context.Context, u *url.URL) (string, bool) {
	for i := 0; i < s.client.ProxyCount(); i++ {
		html, err := s.client.GetViaProxy(ctx, u.String(), i)
		if err != nil {
			log.Debug().Err(err).Str("url", u.String()).Msg("proxy fetch failed for image scrape")
			continue
		}
		if candidate, ok := scrapeHTML(u, html); ok {
			return candidate, true
		}
	}
	return "", false
}

// scrapeHTML mines one page body for the best image candidate.
func scrapeHTML(u *url.URL, html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	// Open Graph, then Twitter Card.
	for _, sel := range []string{
		`meta[property="og:image"]`,
		`meta[name="og:image"]`,
		`meta[name="twitter:image"]`,
		`meta[property="twitter:image"]`,
	} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && content != "" {
			return resolveImageURL(u, content), true
		}
	}

	// img tags whose class or id hints at the main product shot.
	var hinted string
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		class, _ := img.Attr("class")
		id, _ := img.Attr("id")
		hint := strings.ToLower(class + " " + id)
		if strings.Contains(hint, "product") || strings.Contains(hint, "main") || strings.Contains(hint, "hero") {
			if src, ok := img.Attr("src"); ok && src != "" {
				hinted = resolveImageURL(u, src)
				return false
			}
		}
		return true
	})
	if hinted != "" {
		return hinted, true
	}

	// Fall back to the largest img by declared dimensions, ties broken by
	// document order.
	type candidate struct {
		src      string
		sizeHint int
		order    int
	}
	var candidates []candidate
	doc.Find("img").Each(func(i int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return
		}
		size := parseDimension(img, "width") * parseDimension(img, "height")
		candidates = append(candidates, candidate{src: src, sizeHint: size, order: i})
	})
	if len(candidates) == 0 {
		return "", false
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].sizeHint > candidates[b].sizeHint
	})
	return resolveImageURL(u, candidates[0].src), true
}

// parseDimension reads a numeric width/height attribute; anything that does
// not parse counts as 0.
func parseDimension(img *goquery.Selection, attr string) int {
	raw, ok := img.Attr(attr)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(raw), "px"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// resolveImageURL resolves relative and protocol-relative image URLs against
// the page's own origin.
func resolveImageURL(page *url.URL, src string) string {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "//") {
		return page.Scheme + ":" + src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return page.ResolveReference(ref).String()
}

// retailerRules synthesizes probable CDN image URLs from known retailer URL
// shapes without fetching anything.
type retailerRules struct{}

func (retailerRules) name() string { return "retailer-rules" }

var (
	musinsaGoodsRe = regexp.MustCompile(`/(?:app/goods|goods)/(\d+)`)
	coupangItemRe  = regexp.MustCompile(`/vp/products/(\d+)`)
	cm29ItemRe     = regexp.MustCompile(`/catalog/(\d+)`)
)

func (retailerRules) attempt(_ context.Context, u *url.URL) (string, bool) {
	host := strings.ToLower(u.Host)
	switch {
	case strings.Contains(host, "musinsa"):
		if m := musinsaGoodsRe.FindStringSubmatch(u.Path); m != nil {
			return "https://image.msscdn.net/images/goods_img/" + m[1] + "/" + m[1] + "_1_500.jpg", true
		}
	case strings.Contains(host, "coupang"):
		if m := coupangItemRe.FindStringSubmatch(u.Path); m != nil {
			return "https://thumbnail.coupangcdn.com/thumbnails/remote/492x492ex/image/vendor_inventory/" + m[1] + ".jpg", true
		}
	case strings.Contains(host, "29cm"):
		if m := cm29ItemRe.FindStringSubmatch(u.Path); m != nil {
			return "https://img.29cm.co.kr/item/" + m[1] + "/" + m[1] + "_500.jpg", true
		}
	}
	return "", false
}

// genericPattern guesses a same-origin /images/<id> URL from a numeric path
// segment or an image-ish query parameter.
type genericPattern struct{}

func (genericPattern) name() string { return "generic-pattern" }

var numericIDRe = regexp.MustCompile(`/(\d{4,})(?:/|$)`)

func (genericPattern) attempt(_ context.Context, u *url.URL) (string, bool) {
	for _, param := range []string{"image", "img", "photo"} {
		if v := u.Query().Get(param); v != "" {
			return resolveImageURL(u, v), true
		}
	}
	if m := numericIDRe.FindStringSubmatch(u.Path); m != nil {
		return u.Scheme + "://" + u.Host + "/images/" + m[1] + ".jpg", true
	}
	return "", false
}
