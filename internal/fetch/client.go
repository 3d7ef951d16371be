// Package fetch provides the HTTP page fetcher used by the image locator and
// brand extractor. Product pages are often behind CORS or bot protection, so
// a direct fetch is supplemented by a cascade of public CORS-relay services.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// BrowserUserAgent is sent with every page fetch. Several retailers serve an
// empty shell or a bot challenge to non-browser user agents.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultProxies are the CORS-relay services tried in order when a page has
// to be fetched through a relay. Each receives the target URL query-escaped.
var DefaultProxies = []string{
	"https://api.allorigins.win/raw?url=%s",
	"https://corsproxy.io/?%s",
}

type ClientOpts struct {
	Proxies []string
	Timeout time.Duration
}

// Client fetches product page HTML.
type Client struct {
	httpClient *resty.Client
	proxies    []string
}

func NewClient(opts ClientOpts) *Client {
	c := Client{proxies: DefaultProxies}
	if opts.Proxies != nil {
		c.proxies = opts.Proxies
	}
	timeout := 15 * time.Second
	if opts.Timeout != 0 {
		timeout = opts.Timeout
	}
	c.httpClient = resty.New().
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "ko-KR,ko;q=0.9,en-US;q=0.8",
			"User-Agent":      BrowserUserAgent,
		})
	return &c
}

// Get fetches the page directly and returns its body.
func (c *Client) Get(ctx context.Context, pageURL string) (string, error) {
	res, err := c.httpClient.NewRequest().SetContext(ctx).Get(pageURL)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("request failed: GET %s (status: %d)", pageURL, res.StatusCode())
	}
	return res.String(), nil
}

// ProxyCount returns the number of configured CORS relays.
func (c *Client) ProxyCount() int {
	return len(c.proxies)
}

// GetViaProxy fetches the page through the relay at index i and returns its
// body. An empty body counts as a failure.
func (c *Client) GetViaProxy(ctx context.Context, pageURL string, i int) (string, error) {
	if i < 0 || i >= len(c.proxies) {
		return "", fmt.Errorf("no proxy at index %d", i)
	}
	proxied := fmt.Sprintf(c.proxies[i], url.QueryEscape(pageURL))
	body, err := c.Get(ctx, proxied)
	if err != nil {
		return "", err
	}
	if body == "" {
		return "", fmt.Errorf("proxy returned empty body: %s", c.proxies[i])
	}
	return body, nil
}

// GetViaProxies fetches the page through each configured CORS relay in order
// and returns the first non-empty body. All failures collapse into a single
// error; the caller treats it as "no HTML available", never as fatal.
func (c *Client) GetViaProxies(ctx context.Context, pageURL string) (string, error) {
	var lastErr error
	for i := range c.proxies {
		body, err := c.GetViaProxy(ctx, pageURL, i)
		if err != nil {
			log.Debug().Err(err).Str("proxy", c.proxies[i]).Msg("proxy fetch failed")
			lastErr = err
			continue
		}
		return body, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no proxies configured")
	}
	return "", fmt.Errorf("all proxies failed for %s: %w", pageURL, lastErr)
}
