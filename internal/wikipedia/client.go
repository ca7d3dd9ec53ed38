// Package wikipedia resolves publication years from Wikipedia articles
// through the MediaWiki action API.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ppiankov/gutensent/internal/cache"
)

// DefaultBaseURL is the English Wikipedia host.
const DefaultBaseURL = "https://en.wikipedia.org"

// Client fetches article wikitext. Authenticated requests carry the
// Wikimedia bearer token and the app's contact User-Agent, per the
// Wikimedia API policy.
type Client struct {
	http  *resty.Client
	cache cache.Cache
}

// NewClient creates a Wikipedia client. accessToken may be empty for
// unauthenticated (heavily throttled) access.
func NewClient(baseURL, accessToken, userAgent string, timeout time.Duration, c cache.Cache) *Client {
	if c == nil {
		c = cache.Nop{}
	}

	http := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
	if accessToken != "" {
		http.SetAuthToken(accessToken)
	}

	return &Client{http: http, cache: c}
}

// TitleFromURL derives the article title from its URL: last path segment,
// percent-decoded, underscores replaced with spaces.
func TitleFromURL(articleURL string) string {
	segment := articleURL
	if idx := strings.LastIndex(segment, "/"); idx >= 0 {
		segment = segment[idx+1:]
	}

	decoded, err := url.PathUnescape(segment)
	if err != nil {
		decoded = segment
	}

	return strings.ReplaceAll(decoded, "_", " ")
}

// Year extracts a publication year from the article behind articleURL.
// Returns (0, false) on any failure; the caller treats it as a miss.
func (c *Client) Year(ctx context.Context, articleURL string) (int, bool) {
	title := TitleFromURL(articleURL)
	if title == "" {
		return 0, false
	}

	wikitext, err := c.Wikitext(ctx, title)
	if err != nil {
		return 0, false
	}

	return YearFromWikitext(wikitext)
}

type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			Revisions []struct {
				Slots struct {
					Main struct {
						Content string `json:"*"`
					} `json:"main"`
				} `json:"slots"`
			} `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

// Wikitext fetches the current revision wikitext for an article title.
func (c *Client) Wikitext(ctx context.Context, title string) (string, error) {
	key := cache.Key("wikipedia", title)
	body, found := c.cache.Get(key)
	if !found {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"action":  "query",
				"format":  "json",
				"titles":  title,
				"prop":    "revisions",
				"rvprop":  "content",
				"rvslots": "main",
			}).
			Get("/w/api.php")
		if err != nil {
			return "", fmt.Errorf("fetch article %q: %w", title, err)
		}
		if resp.IsError() {
			return "", fmt.Errorf("article %q: unexpected status %d", title, resp.StatusCode())
		}

		body = resp.Body()
		_ = c.cache.Set(key, body, 0)
	}

	var query queryResponse
	if err := json.Unmarshal(body, &query); err != nil {
		return "", fmt.Errorf("decode article %q: %w", title, err)
	}

	for _, page := range query.Query.Pages {
		if len(page.Revisions) > 0 {
			return page.Revisions[0].Slots.Main.Content, nil
		}
	}

	return "", fmt.Errorf("article %q: no revisions in response", title)
}
