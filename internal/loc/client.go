// Package loc resolves publication years through the Library of Congress
// item API, keyed by LCCN.
package loc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ppiankov/gutensent/internal/cache"
	"github.com/ppiankov/gutensent/internal/util"
)

// DefaultBaseURL is the Library of Congress API host.
const DefaultBaseURL = "https://www.loc.gov"

// Client queries the LoC item API. Responses are cached so repeated runs
// do not hammer loc.gov.
type Client struct {
	http  *resty.Client
	cache cache.Cache
}

// NewClient creates a LoC client.
func NewClient(baseURL, userAgent string, timeout time.Duration, c cache.Cache) *Client {
	if c == nil {
		c = cache.Nop{}
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent),
		cache: c,
	}
}

// itemResponse is the slice of the LoC JSON we read.
type itemResponse struct {
	Item struct {
		Date string `json:"date"`
	} `json:"item"`
}

// Year looks up the publication year for an LCCN. Returns (0, false) when
// the item has no parseable date or the lookup fails; metadata collection
// treats that as a miss, not an error.
func (c *Client) Year(ctx context.Context, lccn string) (int, bool) {
	lccn = strings.TrimSpace(lccn)
	if lccn == "" {
		return 0, false
	}

	body, err := c.itemJSON(ctx, lccn)
	if err != nil {
		return 0, false
	}

	var item itemResponse
	if err := json.Unmarshal(body, &item); err != nil {
		return 0, false
	}

	year := util.FindYear(item.Item.Date)
	return year, year > 0
}

func (c *Client) itemJSON(ctx context.Context, lccn string) ([]byte, error) {
	key := cache.Key("loc", lccn)
	if body, found := c.cache.Get(key); found {
		return body, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("fo", "json").
		Get(fmt.Sprintf("/item/%s/", lccn))
	if err != nil {
		return nil, fmt.Errorf("fetch loc item %s: %w", lccn, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("loc item %s: unexpected status %d", lccn, resp.StatusCode())
	}

	body := resp.Body()
	_ = c.cache.Set(key, body, 0)
	return body, nil
}
