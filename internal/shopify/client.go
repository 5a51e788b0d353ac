// internal/shopify/client.go
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultAPIVersion = "2024-01"
	pageSize          = 250
	// Hard cap so a bad cursor loop cannot run away.
	maxPages = 200
)

// Config holds the connection info for one store's admin API.
type Config struct {
	StoreDomain string // e.g. "example.myshopify.com"
	AccessToken string
	APIVersion  string
}

// Client talks to the platform admin API for a single store.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// TestConnection verifies the domain and token by fetching the shop resource.
func (c *Client) TestConnection(ctx context.Context) error {
	var resp shopResponse
	if err := c.get(ctx, "shop.json", nil, &resp); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	log.Debug().Str("shop", resp.Shop.Name).Msg("shopify connection verified")
	return nil
}

// FetchOrders pulls every order in the optional created-at window, following
// cursor pagination until the store runs out of pages.
func (c *Client) FetchOrders(ctx context.Context, createdAtMin, createdAtMax time.Time) ([]Order, error) {
	params := url.Values{}
	params.Set("status", "any")
	params.Set("limit", fmt.Sprintf("%d", pageSize))
	if !createdAtMin.IsZero() {
		params.Set("created_at_min", createdAtMin.Format(time.RFC3339))
	}
	if !createdAtMax.IsZero() {
		params.Set("created_at_max", createdAtMax.Format(time.RFC3339))
	}

	var all []Order
	for page := 0; page < maxPages; page++ {
		var resp ordersResponse
		next, err := c.getPaged(ctx, "orders.json", params, &resp)
		if err != nil {
			return nil, fmt.Errorf("fetch orders page %d: %w", page+1, err)
		}
		all = append(all, resp.Orders...)
		if next == "" {
			return all, nil
		}
		// Cursor requests carry only limit + page_info.
		params = url.Values{}
		params.Set("limit", fmt.Sprintf("%d", pageSize))
		params.Set("page_info", next)
	}
	return nil, fmt.Errorf("order pagination exceeded %d pages", maxPages)
}

func (c *Client) get(ctx context.Context, resource string, params url.Values, out interface{}) error {
	_, err := c.getPaged(ctx, resource, params, out)
	return err
}

// getPaged performs one API request and returns the next page cursor, if any.
func (c *Client) getPaged(ctx context.Context, resource string, params url.Values, out interface{}) (string, error) {
	endpoint := fmt.Sprintf("https://%s/admin/api/%s/%s", c.cfg.StoreDomain, c.cfg.APIVersion, resource)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("rate limited by %s", c.cfg.StoreDomain)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", resource, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return "", fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nextPageInfo(resp.Header.Get("Link")), nil
}

var pageInfoPattern = regexp.MustCompile(`page_info=([^&>]+)`)

// nextPageInfo extracts the cursor from a Link header's rel="next" entry.
func nextPageInfo(linkHeader string) string {
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		if m := pageInfoPattern.FindStringSubmatch(part); m != nil {
			return m[1]
		}
	}
	return ""
}
