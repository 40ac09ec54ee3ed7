// Package twogis talks to the 2GIS catalog items API.
package twogis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tutfree/internal/config"
	"tutfree/internal/domain"
	"tutfree/internal/metrics"
	"tutfree/internal/models"

	"github.com/rs/zerolog"
)

const (
	importFields = "items.point,items.address_name,items.schedule"
	nearbyFields = "items.point,items.address_name,items.reviews,items.rubrics,items.schedule"

	nearbyPageSize = 50
	rateLimitKey   = "ratelimit:2gis:minute"
)

// Client imports and searches venues in the 2GIS catalog. Without an API key
// every call returns an empty result.
type Client struct {
	httpClient *http.Client
	cfg        config.TwoGISConfig
	cache      Cache
	logger     *zerolog.Logger
}

// NewClient builds a client. A nil cache falls back to an in-memory one.
func NewClient(httpClient *http.Client, cfg config.TwoGISConfig, cache Cache, logger *zerolog.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{httpClient: httpClient, cfg: cfg, cache: cache, logger: logger}
}

// Import fetches one page of catalog items matching query in the configured city.
func (c *Client) Import(ctx context.Context, query string) ([]models.Venue, error) {
	if c.cfg.APIKey == "" {
		c.logger.Warn().Msg("2GIS api key is not set, import skipped")
		return []models.Venue{}, nil
	}
	if strings.TrimSpace(query) == "" {
		query = c.cfg.Query
	}

	pageSize := c.cfg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("city", c.cfg.City)
	params.Set("fields", importFields)
	params.Set("key", c.cfg.APIKey)
	params.Set("page_size", strconv.Itoa(pageSize))

	items, err := c.fetch(ctx, params)
	if err != nil {
		metrics.IncTwoGIS("import", "error")
		return nil, err
	}
	metrics.IncTwoGIS("import", "ok")
	return ToVenues(items), nil
}

// NearbyCacheKey is the cache key for one nearby search.
func NearbyCacheKey(city string, lat, lng, radiusKm float64, category string) string {
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf("2gis:nearby:%s:%.4f:%.4f:%s:%s",
		city, lat, lng, strconv.FormatFloat(radiusKm, 'f', -1, 64), category)
}

// SearchNearby returns catalog items within radiusKm of the point. Results are
// cached; once the per-minute upstream budget is spent, uncached searches
// return nothing until the window resets.
func (c *Client) SearchNearby(ctx context.Context, lat, lng, radiusKm float64, category string) ([]models.Venue, error) {
	if c.cfg.APIKey == "" {
		return []models.Venue{}, nil
	}

	key := NearbyCacheKey(c.cfg.City, lat, lng, radiusKm, category)
	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("nearby cache read failed")
	} else if ok {
		var venues []models.Venue
		if err := json.Unmarshal(raw, &venues); err == nil {
			metrics.IncTwoGIS("nearby", "cached")
			return venues, nil
		}
	}

	allowed, err := c.allowCall(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("2GIS rate counter failed")
	}
	if !allowed {
		metrics.IncTwoGIS("nearby", "limited")
		return []models.Venue{}, nil
	}

	q := category
	if q == "" {
		q = c.cfg.Query
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("city", c.cfg.City)
	params.Set("point", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(lng, 'f', -1, 64), strconv.FormatFloat(lat, 'f', -1, 64)))
	params.Set("radius", strconv.Itoa(int(radiusKm*1000)))
	params.Set("fields", nearbyFields)
	params.Set("key", c.cfg.APIKey)
	params.Set("page_size", strconv.Itoa(nearbyPageSize))

	items, err := c.fetch(ctx, params)
	if err != nil {
		metrics.IncTwoGIS("nearby", "error")
		return nil, err
	}
	metrics.IncTwoGIS("nearby", "ok")

	venues := nearbyVenues(items, category)
	if raw, err := json.Marshal(venues); err == nil {
		if err := c.cache.Set(ctx, key, raw, c.cfg.CacheTTL); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("nearby cache write failed")
		}
	}
	return venues, nil
}

// allowCall counts this call against the per-minute budget. A counter
// failure lets the call through.
func (c *Client) allowCall(ctx context.Context) (bool, error) {
	if c.cfg.RPMLimit <= 0 {
		return true, nil
	}
	n, err := c.cache.Incr(ctx, rateLimitKey, time.Minute)
	if err != nil {
		return true, err
	}
	return n <= int64(c.cfg.RPMLimit), nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) ([]Item, error) {
	endpoint := c.cfg.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.Upstream(fmt.Errorf("2GIS: build request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.Upstream(fmt.Errorf("2GIS: do request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Error().Int("status", resp.StatusCode).Str("body", strings.TrimSpace(string(b))).Msg("2GIS request failed")
		return nil, domain.Upstream(fmt.Errorf("2GIS request failed: %d", resp.StatusCode))
	}

	var payload itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, domain.Upstream(fmt.Errorf("2GIS: decode response: %w", err))
	}
	return payload.Result.Items, nil
}

var _ domain.Directory = (*Client)(nil)
