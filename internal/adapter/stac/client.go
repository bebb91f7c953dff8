// Package stac implements domain.Catalog against a STAC API with optional
// Planetary Computer style asset signing.
package stac

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/geosift/s2extract/internal/domain"
)

// Client searches a STAC catalog over HTTP.
type Client struct {
	httpClient   *http.Client
	endpoint     string
	signEndpoint string // empty disables asset signing
	logger       *slog.Logger
}

// NewClient creates a STAC client. signEndpoint may be empty for catalogs
// whose assets need no signing.
func NewClient(endpoint, signEndpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint:     endpoint,
		signEndpoint: signEndpoint,
		logger:       logger,
	}
}

// Search POSTs an item search and converts the returned features into
// domain scenes with signed asset hrefs.
func (c *Client) Search(ctx context.Context, q domain.SceneQuery) ([]domain.Scene, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 30
	}

	reqBody := searchRequest{
		Collections: []string{q.Collection},
		BBox:        [4]float64{q.BBox.MinLon, q.BBox.MinLat, q.BBox.MaxLon, q.BBox.MaxLat},
		Datetime:    q.TimeRange,
		Limit:       limit,
		Query: map[string]map[string]float64{
			"eo:cloud_cover": {"lt": q.MaxCloudCover},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stac search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stac API error: status %d: %s", resp.StatusCode, msg)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	scenes := make([]domain.Scene, 0, len(fc.Features))
	for _, item := range fc.Features {
		scene, err := c.toScene(ctx, q.Collection, item)
		if err != nil {
			c.logger.Warn("skipping malformed catalog item", "item_id", item.ID, "error", err)
			continue
		}
		scenes = append(scenes, scene)
	}

	c.logger.Info("stac search complete", "collection", q.Collection, "items", len(scenes))
	return scenes, nil
}

func (c *Client) toScene(ctx context.Context, collection string, item feature) (domain.Scene, error) {
	if item.Geometry == nil {
		return domain.Scene{}, fmt.Errorf("item %s has no geometry", item.ID)
	}

	acquired, err := time.Parse(time.RFC3339, item.Properties.Datetime)
	if err != nil {
		return domain.Scene{}, fmt.Errorf("parse item datetime %q: %w", item.Properties.Datetime, err)
	}

	assets := make(map[string]string, len(item.Assets))
	for key, a := range item.Assets {
		href, err := c.signHref(ctx, a.Href)
		if err != nil {
			return domain.Scene{}, fmt.Errorf("sign asset %s: %w", key, err)
		}
		assets[key] = href
	}

	return domain.Scene{
		ID:         item.ID,
		Collection: collection,
		AcquiredAt: acquired,
		CloudCover: item.Properties.CloudCover,
		MGRSTile:   item.Properties.MGRSTile,
		Footprint:  item.Geometry.Geometry(),
		Assets:     assets,
	}, nil
}

// signHref exchanges an asset href for a short-lived signed URL. Without a
// sign endpoint the href passes through untouched.
func (c *Client) signHref(ctx context.Context, href string) (string, error) {
	if c.signEndpoint == "" {
		return href, nil
	}

	u := c.signEndpoint + "?href=" + url.QueryEscape(href)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create sign request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("sign API error: status %d: %s", resp.StatusCode, msg)
	}

	var signed signResponse
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("decode sign response: %w", err)
	}
	if signed.Href == "" {
		return "", fmt.Errorf("sign API returned empty href")
	}
	return signed.Href, nil
}

// STAC API request/response types.

type searchRequest struct {
	Collections []string                      `json:"collections"`
	BBox        [4]float64                    `json:"bbox"`
	Datetime    string                        `json:"datetime"`
	Limit       int                           `json:"limit"`
	Query       map[string]map[string]float64 `json:"query,omitempty"`
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string            `json:"id"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties properties        `json:"properties"`
	Assets     map[string]asset  `json:"assets"`
}

type properties struct {
	Datetime   string  `json:"datetime"`
	CloudCover float64 `json:"eo:cloud_cover"`
	MGRSTile   string  `json:"s2:mgrs_tile"`
}

type asset struct {
	Href string `json:"href"`
}

type signResponse struct {
	Href string `json:"href"`
}
