// Package geo resolves textual addresses to coordinates through a
// Nominatim-compatible HTTP service. Lookups are best-effort: callers log
// and discard failures rather than failing their request.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrNoResult means the service answered but found nothing for the query.
var ErrNoResult = fmt.Errorf("geocoder: no result")

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a free-text address to a coordinate.
type Geocoder interface {
	Forward(ctx context.Context, query string) (*Point, error)
}

// Client is a Geocoder backed by a Nominatim-style /search endpoint.
type Client struct {
	httpClient *resty.Client
	logger     zerolog.Logger
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "clinicdesk/1.0")

	return &Client{httpClient: client, logger: logger}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Forward resolves query to its best-match coordinate.
func (c *Client) Forward(ctx context.Context, query string) (*Point, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"format": "json",
			"limit":  "1",
		}).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("geocoder request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("geocoder status %d", resp.StatusCode())
	}

	var results []searchResult
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return nil, fmt.Errorf("geocoder decode: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder longitude %q: %w", results[0].Lon, err)
	}

	c.logger.Debug().Str("query", query).Float64("lat", lat).Float64("lon", lon).Msg("geocode hit")
	return &Point{Latitude: lat, Longitude: lon}, nil
}
