// Package geocode resolves street addresses to coordinates through an
// external geocoding service. The adapter is strictly best effort: any
// transport or decoding failure yields an empty result, never an error
// that could block matching.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gighive/gighive/pkg/logger"
)

// Place is one geocoding result.
type Place struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Adapter is the geocoding contract consumed by the service layer.
type Adapter interface {
	Forward(ctx context.Context, street, postalCode, city string) []Place
	Reverse(ctx context.Context, lat, lon float64) *Place
}

const defaultTimeout = 5 * time.Second

// Client is a Nominatim-style HTTP geocoder.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the geocoding endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient creates a geocoding client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: "https://nominatim.openstreetmap.org",
		http:    &http.Client{Timeout: defaultTimeout},
		log:     logger.Named("geocode"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wirePlace matches the Nominatim response shape, which carries
// coordinates as strings.
type wirePlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Forward resolves an address to candidate coordinates.
func (c *Client) Forward(ctx context.Context, street, postalCode, city string) []Place {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("street", street)
	if postalCode != "" {
		q.Set("postalcode", postalCode)
	}
	if city != "" {
		q.Set("city", city)
	}

	var wire []wirePlace
	if !c.get(ctx, c.baseURL+"/search?"+q.Encode(), &wire) {
		return nil
	}

	places := make([]Place, 0, len(wire))
	for _, w := range wire {
		if p, ok := parsePlace(w); ok {
			places = append(places, p)
		}
	}
	return places
}

// Reverse resolves coordinates to a display address. Returns nil when
// nothing was found or the lookup failed.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) *Place {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var wire wirePlace
	if !c.get(ctx, c.baseURL+"/reverse?"+q.Encode(), &wire) {
		return nil
	}
	p, ok := parsePlace(wire)
	if !ok {
		return nil
	}
	return &p
}

// get fetches and decodes one JSON response, reporting success.
func (c *Client) get(ctx context.Context, u string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.log.Warn(ctx, "geocode request build failed", logger.Error(err))
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "geocode request failed", logger.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn(ctx, "geocode unexpected status", logger.Int("status", resp.StatusCode))
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Warn(ctx, "geocode decode failed", logger.Error(err))
		return false
	}
	return true
}

func parsePlace(w wirePlace) (Place, bool) {
	lat, latErr := strconv.ParseFloat(w.Lat, 64)
	lon, lonErr := strconv.ParseFloat(w.Lon, 64)
	if latErr != nil || lonErr != nil {
		return Place{}, false
	}
	return Place{Lat: lat, Lon: lon, DisplayName: w.DisplayName}, true
}

// Noop is an Adapter that never resolves anything. Used when no
// geocoding endpoint is configured.
type Noop struct{}

// Forward always returns no places.
func (Noop) Forward(context.Context, string, string, string) []Place { return nil }

// Reverse always returns nil.
func (Noop) Reverse(context.Context, float64, float64) *Place { return nil }

var _ Adapter = (*Client)(nil)
var _ Adapter = Noop{}

// String describes the client endpoint, useful in startup logs.
func (c *Client) String() string {
	return fmt.Sprintf("geocode(%s)", c.baseURL)
}
