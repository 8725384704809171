package nominatim

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/socat/omegeo/internal/core/domain"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Search/
// Sample request: https://nominatim.openstreetmap.org/search?q=Bilbao&format=json&limit=1
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Client implements ports.Geocoder against a Nominatim server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a client. Nominatim's usage policy requires an
// identifying User-Agent.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

// searchResult is one element of the /search response. Nominatim encodes
// every number as a string; boundingbox is [south, north, west, east].
type searchResult struct {
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	BoundingBox []string `json:"boundingbox"`
}

// Geocode returns the best match for address. domain.ErrNotFound is
// returned when Nominatim has no result.
func (c *Client) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	q := u.Query()
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, domain.ErrNotFound
	}

	return results[0].toDomain()
}

func (r searchResult) toDomain() (*domain.GeocodeResult, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon %q: %w", r.Lon, err)
	}

	res := &domain.GeocodeResult{
		Name:  r.DisplayName,
		Point: domain.GeoPoint{Lat: lat, Lon: lon},
	}
	// A missing or malformed extent is left zero; callers validate it.
	if len(r.BoundingBox) == 4 {
		var edges [4]float64
		for i, s := range r.BoundingBox {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return res, nil
			}
			edges[i] = v
		}
		res.Bounds = domain.BoundingBox{South: edges[0], North: edges[1], West: edges[2], East: edges[3]}
	}
	return res, nil
}
