// internal/app/system/geocode/geocode.go

// Package geocode resolves free-text addresses to coordinates against a
// Nominatim-compatible place-search service. Sparse or malformed
// addresses are common, so resolution walks a ladder of progressively
// coarser queries and takes the first hit.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound means every query variant came back empty. Callers must
// reject the operation rather than persist placeholder coordinates;
// downstream distance matching silently corrupts on (0,0).
var ErrNotFound = errors.New("geocode: no match for address")

// Point is a resolved coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Address carries the location components of a user or camp record.
// Any component may be blank.
type Address struct {
	Address  string
	City     string
	District string
	State    string
	Country  string
}

// queries builds the ladder from most to least specific, collapsing
// blank components and dropping duplicate variants.
func (a Address) queries() []string {
	variants := [][]string{
		{a.Address, a.City, a.State, a.Country},
		{a.City, a.State, a.Country},
		{a.District, a.State, a.Country},
		{a.State, a.Country},
	}
	seen := make(map[string]bool)
	var out []string
	for _, parts := range variants {
		var kept []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			continue
		}
		q := strings.Join(kept, ", ")
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	return out
}

// Resolver is the geocoding adapter. Construct one at startup and inject
// it wherever registration or camp writes need coordinates.
type Resolver struct {
	baseURL   string
	userAgent string
	client    *http.Client
	log       *zap.Logger
}

// New builds a Resolver for the given provider base URL (e.g.
// "https://nominatim.openstreetmap.org"). The user agent is sent on every
// request; Nominatim requires one.
func New(baseURL, userAgent string, timeout time.Duration, logger *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		log:       logger,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve walks the query ladder and returns the first hit. ErrNotFound
// when the ladder is exhausted; transport failures are returned wrapped
// so callers can surface them as upstream errors.
func (g *Resolver) Resolve(ctx context.Context, addr Address) (Point, error) {
	queries := addr.queries()
	if len(queries) == 0 {
		return Point{}, ErrNotFound
	}
	for _, q := range queries {
		pt, ok, err := g.search(ctx, q)
		if err != nil {
			return Point{}, err
		}
		if ok {
			return pt, nil
		}
		g.log.Debug("geocode variant missed", zap.String("query", q))
	}
	return Point{}, ErrNotFound
}

func (g *Resolver) search(ctx context.Context, query string) (Point, bool, error) {
	u := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", g.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Point{}, false, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return Point{}, false, fmt.Errorf("geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, false, fmt.Errorf("geocode: provider returned %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Point{}, false, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(results) == 0 {
		return Point{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, false, fmt.Errorf("geocode: bad latitude %q", results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, false, fmt.Errorf("geocode: bad longitude %q", results[0].Lon)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Point{}, false, fmt.Errorf("geocode: coordinates out of range (%v, %v)", lat, lon)
	}
	return Point{Latitude: lat, Longitude: lon}, true, nil
}
