package maps

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

	"pabili/internal/types"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimGeocoder resolves free-text addresses with the OpenStreetMap
// Nominatim search API.
type NominatimGeocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewNominatimGeocoder(baseURL, userAgent string, httpClient *http.Client) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &NominatimGeocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

type nominatimHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Place{}, ErrEmptyAddress
	}
	if p, ok := parseLatLng(address); ok {
		return Place{Point: p, Label: address}, nil
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", address)
	q.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Place{}, fmt.Errorf("nominatim: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("nominatim: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Place{}, &statusError{Service: "nominatim", Code: resp.StatusCode, Body: string(b)}
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return Place{}, fmt.Errorf("nominatim: decode response: %w", err)
	}
	if len(hits) == 0 {
		return Place{}, ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("nominatim: parse lat %q: %w", hits[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("nominatim: parse lon %q: %w", hits[0].Lon, err)
	}
	label := hits[0].DisplayName
	if label == "" {
		label = address
	}
	return Place{Point: types.Point{Lat: lat, Lng: lng}, Label: label}, nil
}
