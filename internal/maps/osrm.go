package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pabili/internal/types"
)

const DefaultOSRMURL = "https://router.project-osrm.org/route/v1"

// OSRMRouter computes driving routes with an OSRM route/v1 service.
type OSRMRouter struct {
	baseURL    string
	profile    string
	httpClient *http.Client
}

func NewOSRMRouter(baseURL string, httpClient *http.Client) *OSRMRouter {
	if baseURL == "" {
		baseURL = DefaultOSRMURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &OSRMRouter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		profile:    "driving",
		httpClient: httpClient,
	}
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
}

func (r *OSRMRouter) Route(ctx context.Context, from, to types.Point) (Route, error) {
	// OSRM expects lon,lat pairs
	u := fmt.Sprintf("%s/%s/%f,%f;%f,%f?overview=full&geometries=polyline",
		r.baseURL, r.profile, from.Lng, from.Lat, to.Lng, to.Lat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Route{}, fmt.Errorf("osrm: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("osrm: do request: %w", err)
	}
	defer resp.Body.Close()

	// OSRM answers 400 with a JSON code for unroutable input
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Route{}, &statusError{Service: "osrm", Code: resp.StatusCode, Body: string(b)}
	}

	var out osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Route{}, fmt.Errorf("osrm: decode response: %w", err)
	}
	switch {
	case out.Code == "NoRoute" || (out.Code == "Ok" && len(out.Routes) == 0):
		return Route{}, ErrNoRoute
	case out.Code != "Ok":
		return Route{}, fmt.Errorf("osrm: %s: %s", out.Code, out.Message)
	}

	first := out.Routes[0]
	return Route{
		DistanceMeters:  first.Distance,
		DurationSeconds: first.Duration,
		Polyline:        first.Geometry,
	}, nil
}
