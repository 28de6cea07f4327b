// Package maps wraps the external geocoding and routing services used to
// measure a delivery distance.
package maps

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"pabili/internal/types"
)

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrNoRoute         = errors.New("no route found")
	ErrEmptyAddress    = errors.New("empty address")
)

// Place is a single geocoding hit.
type Place struct {
	Point types.Point `json:"point"`
	Label string      `json:"label"`
}

// Route summarizes the first route returned by a routing service.
type Route struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Polyline        string  `json:"polyline,omitempty"`
	// IsFallback is set when the distance is a straight-line estimate.
	IsFallback bool `json:"is_fallback,omitempty"`
}

func (r Route) DistanceKm() float64 {
	return r.DistanceMeters / 1000
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (Place, error)
}

type Router interface {
	Route(ctx context.Context, from, to types.Point) (Route, error)
}

// parseLatLng returns the point if address looks like "lat,lng".
func parseLatLng(address string) (types.Point, bool) {
	parts := strings.Split(strings.TrimSpace(address), ",")
	if len(parts) != 2 {
		return types.Point{}, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return types.Point{}, false
	}
	p := types.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return types.Point{}, false
	}
	return p, true
}

// statusError is returned for non-2xx upstream responses.
type statusError struct {
	Service string
	Code    int
	Body    string
}

func (e *statusError) Error() string {
	return e.Service + ": unexpected status " + strconv.Itoa(e.Code) + ": " + e.Body
}

// temporary reports whether a retry may succeed.
func (e *statusError) temporary() bool {
	return e.Code == 429 || e.Code >= 500
}
