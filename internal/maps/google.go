package maps

import (
	"context"
	"fmt"
	"strings"

	gmaps "googlemaps.github.io/maps"

	"pabili/internal/types"
)

// GoogleService geocodes and routes through the Google Maps Platform APIs.
type GoogleService struct {
	client *gmaps.Client
	region string
}

// NewGoogleService creates a GoogleService with the given API Key.
// region biases geocoding and directions results (ccTLD, e.g. "ph").
func NewGoogleService(apiKey, region string) (*GoogleService, error) {
	client, err := gmaps.NewClient(gmaps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleService{client: client, region: region}, nil
}

func (s *GoogleService) Geocode(ctx context.Context, address string) (Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Place{}, ErrEmptyAddress
	}
	if p, ok := parseLatLng(address); ok {
		return Place{Point: p, Label: address}, nil
	}

	results, err := s.client.Geocode(ctx, &gmaps.GeocodingRequest{
		Address: address,
		Region:  s.region,
	})
	if err != nil {
		if isZeroResults(err) {
			return Place{}, ErrAddressNotFound
		}
		return Place{}, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return Place{}, ErrAddressNotFound
	}

	loc := results[0].Geometry.Location
	return Place{
		Point: types.Point{Lat: loc.Lat, Lng: loc.Lng},
		Label: results[0].FormattedAddress,
	}, nil
}

// Route returns the first driving route between from and to.
func (s *GoogleService) Route(ctx context.Context, from, to types.Point) (Route, error) {
	r := &gmaps.DirectionsRequest{
		Origin:      from.String(),
		Destination: to.String(),
		Mode:        gmaps.TravelModeDriving,
		Region:      s.region,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		if isZeroResults(err) {
			return Route{}, ErrNoRoute
		}
		return Route{}, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, ErrNoRoute
	}

	leg := routes[0].Legs[0]
	return Route{
		DistanceMeters:  float64(leg.Distance.Meters),
		DurationSeconds: leg.Duration.Seconds(),
		Polyline:        routes[0].OverviewPolyline.Points,
	}, nil
}

func isZeroResults(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "ZERO_RESULTS") || strings.Contains(msg, "NOT_FOUND")
}
