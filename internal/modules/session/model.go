// README: Session model; the caller-owned route state a quote is priced from.
package session

import (
	"time"

	"pabili/internal/maps"
	"pabili/internal/modules/quote"
	"pabili/internal/types"
)

type Session struct {
	ID               types.ID     `json:"id"`
	Start            *types.Point `json:"start,omitempty"`
	Destination      *types.Point `json:"destination,omitempty"`
	StartLabel       string       `json:"start_label,omitempty"`
	DestinationLabel string       `json:"destination_label,omitempty"`
	Route            *maps.Route  `json:"route,omitempty"`
	// DistanceKm is the distance quotes are priced from.
	DistanceKm float64      `json:"distance_km"`
	LastQuote  *quote.Quote `json:"last_quote,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (s *Session) HasRoute() bool {
	return s.Route != nil
}

// clearRoute drops the route and everything priced from it.
func (s *Session) clearRoute() {
	s.Start, s.Destination = nil, nil
	s.StartLabel, s.DestinationLabel = "", ""
	s.Route = nil
	s.DistanceKm = 0
	s.LastQuote = nil
}

type EventType string

const (
	EventRouteFound      EventType = "route_found"
	EventPriceCalculated EventType = "price_calculated"
)

type Event struct {
	Type       EventType    `json:"type"`
	SessionID  types.ID     `json:"session_id"`
	DistanceKm float64      `json:"distance_km,omitempty"`
	Fallback   bool         `json:"fallback,omitempty"`
	Quote      *quote.Quote `json:"quote,omitempty"`
	At         time.Time    `json:"at"`
}

type RouteCommand struct {
	Destination   string
	StartAddress  string
	UseMyLocation bool
	// StartPoint is the device position; required with UseMyLocation.
	StartPoint *types.Point
}

type BuyerOptions struct {
	Requested bool
	Hours     float64
	WeightKg  float64
}
