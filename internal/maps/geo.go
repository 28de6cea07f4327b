package maps

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"pabili/internal/types"
)

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// FallbackRouter answers with a straight-line estimate when the primary
// router fails for a reason other than a context cancellation.
type FallbackRouter struct {
	primary Router
	logger  *zap.Logger
}

func NewFallbackRouter(primary Router, logger *zap.Logger) *FallbackRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackRouter{primary: primary, logger: logger}
}

func (r *FallbackRouter) Route(ctx context.Context, from, to types.Point) (Route, error) {
	route, err := r.primary.Route(ctx, from, to)
	if err == nil {
		return route, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return Route{}, err
	}
	r.logger.Warn("routing failed, using straight-line distance",
		zap.Stringer("from", from), zap.Stringer("to", to), zap.Error(err))
	return Route{
		DistanceMeters: haversineKm(from, to) * 1000,
		IsFallback:     true,
	}, nil
}
