// README: Pricing service validates input and computes delivery quotes.
package pricing

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid pricing input")

type Service struct {
	roundDistance bool
}

// NewService returns a Service. When roundDistance is set, distances are
// rounded to two decimals before pricing, matching the distance shown to the user.
func NewService(roundDistance bool) *Service {
	return &Service{roundDistance: roundDistance}
}

func (s *Service) Estimate(ctx context.Context, in PricingInput) (PricingResult, error) {
	if err := validate(in); err != nil {
		return PricingResult{}, err
	}
	if s.roundDistance {
		in.DistanceKm = RoundDistance(in.DistanceKm)
	}
	return Compute(in), nil
}

// RoundDistance rounds km to two decimal places from the exact binary value
// of km, so 4.005 (stored as 4.00499...) becomes 4.00.
func RoundDistance(km float64) float64 {
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return km
	}
	exact := decimal.RequireFromString(strconv.FormatFloat(km, 'f', 80, 64))
	return exact.Round(2).InexactFloat64()
}

func validate(in PricingInput) error {
	if !nonNegative(in.DistanceKm) {
		return ErrInvalidInput
	}
	// hours and weight are not part of the quote without buyer service
	if in.BuyerServiceRequested && (!nonNegative(in.Hours) || !nonNegative(in.WeightKg)) {
		return ErrInvalidInput
	}
	return nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
