// README: Pricing tariff, calculator input and itemized result.
package pricing

import "pabili/internal/types"

// Tariff holds the fixed rates of the delivery formula.
type Tariff struct {
	BasePrice   float64
	IncludedKm  float64
	PerKm       float64
	BuyerRate   float64
	MaxWeightKg float64
	ExtraKgRate float64
	Currency    string
}

// DefaultTariff returns the rates every quote is computed with.
func DefaultTariff() Tariff {
	return Tariff{
		BasePrice:   60,
		IncludedKm:  4,
		PerKm:       15,
		BuyerRate:   60,
		MaxWeightKg: 7,
		ExtraKgRate: 10,
		Currency:    types.CurrencyPHP,
	}
}

type PricingInput struct {
	DistanceKm            float64 `json:"distance_km"`
	BuyerServiceRequested bool    `json:"buyer_service_requested"`
	Hours                 float64 `json:"hours"`
	WeightKg              float64 `json:"weight_kg"`
}

type PricingResult struct {
	BasePrice         float64 `json:"base_price"`
	ExtraDistanceKm   float64 `json:"extra_distance_km"`
	ExtraDistanceCost float64 `json:"extra_distance_cost"`
	DeliveryCost      float64 `json:"delivery_cost"`
	BuyerCost         float64 `json:"buyer_cost"`
	OverweightKg      float64 `json:"overweight_kg"`
	OverweightCost    float64 `json:"overweight_cost"`
	TotalCost         float64 `json:"total_cost"`
	IsOverweight      bool    `json:"is_overweight"`
	Currency          string  `json:"currency"`
}

func (r PricingResult) Total() types.Money {
	return types.Money{Amount: r.TotalCost, Currency: r.Currency}
}
