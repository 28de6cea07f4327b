package pricing

import "math"

// Compute applies the default tariff to in. It is total over non-negative
// inputs; hours and weight are ignored unless buyer service is requested.
func Compute(in PricingInput) PricingResult {
	return DefaultTariff().apply(in)
}

func (t Tariff) apply(in PricingInput) PricingResult {
	extraKm := math.Max(0, in.DistanceKm-t.IncludedKm)
	extraCost := extraKm * t.PerKm
	delivery := t.BasePrice + extraCost

	var buyerCost, overweightKg float64
	if in.BuyerServiceRequested {
		buyerCost = in.Hours * t.BuyerRate
		if in.WeightKg > t.MaxWeightKg {
			overweightKg = in.WeightKg - t.MaxWeightKg
		}
	}
	overweightCost := overweightKg * t.ExtraKgRate

	return PricingResult{
		BasePrice:         t.BasePrice,
		ExtraDistanceKm:   extraKm,
		ExtraDistanceCost: extraCost,
		DeliveryCost:      delivery,
		BuyerCost:         buyerCost,
		OverweightKg:      overweightKg,
		OverweightCost:    overweightCost,
		TotalCost:         delivery + buyerCost + overweightCost,
		IsOverweight:      overweightKg > 0,
		Currency:          t.Currency,
	}
}
