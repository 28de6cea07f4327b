package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Receipt renders the itemized lines shown to a customer for a computed quote.
func Receipt(in PricingInput, r PricingResult) []string {
	t := DefaultTariff()
	lines := []string{
		"Delivery Cost:",
		"Base Price: " + peso(r.BasePrice, 0),
	}
	if r.ExtraDistanceKm > 0 {
		lines = append(lines, fmt.Sprintf("Extra %s km × %s = %s",
			fixed(r.ExtraDistanceKm, 2), peso(t.PerKm, 0), peso(r.ExtraDistanceCost, 2)))
	}
	if in.BuyerServiceRequested {
		lines = append(lines,
			"Buyer Service:",
			fmt.Sprintf("%s hour(s) × %s = %s", plain(in.Hours), peso(t.BuyerRate, 0), peso(r.BuyerCost, 2)),
			fmt.Sprintf("Weight: %s kg", plain(in.WeightKg)),
		)
	}
	if r.IsOverweight {
		lines = append(lines, fmt.Sprintf("Over %s kg limit: %s kg × %s = %s",
			plain(t.MaxWeightKg), fixed(r.OverweightKg, 2), peso(t.ExtraKgRate, 0), peso(r.OverweightCost, 2)))
	}
	lines = append(lines, "Total Price: "+peso(r.TotalCost, 2))
	return lines
}

func peso(v float64, places int32) string {
	return "₱" + fixed(v, places)
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func plain(v float64) string {
	return decimal.NewFromFloat(v).String()
}
