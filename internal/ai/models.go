package ai

import "strings"

const (
	IntentQuote         = "quote"
	IntentClarification = "clarification"
	IntentChat          = "chat"
)

// DeliveryIntent captures the structured output from the AI model.
type DeliveryIntent struct {
	// Intent is one of IntentQuote, IntentClarification or IntentChat.
	Intent string `json:"intent"`

	// StartAddress is where the rider picks up. Nil with UseMyLocation set
	// means the device position.
	StartAddress  *string `json:"start_address,omitempty"`
	UseMyLocation bool    `json:"use_my_location"`

	Destination *string `json:"destination,omitempty"`

	// BuyerService is set when the customer wants the rider to shop for them.
	BuyerService bool    `json:"buyer_service"`
	Hours        float64 `json:"hours"`
	WeightKg     float64 `json:"weight_kg"`

	Reply string `json:"reply"`
}

// Complete reports whether the intent carries enough to price a delivery.
func (i *DeliveryIntent) Complete() bool {
	if i.Intent != IntentQuote {
		return false
	}
	if i.Destination == nil || strings.TrimSpace(*i.Destination) == "" {
		return false
	}
	if !i.UseMyLocation && (i.StartAddress == nil || strings.TrimSpace(*i.StartAddress) == "") {
		return false
	}
	return true
}
