package ai

import (
	"context"
)

// LLMProvider turns a customer's free-text delivery request into a
// structured intent.
type LLMProvider interface {
	// ParseDeliveryRequest reads message against currentContext, which carries
	// keys such as "current_time", "user_location" and "known_route".
	ParseDeliveryRequest(ctx context.Context, message string, currentContext map[string]string) (*DeliveryIntent, error)
}
