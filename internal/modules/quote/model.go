// README: Quote model; a priced delivery request, optionally tied to a session.
package quote

import (
	"time"

	"pabili/internal/modules/pricing"
	"pabili/internal/types"
)

type Quote struct {
	ID        types.ID              `json:"id"`
	SessionID *types.ID             `json:"session_id,omitempty"`
	Input     pricing.PricingInput  `json:"input"`
	Result    pricing.PricingResult `json:"result"`
	Receipt   []string              `json:"receipt"`
	Persisted bool                  `json:"persisted"`
	CreatedAt time.Time             `json:"created_at"`
}
