// README: Quote handlers; stateless pricing and stored quote lookup.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pabili/internal/modules/pricing"
	"pabili/internal/modules/quote"
)

type QuoteHandler struct {
	quotes *quote.Service
}

func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{quotes: svc}
}

type createQuoteReq struct {
	DistanceKm            *float64 `json:"distance_km" binding:"required,gte=0"`
	BuyerServiceRequested bool     `json:"buyer_service_requested"`
	Hours                 float64  `json:"hours" binding:"gte=0"`
	WeightKg              float64  `json:"weight_kg" binding:"gte=0"`
}

// Create handles POST /api/quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req createQuoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	q, err := h.quotes.Create(c.Request.Context(), quote.CreateCommand{
		Input: pricing.PricingInput{
			DistanceKm:            *req.DistanceKm,
			BuyerServiceRequested: req.BuyerServiceRequested,
			Hours:                 req.Hours,
			WeightKg:              req.WeightKg,
		},
	})
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, q)
}

// Get handles GET /api/quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, err := h.quotes.Get(c.Request.Context(), id)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, q)
}
