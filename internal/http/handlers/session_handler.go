// README: Session handlers; route finding and pricing on a caller-owned session.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pabili/internal/modules/quote"
	"pabili/internal/modules/session"
	"pabili/internal/types"
)

type SessionHandler struct {
	sessions *session.Service
	quotes   *quote.Service
	timeout  time.Duration
}

func NewSessionHandler(sessions *session.Service, quotes *quote.Service, timeout time.Duration) *SessionHandler {
	return &SessionHandler{sessions: sessions, quotes: quotes, timeout: timeout}
}

type findRouteReq struct {
	Destination   string       `json:"destination"`
	StartAddress  string       `json:"start_address"`
	UseMyLocation bool         `json:"use_my_location"`
	Location      *types.Point `json:"location"`
}

type priceReq struct {
	BuyerServiceRequested bool    `json:"buyer_service_requested"`
	Hours                 float64 `json:"hours" binding:"gte=0"`
	WeightKg              float64 `json:"weight_kg" binding:"gte=0"`
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	sess, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, sess)
}

// Get handles GET /api/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sess, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sess)
}

// Delete handles DELETE /api/sessions/:id.
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
		writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FindRoute handles POST /api/sessions/:id/route.
func (h *SessionHandler) FindRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req findRouteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	sess, err := h.sessions.FindRoute(ctx, id, session.RouteCommand{
		Destination:   req.Destination,
		StartAddress:  req.StartAddress,
		UseMyLocation: req.UseMyLocation,
		StartPoint:    req.Location,
	})
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sess)
}

// Price handles POST /api/sessions/:id/price.
func (h *SessionHandler) Price(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req priceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	q, err := h.sessions.Price(c.Request.Context(), id, session.BuyerOptions{
		Requested: req.BuyerServiceRequested,
		Hours:     req.Hours,
		WeightKg:  req.WeightKg,
	})
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, q)
}

// ListQuotes handles GET /api/sessions/:id/quotes?limit=N.
func (h *SessionHandler) ListQuotes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	quotes, err := h.quotes.ListBySession(c.Request.Context(), id, limit)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"quotes": quotes})
}
