// README: Assistant handler; natural-language quotes through the planner.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pabili/internal/modules/quote"
	"pabili/internal/service"
	"pabili/internal/types"
)

type AIHandler struct {
	planner *service.QuotePlanner
}

func NewAIHandler(planner *service.QuotePlanner) *AIHandler {
	return &AIHandler{planner: planner}
}

type assistantReq struct {
	Message  string       `json:"message"`
	Location *types.Point `json:"location"`
}

// Assist handles POST /api/sessions/:id/assistant.
func (h *AIHandler) Assist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req assistantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}
	if req.Location != nil && !req.Location.Valid() {
		writeError(c, http.StatusBadRequest, "invalid location")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
	defer cancel()

	res, err := h.planner.Plan(ctx, id, req.Message, req.Location)
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrBadRequest):
			writeError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			writeError(c, http.StatusGatewayTimeout, "assistant timed out")
		case errors.Is(err, service.ErrAssistantUnavailable):
			_ = c.Error(err)
			writeError(c, http.StatusBadGateway, service.ErrAssistantUnavailable.Error())
		default:
			writeSessionError(c, err)
		}
		return
	}
	writeJSON(c, http.StatusOK, res)
}
