// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pabili/internal/maps"
	"pabili/internal/modules/quote"
	"pabili/internal/modules/session"
	"pabili/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts the UUIDs issued for sessions and quotes.
func isValidID(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}

func pathID(c *gin.Context) (types.ID, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid id")
		return "", false
	}
	return types.ID(id), true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	writeError(c, http.StatusInternalServerError, "internal error")
}

func writeQuoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quote.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, quote.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeInternal(c, err)
	}
}

func writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrDestinationRequired),
		errors.Is(err, session.ErrStartRequired),
		errors.Is(err, session.ErrLocationUnavailable):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrStartNotFound),
		errors.Is(err, session.ErrDestinationNotFound),
		errors.Is(err, session.ErrRouteNotFound),
		errors.Is(err, session.ErrNoRoute):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, session.ErrSessionChanged):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrUpstream):
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, session.ErrUpstream.Error())
	default:
		writeQuoteError(c, err)
	}
}

func writeMapsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, maps.ErrEmptyAddress):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, maps.ErrAddressNotFound), errors.Is(err, maps.ErrNoRoute):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, session.ErrUpstream.Error())
	}
}
