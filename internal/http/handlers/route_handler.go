// README: Session-less route lookup between two addresses.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pabili/internal/maps"
	"pabili/internal/modules/pricing"
)

type RouteHandler struct {
	geocoder      maps.Geocoder
	router        maps.Router
	roundDistance bool
	timeout       time.Duration
}

func NewRouteHandler(geocoder maps.Geocoder, router maps.Router, roundDistance bool, timeout time.Duration) *RouteHandler {
	return &RouteHandler{geocoder: geocoder, router: router, roundDistance: roundDistance, timeout: timeout}
}

type routeReq struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type routeResp struct {
	From       maps.Place `json:"from"`
	To         maps.Place `json:"to"`
	Route      maps.Route `json:"route"`
	DistanceKm float64    `json:"distance_km"`
}

// Lookup handles POST /api/routes.
func (h *RouteHandler) Lookup(c *gin.Context) {
	var req routeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "from and to are required")
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	fromCh := maps.Resolve(ctx, h.geocoder, req.From)
	toCh := maps.Resolve(ctx, h.geocoder, req.To)
	from, to := maps.Await(ctx, fromCh), maps.Await(ctx, toCh)
	for _, r := range []maps.Resolution{from, to} {
		if r.Err != nil {
			writeMapsError(c, r.Err)
			return
		}
	}

	route, err := h.router.Route(ctx, from.Place.Point, to.Place.Point)
	if err != nil {
		writeMapsError(c, err)
		return
	}
	km := route.DistanceKm()
	if h.roundDistance {
		km = pricing.RoundDistance(km)
	}
	writeJSON(c, http.StatusOK, routeResp{From: from.Place, To: to.Place, Route: route, DistanceKm: km})
}
