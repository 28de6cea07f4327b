// README: HTTP router registration.
package http

import (
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "go.uber.org/zap"

    "pabili/internal/http/handlers"
    "pabili/internal/http/middleware"
    "pabili/internal/infra"
    "pabili/internal/maps"
    "pabili/internal/modules/quote"
    "pabili/internal/modules/session"
    "pabili/internal/service"
)

type RouterDeps struct {
    Quotes   *quote.Service
    Sessions *session.Service
    Hub      *session.Hub
    Geocoder maps.Geocoder
    Router   maps.Router
    // Planner is nil when no Gemini key is configured.
    Planner *service.QuotePlanner
    // Verifier is nil when auth is disabled.
    Verifier       infra.TokenVerifier
    RoundDistance  bool
    RequestTimeout time.Duration
    Logger         *zap.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
    logger := d.Logger
    if logger == nil {
        logger = zap.NewNop()
    }

    r := gin.New()
    r.Use(middleware.Logging(logger), middleware.Recovery(logger))

    r.GET("/health", func(c *gin.Context) {
        c.String(http.StatusOK, "OK")
    })

    api := r.Group("/api")
    if d.Verifier != nil {
        api.Use(middleware.Auth(d.Verifier))
    }

    quoteHandler := handlers.NewQuoteHandler(d.Quotes)
    api.POST("/quotes", quoteHandler.Create)
    api.GET("/quotes/:id", quoteHandler.Get)

    routeHandler := handlers.NewRouteHandler(d.Geocoder, d.Router, d.RoundDistance, d.RequestTimeout)
    api.POST("/routes", routeHandler.Lookup)

    sessionHandler := handlers.NewSessionHandler(d.Sessions, d.Quotes, d.RequestTimeout)
    api.POST("/sessions", sessionHandler.Create)
    api.GET("/sessions/:id", sessionHandler.Get)
    api.DELETE("/sessions/:id", sessionHandler.Delete)
    api.POST("/sessions/:id/route", sessionHandler.FindRoute)
    api.POST("/sessions/:id/price", sessionHandler.Price)
    api.GET("/sessions/:id/quotes", sessionHandler.ListQuotes)

    if d.Planner != nil {
        aiHandler := handlers.NewAIHandler(d.Planner)
        api.POST("/sessions/:id/assistant", aiHandler.Assist)
    }

    eventsHandler := handlers.NewEventsHandler(d.Sessions, d.Hub, logger)
    r.GET("/ws/sessions/:id", eventsHandler.Stream)

    return r
}
