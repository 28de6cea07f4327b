package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apihttp "pabili/internal/http"
	"pabili/internal/infra"
	"pabili/internal/maps"
	"pabili/internal/modules/pricing"
	"pabili/internal/modules/quote"
	"pabili/internal/modules/session"
	"pabili/internal/types"
)

type rejectAll struct{}

func (rejectAll) VerifyIDToken(context.Context, string) (*infra.Caller, error) {
	return nil, errors.New("invalid")
}

type noGeocoder struct{}

func (noGeocoder) Geocode(context.Context, string) (maps.Place, error) {
	return maps.Place{}, maps.ErrAddressNotFound
}

type noRouter struct{}

func (noRouter) Route(context.Context, types.Point, types.Point) (maps.Route, error) {
	return maps.Route{}, maps.ErrNoRoute
}

func newRouter(verifier infra.TokenVerifier) http.Handler {
	gin.SetMode(gin.TestMode)
	quotes := quote.NewService(nil, pricing.NewService(true), nil)
	hub := session.NewHub()
	sessions := session.NewService(session.Deps{
		Store:    session.NewMemoryStore(time.Hour),
		Geocoder: noGeocoder{},
		Router:   noRouter{},
		Quotes:   quotes,
		Events:   hub,
	})
	engine := apihttp.NewRouter(apihttp.RouterDeps{
		Quotes:         quotes,
		Sessions:       sessions,
		Hub:            hub,
		Geocoder:       noGeocoder{},
		Router:         noRouter{},
		Verifier:       verifier,
		RoundDistance:  true,
		RequestTimeout: time.Second,
	})
	return apihttp.NewServer(":0", engine, []string{"https://pabili.example"}, time.Second, nil).Handler()
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name     string
		verifier infra.TokenVerifier
		method   string
		path     string
		wantCode int
	}{
		{"health", nil, http.MethodGet, "/health", http.StatusOK},
		{"health skips auth", rejectAll{}, http.MethodGet, "/health", http.StatusOK},
		{"api open without verifier", nil, http.MethodPost, "/api/sessions", http.StatusCreated},
		{"api guarded with verifier", rejectAll{}, http.MethodPost, "/api/sessions", http.StatusUnauthorized},
		{"assistant absent without planner", nil, http.MethodPost, "/api/sessions/00000000-0000-0000-0000-000000000000/assistant", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newRouter(tt.verifier).ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/quotes", nil)
	req.Header.Set("Origin", "https://pabili.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	newRouter(nil).ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://pabili.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
