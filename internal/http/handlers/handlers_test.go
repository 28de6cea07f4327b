// README: Handler tests over an in-memory session store and stub map services.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pabili/internal/http/handlers"
	"pabili/internal/maps"
	"pabili/internal/modules/pricing"
	"pabili/internal/modules/quote"
	"pabili/internal/modules/session"
	"pabili/internal/types"
)

type stubGeocoder struct {
	places map[string]types.Point
	err    error
}

func (g *stubGeocoder) Geocode(_ context.Context, address string) (maps.Place, error) {
	if g.err != nil {
		return maps.Place{}, g.err
	}
	p, ok := g.places[address]
	if !ok {
		return maps.Place{}, maps.ErrAddressNotFound
	}
	return maps.Place{Point: p, Label: address}, nil
}

type stubRouter struct {
	km  float64
	err error
}

func (r *stubRouter) Route(_ context.Context, _, _ types.Point) (maps.Route, error) {
	if r.err != nil {
		return maps.Route{}, r.err
	}
	return maps.Route{DistanceMeters: r.km * 1000, DurationSeconds: 900}, nil
}

type testEnv struct {
	engine   *gin.Engine
	geocoder *stubGeocoder
	router   *stubRouter
	hub      *session.Hub
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		geocoder: &stubGeocoder{places: map[string]types.Point{
			"Malolos":    {Lat: 14.8433, Lng: 120.8114},
			"Meycauayan": {Lat: 14.7346, Lng: 120.9570},
		}},
		router: &stubRouter{km: 18.004},
		hub:    session.NewHub(),
	}
	quotes := quote.NewService(nil, pricing.NewService(true), nil)
	sessions := session.NewService(session.Deps{
		Store:         session.NewMemoryStore(time.Hour),
		Geocoder:      env.geocoder,
		Router:        env.router,
		Quotes:        quotes,
		Events:        env.hub,
		RoundDistance: true,
	})

	r := gin.New()
	qh := handlers.NewQuoteHandler(quotes)
	r.POST("/api/quotes", qh.Create)
	r.GET("/api/quotes/:id", qh.Get)
	rh := handlers.NewRouteHandler(env.geocoder, env.router, true, time.Second)
	r.POST("/api/routes", rh.Lookup)
	sh := handlers.NewSessionHandler(sessions, quotes, time.Second)
	r.POST("/api/sessions", sh.Create)
	r.GET("/api/sessions/:id", sh.Get)
	r.DELETE("/api/sessions/:id", sh.Delete)
	r.POST("/api/sessions/:id/route", sh.FindRoute)
	r.POST("/api/sessions/:id/price", sh.Price)
	r.GET("/api/sessions/:id/quotes", sh.ListQuotes)
	eh := handlers.NewEventsHandler(sessions, env.hub, nil)
	r.GET("/ws/sessions/:id", eh.Stream)
	env.engine = r
	return env
}

func doRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func createSession(t *testing.T, env *testEnv) types.ID {
	t.Helper()
	w := doRequest(env.engine, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: %d %s", w.Code, w.Body.String())
	}
	return decode[session.Session](t, w).ID
}

func TestCreateQuote(t *testing.T) {
	env := newTestEnv()
	tests := []struct {
		name      string
		body      any
		wantCode  int
		wantTotal float64
	}{
		{"scenario 1", map[string]any{"distance_km": 3}, http.StatusCreated, 60},
		{"scenario 2", map[string]any{"distance_km": 10}, http.StatusCreated, 150},
		{"scenario 3", map[string]any{"distance_km": 10, "buyer_service_requested": true, "hours": 2, "weight_kg": 5}, http.StatusCreated, 270},
		{"scenario 4", map[string]any{"distance_km": 10, "buyer_service_requested": true, "hours": 1, "weight_kg": 10}, http.StatusCreated, 240},
		{"missing distance", map[string]any{"hours": 1}, http.StatusBadRequest, 0},
		{"negative distance", map[string]any{"distance_km": -2}, http.StatusBadRequest, 0},
		{"negative hours", map[string]any{"distance_km": 2, "hours": -1}, http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(env.engine, http.MethodPost, "/api/quotes", tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantCode != http.StatusCreated {
				return
			}
			q := decode[quote.Quote](t, w)
			if q.Result.TotalCost != tt.wantTotal {
				t.Errorf("total = %v, want %v", q.Result.TotalCost, tt.wantTotal)
			}
			if q.Persisted {
				t.Error("no store configured, quote must not be persisted")
			}
		})
	}
}

func TestGetQuote_NotPersisted(t *testing.T) {
	env := newTestEnv()
	if w := doRequest(env.engine, http.MethodGet, "/api/quotes/"+uuid.NewString(), nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w := doRequest(env.engine, http.MethodGet, "/api/quotes/not-a-uuid", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRouteLookup(t *testing.T) {
	env := newTestEnv()

	w := doRequest(env.engine, http.MethodPost, "/api/routes", map[string]any{"from": "Malolos", "to": "Meycauayan"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[map[string]any](t, w)
	if resp["distance_km"] != 18.0 {
		t.Errorf("distance_km = %v, want 18", resp["distance_km"])
	}

	if w := doRequest(env.engine, http.MethodPost, "/api/routes", map[string]any{"from": "Malolos"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing to: expected 400, got %d", w.Code)
	}
	if w := doRequest(env.engine, http.MethodPost, "/api/routes", map[string]any{"from": "Malolos", "to": "Atlantis"}); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown address: expected 422, got %d", w.Code)
	}

	env.router.err = errors.New("osrm down")
	if w := doRequest(env.engine, http.MethodPost, "/api/routes", map[string]any{"from": "Malolos", "to": "Meycauayan"}); w.Code != http.StatusBadGateway {
		t.Errorf("router failure: expected 502, got %d", w.Code)
	}
}

func TestSessionFlow(t *testing.T) {
	env := newTestEnv()
	id := createSession(t, env)
	base := "/api/sessions/" + string(id)

	if w := doRequest(env.engine, http.MethodPost, base+"/price", map[string]any{}); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("price without route: expected 422, got %d", w.Code)
	}

	w := doRequest(env.engine, http.MethodPost, base+"/route", map[string]any{
		"start_address": "Malolos",
		"destination":   "Meycauayan",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("route: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	sess := decode[session.Session](t, w)
	if sess.DistanceKm != 18 {
		t.Errorf("DistanceKm = %v, want 18", sess.DistanceKm)
	}

	w = doRequest(env.engine, http.MethodPost, base+"/price", map[string]any{
		"buyer_service_requested": true,
		"hours":                   1.5,
		"weight_kg":               7.5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("price: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	q := decode[quote.Quote](t, w)
	// 60 + 14*15 + 1.5*60 + 0.5*10
	if q.Result.TotalCost != 365 {
		t.Errorf("TotalCost = %v, want 365", q.Result.TotalCost)
	}
	if !q.Result.IsOverweight {
		t.Error("7.5 kg should be overweight")
	}

	w = doRequest(env.engine, http.MethodGet, base, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if got := decode[session.Session](t, w); got.LastQuote == nil || got.LastQuote.ID != q.ID {
		t.Errorf("LastQuote = %+v", got.LastQuote)
	}

	if w := doRequest(env.engine, http.MethodGet, base+"/quotes?limit=abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit: expected 400, got %d", w.Code)
	}
	if w := doRequest(env.engine, http.MethodGet, base+"/quotes", nil); w.Code != http.StatusOK {
		t.Errorf("list: expected 200, got %d", w.Code)
	}

	if w := doRequest(env.engine, http.MethodDelete, base, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", w.Code)
	}
	if w := doRequest(env.engine, http.MethodGet, base, nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", w.Code)
	}
}

func TestFindRoute_ErrorMapping(t *testing.T) {
	here := map[string]float64{"lat": 14.8, "lng": 120.8}
	tests := []struct {
		name     string
		body     map[string]any
		setup    func(env *testEnv)
		wantCode int
	}{
		{"no destination", map[string]any{"start_address": "Malolos"}, nil, http.StatusBadRequest},
		{"no start", map[string]any{"destination": "Malolos"}, nil, http.StatusBadRequest},
		{"my location missing", map[string]any{"destination": "Malolos", "use_my_location": true}, nil, http.StatusBadRequest},
		{"my location ok", map[string]any{"destination": "Malolos", "use_my_location": true, "location": here}, nil, http.StatusOK},
		{"start unknown", map[string]any{"destination": "Malolos", "start_address": "Atlantis"}, nil, http.StatusUnprocessableEntity},
		{"no route", map[string]any{"destination": "Malolos", "start_address": "Meycauayan"}, func(env *testEnv) { env.router.err = maps.ErrNoRoute }, http.StatusUnprocessableEntity},
		{"geocoder down", map[string]any{"destination": "Malolos", "start_address": "Meycauayan"}, func(env *testEnv) { env.geocoder.err = errors.New("503") }, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			if tt.setup != nil {
				tt.setup(env)
			}
			id := createSession(t, env)
			w := doRequest(env.engine, http.MethodPost, "/api/sessions/"+string(id)+"/route", tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestSessionNotFound(t *testing.T) {
	env := newTestEnv()
	path := "/api/sessions/" + uuid.NewString()
	if w := doRequest(env.engine, http.MethodGet, path, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w := doRequest(env.engine, http.MethodPost, path+"/route", map[string]any{"destination": "x", "start_address": "y"}); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestEventStream(t *testing.T) {
	env := newTestEnv()
	id := createSession(t, env)

	srv := httptest.NewServer(env.engine)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/sessions/" + string(id)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.Subscribers(id) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w := doRequest(env.engine, http.MethodPost, "/api/sessions/"+string(id)+"/route", map[string]any{
		"start_address": "Malolos",
		"destination":   "Meycauayan",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("route: %d %s", w.Code, w.Body.String())
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev session.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Type != session.EventRouteFound || ev.SessionID != id || ev.DistanceKm != 18 {
		t.Errorf("event = %+v", ev)
	}
}

func TestEventStream_UnknownSession(t *testing.T) {
	env := newTestEnv()
	w := doRequest(env.engine, http.MethodGet, "/ws/sessions/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
