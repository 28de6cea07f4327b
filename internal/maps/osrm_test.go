package maps

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"pabili/internal/types"
)

func TestOSRMRouter_Route(t *testing.T) {
	from := types.Point{Lat: 15.3062, Lng: 120.8573}
	to := types.Point{Lat: 15.2, Lng: 120.9}

	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantKm   float64
		wantLine string
	}{
		{
			name:     "ok",
			status:   http.StatusOK,
			body:     `{"code":"Ok","routes":[{"distance":12345.6,"duration":900,"geometry":"abc"}]}`,
			wantKm:   12.3456,
			wantLine: "abc",
		},
		{
			name:    "no route",
			status:  http.StatusBadRequest,
			body:    `{"code":"NoRoute","message":"Impossible route between points"}`,
			wantErr: ErrNoRoute,
		},
		{
			name:    "ok without routes",
			status:  http.StatusOK,
			body:    `{"code":"Ok","routes":[]}`,
			wantErr: ErrNoRoute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				want := "/driving/120.857300,15.306200;120.900000,15.200000"
				if r.URL.Path != want {
					t.Errorf("path = %s, want %s", r.URL.Path, want)
				}
				if r.URL.Query().Get("overview") != "full" {
					t.Errorf("unexpected query %s", r.URL.RawQuery)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			r := NewOSRMRouter(srv.URL, srv.Client())
			got, err := r.Route(context.Background(), from, to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Route() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if math.Abs(got.DistanceKm()-tt.wantKm) > 1e-9 {
				t.Errorf("DistanceKm() = %v, want %v", got.DistanceKm(), tt.wantKm)
			}
			if got.Polyline != tt.wantLine {
				t.Errorf("Polyline = %q", got.Polyline)
			}
		})
	}
}
