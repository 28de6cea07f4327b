package maps

import (
	"testing"
	"time"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name         string
		opts         Options
		wantErr      bool
		wantCached   bool
		wantFallback bool
	}{
		{name: "osm defaults", opts: Options{Provider: ProviderOSM}},
		{name: "empty provider is osm", opts: Options{}},
		{name: "cached with fallback", opts: Options{Provider: ProviderOSM, Cache: newMapCache(), CacheTTL: time.Hour, Fallback: true}, wantCached: true, wantFallback: true},
		{name: "google", opts: Options{Provider: ProviderGoogle, GoogleAPIKey: "test-key", Region: "ph"}},
		{name: "google without key", opts: Options{Provider: ProviderGoogle}, wantErr: true},
		{name: "unknown", opts: Options{Provider: "bing"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, r, err := Build(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if _, ok := g.(*CachedGeocoder); ok != tt.wantCached {
				t.Errorf("geocoder %T, cached = %v", g, ok)
			}
			if _, ok := r.(*FallbackRouter); ok != tt.wantFallback {
				t.Errorf("router %T, fallback = %v", r, ok)
			}
		})
	}
}
