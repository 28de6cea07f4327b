package maps

import (
	"context"
	"errors"
	"testing"
	"time"

	"pabili/internal/types"
)

type mapCache struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	b, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return b, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

type countingGeocoder struct {
	place Place
	err   error
	calls int
}

func (g *countingGeocoder) Geocode(_ context.Context, _ string) (Place, error) {
	g.calls++
	return g.place, g.err
}

func TestCachedGeocoder(t *testing.T) {
	ctx := context.Background()
	next := &countingGeocoder{place: Place{Point: types.Point{Lat: 15.1, Lng: 120.6}, Label: "Clark"}}
	cache := newMapCache()
	g := NewCachedGeocoder(next, cache, time.Hour, nil)

	first, err := g.Geocode(ctx, "Clark Freeport")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := g.Geocode(ctx, "  clark   FREEPORT ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", next.calls)
	}
	if first != second {
		t.Errorf("cached place %+v differs from %+v", second, first)
	}
	if ttl := cache.ttls["geocode:clark freeport"]; ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}
}

func TestCachedGeocoder_MissesAreNotCached(t *testing.T) {
	next := &countingGeocoder{err: ErrAddressNotFound}
	cache := newMapCache()
	g := NewCachedGeocoder(next, cache, time.Hour, nil)

	for i := 0; i < 2; i++ {
		if _, err := g.Geocode(context.Background(), "nowhere"); !errors.Is(err, ErrAddressNotFound) {
			t.Fatalf("expected ErrAddressNotFound, got %v", err)
		}
	}
	if next.calls != 2 {
		t.Errorf("upstream calls = %d, want 2", next.calls)
	}
	if len(cache.data) != 0 {
		t.Errorf("cache should stay empty, has %d entries", len(cache.data))
	}
}

func TestCachedGeocoder_CacheErrorFallsThrough(t *testing.T) {
	next := &countingGeocoder{place: Place{Label: "ok"}}
	cache := newMapCache()
	cache.getErr = errors.New("redis down")
	g := NewCachedGeocoder(next, cache, time.Minute, nil)

	got, err := g.Geocode(context.Background(), "somewhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != "ok" || next.calls != 1 {
		t.Errorf("got %+v after %d calls", got, next.calls)
	}
}

func TestGeocodeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Manila", "geocode:manila"},
		{"  Quezon   City ", "geocode:quezon city"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := geocodeKey(tt.in); got != tt.want {
			t.Errorf("geocodeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
