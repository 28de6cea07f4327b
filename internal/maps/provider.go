package maps

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	ProviderOSM    = "osm"
	ProviderGoogle = "google"
)

// Options selects and decorates the geocoding and routing backends.
type Options struct {
	Provider     string
	NominatimURL string
	OSRMURL      string
	UserAgent    string
	GoogleAPIKey string
	Region       string
	Timeout      time.Duration
	Retry        RetryPolicy
	// Cache is optional; lookups are not cached without it.
	Cache    Cache
	CacheTTL time.Duration
	Fallback bool
	Logger   *zap.Logger
}

// Build returns the decorated Geocoder and Router for opts. Cache hits skip
// retries; the straight-line fallback only sees failures that survived them.
func Build(opts Options) (Geocoder, Router, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		geocoder Geocoder
		router   Router
	)
	switch opts.Provider {
	case ProviderOSM, "":
		client := &http.Client{Timeout: opts.Timeout}
		geocoder = NewNominatimGeocoder(opts.NominatimURL, opts.UserAgent, client)
		router = NewOSRMRouter(opts.OSRMURL, client)
	case ProviderGoogle:
		svc, err := NewGoogleService(opts.GoogleAPIKey, opts.Region)
		if err != nil {
			return nil, nil, err
		}
		geocoder, router = svc, svc
	default:
		return nil, nil, fmt.Errorf("unknown maps provider %q", opts.Provider)
	}

	geocoder = NewRetryingGeocoder(geocoder, opts.Retry, logger)
	router = NewRetryingRouter(router, opts.Retry, logger)
	if opts.Cache != nil {
		geocoder = NewCachedGeocoder(geocoder, opts.Cache, opts.CacheTTL, logger)
	}
	if opts.Fallback {
		router = NewFallbackRouter(router, logger)
	}
	return geocoder, router, nil
}
