package maps

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"pabili/internal/types"
)

// RetryPolicy bounds upstream retries.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      2,
		InitialInterval: 300 * time.Millisecond,
		MaxElapsedTime:  5 * time.Second,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxElapsedTime = p.MaxElapsedTime
	return backoff.WithContext(backoff.WithMaxRetries(exp, p.MaxRetries), ctx)
}

type RetryingGeocoder struct {
	next   Geocoder
	policy RetryPolicy
	logger *zap.Logger
}

func NewRetryingGeocoder(next Geocoder, policy RetryPolicy, logger *zap.Logger) *RetryingGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingGeocoder{next: next, policy: policy, logger: logger}
}

func (g *RetryingGeocoder) Geocode(ctx context.Context, address string) (Place, error) {
	return retry(ctx, g.policy, g.logger, "geocode", func() (Place, error) {
		return g.next.Geocode(ctx, address)
	})
}

type RetryingRouter struct {
	next   Router
	policy RetryPolicy
	logger *zap.Logger
}

func NewRetryingRouter(next Router, policy RetryPolicy, logger *zap.Logger) *RetryingRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingRouter{next: next, policy: policy, logger: logger}
}

func (r *RetryingRouter) Route(ctx context.Context, from, to types.Point) (Route, error) {
	return retry(ctx, r.policy, r.logger, "route", func() (Route, error) {
		return r.next.Route(ctx, from, to)
	})
}

func retry[T any](ctx context.Context, policy RetryPolicy, logger *zap.Logger, op string, call func() (T, error)) (T, error) {
	var out T
	err := backoff.RetryNotify(func() error {
		v, err := call()
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = v
		return nil
	}, policy.backOff(ctx), func(err error, wait time.Duration) {
		logger.Warn("upstream call failed, retrying",
			zap.String("op", op), zap.Duration("wait", wait), zap.Error(err))
	})
	return out, err
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, ErrAddressNotFound), errors.Is(err, ErrNoRoute), errors.Is(err, ErrEmptyAddress):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.temporary()
	}
	return true
}
