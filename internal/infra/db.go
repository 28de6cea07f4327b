// README: Postgres connection pool initialization using pgxpool.
package infra

import (
    "context"
    "fmt"
    "time"

    "github.com/cenkalti/backoff/v4"
    "github.com/jackc/pgx/v5/pgxpool"
    "go.uber.org/zap"
)

// NewDB opens a pool and waits for the database to answer a ping.
func NewDB(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
    pool, err := pgxpool.New(ctx, dsn)
    if err != nil {
        return nil, fmt.Errorf("pgxpool.New: %w", err)
    }

    policy := backoff.NewExponentialBackOff()
    policy.MaxElapsedTime = 30 * time.Second
    policy.MaxInterval = 5 * time.Second

    err = backoff.RetryNotify(func() error {
        return pool.Ping(ctx)
    }, backoff.WithContext(policy, ctx), func(err error, wait time.Duration) {
        logger.Warn("postgres not ready, retrying", zap.Error(err), zap.Duration("next_attempt_in", wait))
    })
    if err != nil {
        pool.Close()
        return nil, fmt.Errorf("postgres ping: %w", err)
    }
    return pool, nil
}
