// README: Redis client initialization for sessions and the geocode cache.
package infra

import (
    "context"
    "fmt"

    "github.com/redis/go-redis/v9"
)

func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
    rdb := redis.NewClient(&redis.Options{
        Addr:     addr,
        Password: password,
        DB:       db,
    })
    if err := rdb.Ping(ctx).Err(); err != nil {
        _ = rdb.Close()
        return nil, fmt.Errorf("redis ping %s: %w", addr, err)
    }
    return rdb, nil
}
