// README: Smoke and load runner against a running pabili API; prints PASS/FAIL per case.
package main

import (
    "context"
    "flag"
    "fmt"
    "os"
    "strings"
    "time"

    "github.com/caarlos0/env/v9"
)

func main() {
    cfg, err := loadConfig()
    if err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(2)
    }

    ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
    defer cancel()

    results := NewRunner(cfg).RunAll(ctx)

    fmt.Println("\n== Summary ==")
    pass, fail, skipped := 0, 0, 0
    for _, r := range results {
        switch r.Status {
        case statusPass:
            pass++
        case statusFail:
            fail++
        case statusSkip:
            skipped++
        }
    }
    fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

    if fail > 0 || (cfg.Strict && skipped > 0) {
        os.Exit(1)
    }
}

type Config struct {
    BaseURL     string        `env:"BASE_URL" envDefault:"http://localhost:8080"`
    DSN         string        `env:"DSN"`
    RedisAddr   string        `env:"REDIS_ADDR"`
    Token       string        `env:"TOKEN"`
    FromAddress string        `env:"FROM" envDefault:"14.5995,120.9842"`
    ToAddress   string        `env:"TO" envDefault:"14.6760,121.0437"`
    Strict      bool          `env:"STRICT" envDefault:"false"`
    Timeout     time.Duration `env:"TIMEOUT" envDefault:"60s"`
    Concurrency int           `env:"CONCURRENCY" envDefault:"20"`
    Duration    time.Duration `env:"DURATION" envDefault:"10s"`
}

// loadConfig reads PABILI_BENCH_* defaults, then lets flags override them.
func loadConfig() (Config, error) {
    var cfg Config
    if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "PABILI_BENCH_"}); err != nil {
        return Config{}, fmt.Errorf("parse config: %w", err)
    }
    flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "API base URL")
    flag.StringVar(&cfg.DSN, "dsn", cfg.DSN, "Postgres DSN (optional)")
    flag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address (optional)")
    flag.StringVar(&cfg.Token, "token", cfg.Token, "Firebase ID token when auth is enabled")
    flag.StringVar(&cfg.FromAddress, "from", cfg.FromAddress, "route start for the session case")
    flag.StringVar(&cfg.ToAddress, "to", cfg.ToAddress, "route destination for the session case")
    flag.BoolVar(&cfg.Strict, "strict", cfg.Strict, "fail on skipped cases")
    flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "total timeout")
    flag.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "workers for the load case")
    flag.DurationVar(&cfg.Duration, "duration", cfg.Duration, "duration of the load case")
    flag.Parse()
    cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
    return cfg, nil
}
