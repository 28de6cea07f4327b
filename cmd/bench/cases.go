// README: Bench cases: dependency checks, quote scenarios, session flow, quote throughput.
package main

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "math"
    "net/http"
    "sync"
    "sync/atomic"
    "time"

    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/redis/go-redis/v9"
)

const (
    statusPass = "PASS"
    statusFail = "FAIL"
    statusSkip = "SKIP"
)

type Runner struct {
    cfg   Config
    httpc *http.Client
    db    *pgxpool.Pool
    redis *redis.Client
}

type Result struct {
    Status  string
    Latency time.Duration
    Note    string
}

type TestCase struct {
    Name string
    Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
    return &Runner{
        cfg:   cfg,
        httpc: &http.Client{Timeout: 30 * time.Second},
    }
}

func (r *Runner) RunAll(ctx context.Context) []Result {
    if r.cfg.DSN != "" {
        if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
            r.db = db
            defer db.Close()
        }
    }
    if r.cfg.RedisAddr != "" {
        r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
        defer r.redis.Close()
    }

    tests := r.cases()
    results := make([]Result, 0, len(tests))
    for _, tc := range tests {
        res := tc.Run(ctx, r)
        results = append(results, res)
        fmt.Printf("%-5s %s", res.Status, tc.Name)
        if res.Latency > 0 {
            fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
        }
        if res.Note != "" {
            fmt.Printf(" - %s", res.Note)
        }
        fmt.Println()
    }
    return results
}

func (r *Runner) cases() []TestCase {
    return []TestCase{
        {Name: "Env: Postgres quotes table", Run: checkQuotesTable},
        {Name: "Env: Redis ping", Run: checkRedis},
        {Name: "API: health", Run: func(ctx context.Context, r *Runner) Result {
            status, _, latency, err := r.do(ctx, http.MethodGet, "/health", nil)
            return expectStatus(status, latency, err, http.StatusOK)
        }},
        quoteCase("Quote: 3 km, no buyer", map[string]any{"distance_km": 3}, 60),
        quoteCase("Quote: 10 km, no buyer", map[string]any{"distance_km": 10}, 150),
        quoteCase("Quote: 10 km, buyer 2h 5kg", map[string]any{"distance_km": 10, "buyer_service_requested": true, "hours": 2, "weight_kg": 5}, 270),
        quoteCase("Quote: 10 km, buyer 1h 10kg", map[string]any{"distance_km": 10, "buyer_service_requested": true, "hours": 1, "weight_kg": 10}, 240),
        {Name: "Quote: negative distance rejected", Run: func(ctx context.Context, r *Runner) Result {
            status, _, latency, err := r.do(ctx, http.MethodPost, "/api/quotes", map[string]any{"distance_km": -1})
            return expectStatus(status, latency, err, http.StatusBadRequest)
        }},
        {Name: "Session: create, route, price", Run: sessionFlow},
        {Name: "Perf: quote throughput", Run: quoteLoad},
    }
}

func quoteCase(name string, body map[string]any, wantTotal float64) TestCase {
    return TestCase{Name: name, Run: func(ctx context.Context, r *Runner) Result {
        status, raw, latency, err := r.do(ctx, http.MethodPost, "/api/quotes", body)
        if res := expectStatus(status, latency, err, http.StatusCreated); res.Status != statusPass {
            return res
        }
        total, err := totalCost(raw)
        if err != nil {
            return Result{Status: statusFail, Latency: latency, Note: err.Error()}
        }
        if math.Abs(total-wantTotal) > 1e-9 {
            return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("total=%.2f want %.2f", total, wantTotal)}
        }
        return Result{Status: statusPass, Latency: latency}
    }}
}

func checkQuotesTable(ctx context.Context, r *Runner) Result {
    if r.db == nil {
        return Result{Status: statusSkip, Note: "dsn not set"}
    }
    ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
    defer cancel()
    var exists bool
    err := r.db.QueryRow(ctx, `SELECT to_regclass('public.quotes') IS NOT NULL`).Scan(&exists)
    if err != nil {
        return Result{Status: statusFail, Note: err.Error()}
    }
    if !exists {
        return Result{Status: statusFail, Note: "quotes table missing; start the API with PABILI_DB_MIGRATE=true"}
    }
    return Result{Status: statusPass}
}

func checkRedis(ctx context.Context, r *Runner) Result {
    if r.redis == nil {
        return Result{Status: statusSkip, Note: "redis not set"}
    }
    ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
    defer cancel()
    if err := r.redis.Ping(ctx).Err(); err != nil {
        return Result{Status: statusFail, Note: err.Error()}
    }
    return Result{Status: statusPass}
}

func sessionFlow(ctx context.Context, r *Runner) Result {
    start := time.Now()
    status, raw, _, err := r.do(ctx, http.MethodPost, "/api/sessions", nil)
    if res := expectStatus(status, 0, err, http.StatusCreated); res.Status != statusPass {
        return res
    }
    var sess struct {
        ID string `json:"id"`
    }
    if err := json.Unmarshal(raw, &sess); err != nil || sess.ID == "" {
        return Result{Status: statusFail, Note: "session id missing"}
    }
    base := "/api/sessions/" + sess.ID
    defer func() { _, _, _, _ = r.do(context.Background(), http.MethodDelete, base, nil) }()

    status, raw, _, err = r.do(ctx, http.MethodPost, base+"/route", map[string]any{
        "start_address": r.cfg.FromAddress,
        "destination":   r.cfg.ToAddress,
    })
    if res := expectStatus(status, 0, err, http.StatusOK); res.Status != statusPass {
        res.Note += " " + string(raw)
        return res
    }
    var routed struct {
        DistanceKm float64 `json:"distance_km"`
    }
    _ = json.Unmarshal(raw, &routed)

    status, raw, _, err = r.do(ctx, http.MethodPost, base+"/price", map[string]any{})
    if res := expectStatus(status, 0, err, http.StatusCreated); res.Status != statusPass {
        return res
    }
    total, err := totalCost(raw)
    if err != nil {
        return Result{Status: statusFail, Note: err.Error()}
    }
    return Result{
        Status:  statusPass,
        Latency: time.Since(start),
        Note:    fmt.Sprintf("distance=%.2fkm total=%.2f", routed.DistanceKm, total),
    }
}

func quoteLoad(ctx context.Context, r *Runner) Result {
    body := map[string]any{"distance_km": 7.5, "buyer_service_requested": true, "hours": 1, "weight_kg": 8}
    end := time.Now().Add(r.cfg.Duration)
    var count, errCount atomic.Int64
    var wg sync.WaitGroup

    for i := 0; i < r.cfg.Concurrency; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for time.Now().Before(end) && ctx.Err() == nil {
                status, _, _, err := r.do(ctx, http.MethodPost, "/api/quotes", body)
                if err != nil || status != http.StatusCreated {
                    errCount.Add(1)
                    continue
                }
                count.Add(1)
            }
        }()
    }
    wg.Wait()

    if count.Load() == 0 {
        return Result{Status: statusFail, Note: "no requests completed"}
    }
    rps := float64(count.Load()) / r.cfg.Duration.Seconds()
    return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func (r *Runner) do(ctx context.Context, method, path string, body any) (int, []byte, time.Duration, error) {
    var reader io.Reader
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil {
            return 0, nil, 0, err
        }
        reader = bytes.NewReader(b)
    }
    req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
    if err != nil {
        return 0, nil, 0, err
    }
    req.Header.Set("Content-Type", "application/json")
    if r.cfg.Token != "" {
        req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
    }

    start := time.Now()
    resp, err := r.httpc.Do(req)
    if err != nil {
        return 0, nil, 0, err
    }
    defer resp.Body.Close()
    raw, err := io.ReadAll(resp.Body)
    return resp.StatusCode, raw, time.Since(start), err
}

func expectStatus(status int, latency time.Duration, err error, want int) Result {
    if err != nil {
        return Result{Status: statusFail, Note: err.Error()}
    }
    if status != want {
        return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d want %d", status, want)}
    }
    return Result{Status: statusPass, Latency: latency}
}

func totalCost(raw []byte) (float64, error) {
    var q struct {
        Result struct {
            TotalCost *float64 `json:"total_cost"`
        } `json:"result"`
    }
    if err := json.Unmarshal(raw, &q); err != nil {
        return 0, fmt.Errorf("decode quote: %w", err)
    }
    if q.Result.TotalCost == nil {
        return 0, fmt.Errorf("quote without total_cost: %s", raw)
    }
    return *q.Result.TotalCost, nil
}
