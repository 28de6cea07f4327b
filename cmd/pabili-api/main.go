// README: Entry point; loads config, wires services, serves HTTP until SIGINT/SIGTERM.
package main

import (
    "context"
    "log"
    "os"
    "os/signal"
    "syscall"

    "go.uber.org/zap"

    "pabili/internal/ai"
    "pabili/internal/config"
    httptransport "pabili/internal/http"
    "pabili/internal/infra"
    "pabili/internal/maps"
    "pabili/internal/modules/pricing"
    "pabili/internal/modules/quote"
    "pabili/internal/modules/session"
    "pabili/internal/service"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        log.Fatal(err)
    }

    logger, err := infra.NewLogger(cfg.Env)
    if err != nil {
        log.Fatal(err)
    }
    defer func() { _ = logger.Sync() }()

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    if err := run(ctx, cfg, logger); err != nil {
        logger.Fatal("server stopped with error", zap.Error(err))
    }
    logger.Info("server shutdown gracefully")
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
    var verifier infra.TokenVerifier
    if cfg.Firebase.Enabled {
        v, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
        if err != nil {
            return err
        }
        verifier = v
    }

    // quotes are priced without persistence when no DSN is configured
    var quoteStore quote.Repository
    if cfg.DB.DSN != "" {
        pool, err := infra.NewDB(ctx, cfg.DB.DSN, logger)
        if err != nil {
            return err
        }
        defer pool.Close()
        if cfg.DB.Migrate {
            if err := infra.Migrate(ctx, pool); err != nil {
                return err
            }
        }
        quoteStore = quote.NewStore(pool)
    } else {
        logger.Warn("PABILI_DB_DSN not set; quotes will not be stored")
    }

    var (
        sessionStore session.Store
        geocodeCache maps.Cache
    )
    if cfg.Redis.Addr != "" {
        rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
        if err != nil {
            return err
        }
        defer rdb.Close()
        sessionStore = session.NewRedisStore(rdb, cfg.Redis.SessionTTL)
        geocodeCache = maps.NewRedisCache(rdb)
    } else {
        logger.Warn("PABILI_REDIS_ADDR not set; sessions are kept in memory")
        sessionStore = session.NewMemoryStore(cfg.Redis.SessionTTL)
    }

    geocoder, router, err := maps.Build(cfg.Maps.Options(geocodeCache, logger))
    if err != nil {
        return err
    }

    pricingSvc := pricing.NewService(cfg.Pricing.RoundDistance)
    quoteSvc := quote.NewService(quoteStore, pricingSvc, logger)
    hub := session.NewHub()
    sessionSvc := session.NewService(session.Deps{
        Store:         sessionStore,
        Geocoder:      geocoder,
        Router:        router,
        Quotes:        quoteSvc,
        Events:        hub,
        RoundDistance: cfg.Pricing.RoundDistance,
        Logger:        logger,
    })

    var planner *service.QuotePlanner
    if cfg.AI.GeminiKey != "" {
        gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
        if err != nil {
            return err
        }
        defer gemini.Close()
        planner = service.NewQuotePlanner(gemini, sessionSvc, logger)
    }

    engine := httptransport.NewRouter(httptransport.RouterDeps{
        Quotes:         quoteSvc,
        Sessions:       sessionSvc,
        Hub:            hub,
        Geocoder:       geocoder,
        Router:         router,
        Planner:        planner,
        Verifier:       verifier,
        RoundDistance:  cfg.Pricing.RoundDistance,
        RequestTimeout: cfg.HTTP.RequestTimeout,
        Logger:         logger,
    })
    server := httptransport.NewServer(cfg.HTTP.Addr, engine, cfg.HTTP.AllowedOrigins, cfg.HTTP.ShutdownTimeout, logger)
    return server.Run(ctx)
}
