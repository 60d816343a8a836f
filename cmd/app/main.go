package main

import (
    "context"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog/log"

    "github.com/laityfaye/impression/internal/auth"
    cfgpkg "github.com/laityfaye/impression/internal/config"
    "github.com/laityfaye/impression/internal/draft"
    "github.com/laityfaye/impression/internal/institute"
    logpkg "github.com/laityfaye/impression/internal/logger"
    "github.com/laityfaye/impression/internal/metrics"
    "github.com/laityfaye/impression/internal/order"
    "github.com/laityfaye/impression/internal/server"
    "github.com/laityfaye/impression/internal/statuscheck"
    "github.com/laityfaye/impression/internal/storage"
    "github.com/laityfaye/impression/internal/store"
)

func main() {
    _ = godotenv.Load()
    cfg := cfgpkg.FromEnv()

    // Init logging
    _ = logpkg.Init(logpkg.Options{
        Level:        cfg.Logging.Level,
        Pretty:       cfg.Logging.Pretty,
        File:         cfg.Logging.File,
        MaxSizeMB:    cfg.Logging.MaxSizeMB,
        MaxBackups:   cfg.Logging.MaxBackups,
        MaxAgeDays:   cfg.Logging.MaxAgeDays,
        Compress:     cfg.Logging.Compress,
        SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
        AxiomAPIKey:  cfg.Axiom.APIKey,
        AxiomOrgID:   cfg.Axiom.OrgID,
        AxiomDataset: cfg.Axiom.Dataset,
        AxiomFlush:   cfg.Axiom.FlushInterval,
    })
    defer logpkg.Close()

    // Collections store
    st, err := store.New(cfg.Storage.DataDir)
    if err != nil {
        log.Fatal().Err(err).Msg("failed to init data store")
    }

    // Upload storage
    var files storage.Files
    var bucket statuscheck.BucketPinger
    if cfg.Storage.Backend == "s3" && cfg.Storage.S3Bucket != "" {
        s3files, err := storage.NewS3(context.Background(), cfg.Storage.S3Bucket, cfg.Storage.S3Prefix)
        if err != nil {
            log.Fatal().Err(err).Msg("failed to init s3 storage")
        }
        files = s3files
        bucket = pingFunc(s3files.HeadBucket)
    } else {
        local, err := storage.NewLocal(cfg.Storage.UploadDir)
        if err != nil {
            log.Fatal().Err(err).Msg("failed to init upload dir")
        }
        files = local
    }

    // Draft session store
    var drafts draft.Store
    var redisPing statuscheck.RedisPinger
    if cfg.Redis.URL != "" {
        rd, err := draft.NewRedisStore(cfg.Redis.URL, cfg.Redis.DraftTTL)
        if err != nil {
            log.Fatal().Err(err).Msg("failed to connect to redis")
        }
        defer rd.Close()
        drafts = rd
        redisPing = rd
    } else {
        log.Info().Msg("no REDIS_URL, drafts held in memory")
        drafts = draft.NewMemoryStore(cfg.Redis.DraftTTL)
    }

    checker := statuscheck.New(statuscheck.Options{
        Redis:     redisPing,
        Bucket:    bucket,
        DataDir:   cfg.Storage.DataDir,
        UploadDir: cfg.Storage.UploadDir,
    })

    metrics.Init()

    srvHandlers := server.New(server.Options{
        Orders:     order.NewService(st, files),
        Institutes: institute.NewService(st),
        Drafts:     drafts,
        Files:      files,
        Auth: auth.NewService(auth.Passwords{
            Admin1:     cfg.Admin.Admin1Password,
            Admin2:     cfg.Admin.Admin2Password,
            SuperAdmin: cfg.Admin.SuperAdminPassword,
        }),
        Checker:           checker,
        MaxUploadMB:       cfg.Storage.MaxUploadMB,
        UploadTimeout:     cfg.Server.UploadTimeout,
        UploadConcurrency: cfg.Server.UploadConcurrency,
    })

    mux := http.NewServeMux()
    srvHandlers.RegisterRoutes(mux)
    mux.Handle("/metrics", metrics.Handler())

    srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: mux}

    go func() {
        log.Info().Msgf("HTTP server listening on :%s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal().Err(err).Msg("http server error")
        }
    }()

    // Graceful shutdown
    stop := make(chan os.Signal, 1)
    signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
    <-stop
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    _ = srv.Shutdown(ctx)
    fmt.Println("shutdown complete")
}

// pingFunc adapts a bare health-check func to the pinger interfaces.
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
