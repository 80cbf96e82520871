package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/rixeldev/ticket-system/internal/config"
    apihttp "github.com/rixeldev/ticket-system/internal/http"
    "github.com/rixeldev/ticket-system/internal/jobs"
    "github.com/rixeldev/ticket-system/internal/logger"
    "github.com/rixeldev/ticket-system/internal/repo"
    "github.com/rixeldev/ticket-system/internal/services"
)

func main() {
    cfg := config.Load()
    log := logger.New(cfg)
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    // DB
    db := repo.MustOpen(ctx, cfg, log)
    defer db.Close()

    // Services
    repository := repo.NewRepository(db, log)
    svc := services.NewService(cfg, log, repository)

    // HTTP server (Gin)
    router := apihttp.NewRouter(cfg, log, svc)

    // Cron
    cron := jobs.NewCron(cfg, log, svc, repository)
    cron.Start()
    defer cron.Stop()

    // graceful shutdown
    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error") }
    }

    time.Sleep(500 * time.Millisecond)
}
