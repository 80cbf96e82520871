package jobs

import (
    "context"
    "time"

    "github.com/rixeldev/ticket-system/internal/config"
    "github.com/rixeldev/ticket-system/internal/repo"
    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"
)

type service interface { SnapshotStatusCounts(ctx context.Context) error }

type Cron struct {
    cfg  config.Config
    log  zerolog.Logger
    svc  service
    repo *repo.Repository
    c    *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, svc service, r *repo.Repository) *Cron {
    loc, _ := time.LoadLocation(cfg.TZ)
    c := cron.New(cron.WithLocation(loc), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
    cr := &Cron{cfg: cfg, log: log, svc: svc, repo: r, c: c}
    _, _ = c.AddFunc(cfg.StatsCron, cr.snapshot)
    return cr
}

func (cr *Cron) Start(){ cr.c.Start() }
func (cr *Cron) Stop(){ cr.c.Stop() }

func (cr *Cron) snapshot(){
    ctx, cancel := context.WithTimeout(context.Background(), time.Minute); defer cancel()
    const lockKey int64 = 715001
    ok, err := cr.repo.TryAdvisoryLock(ctx, lockKey)
    if err != nil { cr.log.Error().Err(err).Msg("cron: lock error"); return }
    if !ok { cr.log.Info().Msg("cron: snapshot already running elsewhere"); return }
    defer func(){ _ = cr.repo.AdvisoryUnlock(context.Background(), lockKey) }()
    if err := cr.svc.SnapshotStatusCounts(ctx); err != nil { cr.log.Error().Err(err).Msg("cron: snapshot failed") }
}
