package extraction

import (
	"context"
	"time"

	"heartshield-service/internal/app/config"
	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/constvars"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	sweeperLockKey = "extraction:sweeper:leader"
	sweeperLockTTL = time.Minute
	sweeperBatch   = 100
)

// Sweeper fails extraction jobs stuck in queued or running past the
// configured deadline: lost queue messages, crashed workers, or finished
// runs whose final write never landed. One instance acts per tick via a
// Redis leader lock.
type Sweeper struct {
	log    *zap.Logger
	cfg    *config.InternalConfig
	locker contracts.LockerService
	jobs   contracts.ExtractionJobRepository
	redis  contracts.RedisRepository
	cron   *cron.Cron
	runCtx context.Context
	cancel context.CancelFunc
}

func NewSweeper(
	log *zap.Logger,
	cfg *config.InternalConfig,
	lockerSvc contracts.LockerService,
	jobRepo contracts.ExtractionJobRepository,
	redisRepo contracts.RedisRepository,
) *Sweeper {
	return &Sweeper{log: log, cfg: cfg, locker: lockerSvc, jobs: jobRepo, redis: redisRepo}
}

// Start schedules the sweep on the configured cron expression, falling back
// to a one-minute cadence when the expression does not parse.
func (s *Sweeper) Start(ctx context.Context) {
	s.runCtx, s.cancel = context.WithCancel(ctx)

	c := cron.New()
	spec := s.cfg.Extraction.SweeperCronSpec
	if _, err := c.AddFunc(spec, func() { s.runOnce(s.runCtx) }); err != nil {
		s.log.Warn("extraction.sweeper: invalid cron spec; falling back to @every 1m",
			zap.String("cron_spec", spec),
			zap.Error(err))
		c = cron.New()
		_, _ = c.AddFunc("@every 1m", func() { s.runOnce(s.runCtx) })
	}
	c.Start()
	s.cron = c

	s.log.Info("extraction.sweeper: started", zap.String("cron_spec", spec))
}

// Stop cancels in-flight sweeps and waits for the cron runner to drain.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	acquired, token, err := s.locker.TryLock(ctx, sweeperLockKey, sweeperLockTTL)
	if err != nil {
		s.log.Warn("extraction.sweeper: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if err := s.locker.Unlock(ctx, sweeperLockKey, token); err != nil {
			s.log.Error("extraction.sweeper: unlock failed", zap.Error(err))
		}
	}()

	deadlineMinutes := s.cfg.Extraction.StaleJobDeadlineInMinutes
	if deadlineMinutes <= 0 {
		deadlineMinutes = 10
	}
	olderThan := time.Now().UTC().Add(-time.Duration(deadlineMinutes) * time.Minute)

	stale, err := s.jobs.FindStaleJobs(ctx, olderThan, sweeperBatch)
	if err != nil {
		s.log.Error("extraction.sweeper: stale job query failed", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}

	s.log.Info("extraction.sweeper: failing stale jobs", zap.Int("stale_count", len(stale)))

	for i := range stale {
		job := &stale[i]
		now := time.Now().UTC()
		job.Status = models.ExtractionStatusFailed
		job.Reason = ReasonStalled
		job.FinishedAt = &now
		if err := s.jobs.UpdateJob(ctx, job); err != nil {
			s.log.Error("extraction.sweeper: stale job update failed",
				zap.String(constvars.LoggingJobIDKey, job.ID),
				zap.Error(err))
			continue
		}
		cacheJobStatus(ctx, s.redis, s.cfg.Extraction.StatusCacheTTLInSeconds, s.log, job)
	}
}
