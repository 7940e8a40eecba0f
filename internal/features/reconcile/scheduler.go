package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"business-visa-backend/internal/common/logger"
	redisp "business-visa-backend/internal/platform/redis"
)

// ErrRunLocked is returned by RunOnce when another process holds the job's run lock.
var ErrRunLocked = errors.New("reconciliation run already in progress")

// Scheduler fires tasks on cron specs. A task never overlaps itself: cron skips a
// tick while the previous run is still going, and the Redis run lock keeps other
// replicas out. Locker may be nil for a single instance.
type Scheduler struct {
	cron    *cron.Cron
	locker  Locker
	lockTTL time.Duration
	log     zerolog.Logger
	ctx     context.Context
}

func NewScheduler(locker Locker, lockTTL time.Duration) *Scheduler {
	cl := cronLogger{log: logger.With("scheduler")}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		locker:  locker,
		lockTTL: lockTTL,
		log:     cl.log,
		ctx:     context.Background(),
	}
}

// Add schedules task on a standard five-field cron spec.
func (s *Scheduler) Add(spec string, task Task) error {
	job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{log: s.log})).
		Then(cron.FuncJob(func() {
			if _, err := s.RunOnce(s.ctx, task); err != nil && !errors.Is(err, ErrRunLocked) {
				s.log.Error().Err(err).Str("job", task.Name()).Msg("Scheduled run failed")
			}
		}))
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("schedule %s on %q: %w", task.Name(), spec, err)
	}
	s.log.Info().Str("job", task.Name()).Str("spec", spec).Msg("Job scheduled")
	return nil
}

// RunOnce runs task under its run lock.
func (s *Scheduler) RunOnce(ctx context.Context, task Task) (RunReport, error) {
	if s.locker != nil {
		lock, err := s.locker.Acquire(ctx, task.Name(), s.lockTTL)
		if err != nil {
			if errors.Is(err, redisp.ErrLockHeld) {
				s.log.Info().Str("job", task.Name()).Msg("Run skipped, lock held elsewhere")
				return RunReport{Job: task.Name()}, ErrRunLocked
			}
			return RunReport{Job: task.Name()}, fmt.Errorf("acquire run lock: %w", err)
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn().Err(err).Str("job", task.Name()).Msg("Failed to release run lock")
			}
		}()
	}
	return task.Run(ctx)
}

// Run starts the cron loop and blocks until ctx is done and running jobs return.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
	return nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
