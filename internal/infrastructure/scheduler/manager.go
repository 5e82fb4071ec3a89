// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/florascan-inc/florascan/internal/infrastructure/lock"
	"github.com/florascan-inc/florascan/internal/shared/biztime"
	"github.com/florascan-inc/florascan/internal/shared/config"
	"github.com/florascan-inc/florascan/internal/shared/constants"
	"github.com/florascan-inc/florascan/internal/shared/goroutine"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// JobStore persists schedule metadata so registrations survive restarts
// and operators can disable a job at runtime.
type JobStore interface {
	Upsert(ctx context.Context, name, cronExpr string) error
	IsEnabled(ctx context.Context, name string) (bool, error)
	RecordRun(ctx context.Context, name string, ranAt time.Time) error
}

const (
	lockKeyPrefix  = "florascan:job:"
	defaultLockTTL = 10 * time.Minute
	jobTimeout     = 10 * time.Minute
)

// Manager manages all scheduled jobs using gocron v2. Every registered job
// runs under a named lease so that in multi-instance deployments only one
// worker executes a given job per firing; losers skip silently.
type Manager struct {
	scheduler gocron.Scheduler
	locker    lock.Locker
	jobStore  JobStore
	cfg       config.SchedulerConfig
	logger    logger.Interface

	// Track whether the scheduler has been started
	started   bool
	startedMu sync.RWMutex
}

// NewManager creates a new Manager instance. It initializes gocron with
// the business timezone so cron expressions fire on business-calendar
// boundaries. jobStore may be nil when persistence is disabled.
func NewManager(locker lock.Locker, jobStore JobStore, cfg config.SchedulerConfig, log logger.Interface) (*Manager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: scheduler,
		locker:    locker,
		jobStore:  jobStore,
		cfg:       cfg,
		logger:    log,
	}, nil
}

// RegisterExpiryJobs registers the daily subscription maintenance jobs:
// - Notify subscriptions approaching their end date
// - Reap lapsed subscriptions (renew or expire)
// Firing times come from configuration, expressed in the business timezone.
func (m *Manager) RegisterExpiryJobs(notifyJob, reapJob BatchJob) error {
	notifyCron := fmt.Sprintf("%d %d * * *", m.cfg.NotifyMinute, m.cfg.NotifyHour)
	reapCron := fmt.Sprintf("%d %d * * *", m.cfg.ReapMinute, m.cfg.ReapHour)

	if err := m.registerDailyJob(constants.JobNotifyExpiring, notifyCron, notifyJob); err != nil {
		return err
	}
	if err := m.registerDailyJob(constants.JobReapLapsed, reapCron, reapJob); err != nil {
		return err
	}

	m.logger.Infow("registered expiry jobs",
		"notify_at", fmt.Sprintf("%02d:%02d", m.cfg.NotifyHour, m.cfg.NotifyMinute),
		"reap_at", fmt.Sprintf("%02d:%02d", m.cfg.ReapHour, m.cfg.ReapMinute),
	)
	return nil
}

func (m *Manager) registerDailyJob(name, cronExpr string, job BatchJob) error {
	if m.jobStore != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := m.jobStore.Upsert(ctx, name, cronExpr); err != nil {
			return fmt.Errorf("failed to persist schedule for %s: %w", name, err)
		}
	}

	_, err := m.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			m.runExclusive(ctx, name, job)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscription", name),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", name, err)
	}

	return nil
}

// RegisterHeartbeatJob registers a periodic liveness log so operators can
// confirm the worker is alive between the daily firings.
func (m *Manager) RegisterHeartbeatJob() error {
	interval := time.Duration(m.cfg.HeartbeatIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			m.logger.Infow("scheduler heartbeat", "job_count", len(m.scheduler.Jobs()))
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("heartbeat"),
		gocron.WithName(constants.JobHeartbeat),
	)
	if err != nil {
		return fmt.Errorf("failed to register heartbeat job: %w", err)
	}

	m.logger.Infow("registered heartbeat job", "interval", interval)
	return nil
}

// runExclusive executes a job under its named lease. When another instance
// holds the lease the firing is skipped without noise; the holder's run
// covers this firing.
func (m *Manager) runExclusive(ctx context.Context, name string, job BatchJob) {
	defer goroutine.Recover(m.logger, name)

	if m.jobStore != nil {
		enabled, err := m.jobStore.IsEnabled(ctx, name)
		if err != nil {
			m.logger.Errorw("failed to check job state, skipping run", "job", name, "error", err)
			return
		}
		if !enabled {
			m.logger.Debugw("job disabled, skipping run", "job", name)
			return
		}
	}

	ttl := time.Duration(m.cfg.LockTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	lockKey := lockKeyPrefix + name
	acquired, err := m.locker.Acquire(ctx, lockKey, ttl)
	if err != nil {
		m.logger.Errorw("failed to acquire job lock, skipping run", "job", name, "error", err)
		return
	}
	if !acquired {
		m.logger.Debugw("job lock held elsewhere, skipping run", "job", name)
		return
	}
	defer func() {
		if err := m.locker.Release(ctx, lockKey); err != nil {
			m.logger.Warnw("failed to release job lock", "job", name, "error", err)
		}
	}()

	startTime := biztime.NowUTC()

	count, err := job.Execute(ctx)
	if err != nil {
		// Don't log error if context was cancelled (graceful shutdown)
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("scheduled job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("scheduled job completed",
			"job", name,
			"count", count,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("scheduled job completed with nothing to process",
			"job", name,
			"duration", time.Since(startTime),
		)
	}

	if m.jobStore != nil {
		if err := m.jobStore.RecordRun(ctx, name, startTime); err != nil {
			m.logger.Warnw("failed to record job run", "job", name, "error", err)
		}
	}
}

// Start starts the scheduler and all registered jobs.
func (m *Manager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *Manager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	// Shutdown scheduler and wait for running jobs
	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *Manager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *Manager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
