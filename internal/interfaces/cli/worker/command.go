// Package worker wires and runs the background worker: the scheduler with
// the expiry notifier and reaper jobs.
package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/florascan-inc/florascan/internal/application/subscription/usecases"
	"github.com/florascan-inc/florascan/internal/infrastructure/config"
	"github.com/florascan-inc/florascan/internal/infrastructure/database"
	"github.com/florascan-inc/florascan/internal/infrastructure/email"
	"github.com/florascan-inc/florascan/internal/infrastructure/lock"
	"github.com/florascan-inc/florascan/internal/infrastructure/repository"
	"github.com/florascan-inc/florascan/internal/infrastructure/scheduler"
	"github.com/florascan-inc/florascan/internal/shared/biztime"
	"github.com/florascan-inc/florascan/internal/shared/db"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Start the subscription worker",
		Long:  `Start the background worker that runs the daily expiry notifier and expiry reaper jobs.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	log := logger.NewLogger()
	log.Infow("starting subscription worker", "environment", env)

	// Business timezone drives quota days and expiry day boundaries
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	locker, redisClient, err := buildLocker(cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	planRepo := repository.NewPlanRepository(database.Get(), log)
	subscriptionRepo := repository.NewSubscriptionRepository(database.Get(), log)
	userRepo := repository.NewUserRepository(database.Get(), log)
	jobRepo := repository.NewScheduledJobRepository(database.Get(), log)

	txManager := db.NewTransactionManager(database.Get())

	// Notifier with retry decoration
	smtpNotifier := email.NewSMTPNotifier(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	})
	notifier := email.NewRetryNotifier(smtpNotifier,
		cfg.Notification.MaxRetries,
		time.Duration(cfg.Notification.RetryDelaySeconds)*time.Second,
		log,
	)

	// Jobs
	notifyJob := usecases.NewNotifyExpiringUseCase(subscriptionRepo, planRepo, userRepo, notifier, log)
	reapJob := usecases.NewReapLapsedUseCase(subscriptionRepo, planRepo, userRepo, notifier, txManager, log)

	var jobStore scheduler.JobStore
	if cfg.Scheduler.PersistJobs {
		jobStore = jobRepo
	}

	manager, err := scheduler.NewManager(locker, jobStore, cfg.Scheduler, log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler manager: %w", err)
	}

	if err := manager.RegisterExpiryJobs(notifyJob, reapJob); err != nil {
		return fmt.Errorf("failed to register expiry jobs: %w", err)
	}
	if err := manager.RegisterHeartbeatJob(); err != nil {
		return fmt.Errorf("failed to register heartbeat job: %w", err)
	}

	manager.Start()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Infow("shutdown signal received", "signal", sig.String())

	if err := manager.Stop(); err != nil {
		log.Errorw("scheduler shutdown failed", "error", err)
		return err
	}

	log.Infow("subscription worker stopped")
	return nil
}

// buildLocker picks the job lock backend. With redis configured jobs are
// mutually exclusive across worker instances; without it a no-op lock
// keeps a single-instance deployment working.
func buildLocker(cfg *config.Config, log logger.Interface) (lock.Locker, *redis.Client, error) {
	if !cfg.Scheduler.LockEnabled || !cfg.Redis.Enabled() {
		log.Warnw("distributed job lock disabled, running without cross-instance exclusion")
		return lock.NewNoopLocker(), nil, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	return lock.NewRedisLocker(redisClient, log), redisClient, nil
}
