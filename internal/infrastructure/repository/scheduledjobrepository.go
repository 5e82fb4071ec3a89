package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/florascan-inc/florascan/internal/infrastructure/persistence/models"
	"github.com/florascan-inc/florascan/internal/shared/db"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// ScheduledJobRepositoryImpl persists job schedule metadata. The scheduler
// upserts a row per job at startup and records runs afterwards, so the
// schedule catalog survives restarts and an operator can flip enabled off
// to pause a job without redeploying.
type ScheduledJobRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewScheduledJobRepository(database *gorm.DB, log logger.Interface) *ScheduledJobRepositoryImpl {
	return &ScheduledJobRepositoryImpl{
		db:     database,
		logger: log,
	}
}

// Upsert registers a job by name, updating the cron expression when the
// row already exists. The enabled flag is left untouched on conflict.
func (r *ScheduledJobRepositoryImpl) Upsert(ctx context.Context, name, cronExpr string) error {
	now := time.Now().UTC()
	model := &models.ScheduledJobModel{
		Name:      name,
		CronExpr:  cronExpr,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"cron_expr", "updated_at"}),
		}).
		Create(model).Error

	if err != nil {
		r.logger.Errorw("failed to upsert scheduled job", "error", err, "job", name)
		return fmt.Errorf("failed to upsert scheduled job: %w", err)
	}

	return nil
}

// IsEnabled reports whether a job may run. Unknown jobs are enabled so a
// missing metadata row never silently disables work.
func (r *ScheduledJobRepositoryImpl) IsEnabled(ctx context.Context, name string) (bool, error) {
	var model models.ScheduledJobModel
	err := db.GetTxFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return true, nil
		}
		r.logger.Errorw("failed to check scheduled job state", "error", err, "job", name)
		return false, fmt.Errorf("failed to check scheduled job state: %w", err)
	}

	return model.Enabled, nil
}

func (r *ScheduledJobRepositoryImpl) RecordRun(ctx context.Context, name string, ranAt time.Time) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.ScheduledJobModel{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{
			"last_run_at": ranAt,
			"updated_at":  time.Now().UTC(),
		})

	if result.Error != nil {
		r.logger.Errorw("failed to record job run", "error", result.Error, "job", name)
		return fmt.Errorf("failed to record job run: %w", result.Error)
	}

	return nil
}
