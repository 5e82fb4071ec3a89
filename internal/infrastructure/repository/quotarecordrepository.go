package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	"github.com/florascan-inc/florascan/internal/infrastructure/persistence/models"
	"github.com/florascan-inc/florascan/internal/shared/db"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

type QuotaRecordRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewQuotaRecordRepository(database *gorm.DB, log logger.Interface) subscription.QuotaRecordRepository {
	return &QuotaRecordRepositoryImpl{
		db:     database,
		logger: log,
	}
}

// Create inserts a new daily counter row. A duplicate-key error from the
// (user_id, usage_date) unique index is returned unwrapped so callers can
// detect it and recover by re-reading the winner's row.
func (r *QuotaRecordRepositoryImpl) Create(ctx context.Context, record *subscription.QuotaRecord) error {
	model := r.toModel(record)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return err
	}

	if err := record.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("quota record created",
		"quota_record_id", model.ID,
		"user_id", record.UserID(),
		"usage_date", record.UsageDate(),
	)
	return nil
}

func (r *QuotaRecordRepositoryImpl) GetByUserAndDate(ctx context.Context, userID uint, usageDate string) (*subscription.QuotaRecord, error) {
	var model models.QuotaRecordModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND usage_date = ?", userID, usageDate).
		First(&model).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get quota record",
			"error", err, "user_id", userID, "usage_date", usageDate)
		return nil, fmt.Errorf("failed to get quota record: %w", err)
	}

	return r.toEntity(&model)
}

func (r *QuotaRecordRepositoryImpl) Update(ctx context.Context, record *subscription.QuotaRecord) error {
	model := r.toModel(record)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.QuotaRecordModel{}).
		Where("id = ?", record.ID()).
		Updates(map[string]interface{}{
			"attempts_used": model.AttemptsUsed,
			"updated_at":    model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update quota record", "error", result.Error, "quota_record_id", record.ID())
		return fmt.Errorf("failed to update quota record: %w", result.Error)
	}

	return nil
}

func (r *QuotaRecordRepositoryImpl) toModel(record *subscription.QuotaRecord) *models.QuotaRecordModel {
	return &models.QuotaRecordModel{
		ID:           record.ID(),
		UserID:       record.UserID(),
		UsageDate:    record.UsageDate(),
		AttemptsUsed: record.AttemptsUsed(),
		CreatedAt:    record.CreatedAt(),
		UpdatedAt:    record.UpdatedAt(),
	}
}

func (r *QuotaRecordRepositoryImpl) toEntity(model *models.QuotaRecordModel) (*subscription.QuotaRecord, error) {
	return subscription.ReconstructQuotaRecord(
		model.ID,
		model.UserID,
		model.UsageDate,
		model.AttemptsUsed,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
