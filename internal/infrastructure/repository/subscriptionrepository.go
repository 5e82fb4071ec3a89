package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	vo "github.com/florascan-inc/florascan/internal/domain/subscription/valueobjects"
	"github.com/florascan-inc/florascan/internal/infrastructure/persistence/models"
	"github.com/florascan-inc/florascan/internal/shared/db"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionRepository(database *gorm.DB, log logger.Interface) subscription.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     database,
		logger: log,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := r.toModel(sub)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription", "error", err, "user_id", sub.UserID())
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("subscription created successfully",
		"subscription_id", model.ID,
		"subscription_sid", sub.SID(),
		"user_id", sub.UserID(),
	)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by ID", "error", err, "subscription_id", id)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by SID", "error", err, "sid", sid)
		return nil, fmt.Errorf("failed to get subscription by SID: %w", err)
	}

	return r.toEntity(&model)
}

// GetCurrentByUserID returns the subscription with the latest end date among
// the user's active subscriptions ending after now.
func (r *SubscriptionRepositoryImpl) GetCurrentByUserID(ctx context.Context, userID uint, now time.Time) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status = ? AND end_date > ?", userID, vo.StatusActive.String(), now).
		Order("end_date DESC").
		First(&model).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get current subscription", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get current subscription: %w", err)
	}

	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) FindActiveEndingBetween(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	var subModels []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND end_date BETWEEN ? AND ?", vo.StatusActive.String(), from, to).
		Order("end_date ASC").
		Find(&subModels).Error

	if err != nil {
		r.logger.Errorw("failed to find subscriptions ending in window",
			"error", err, "from", from, "to", to)
		return nil, fmt.Errorf("failed to find subscriptions ending in window: %w", err)
	}

	return r.toEntities(subModels)
}

func (r *SubscriptionRepositoryImpl) FindLapsed(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	var subModels []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND end_date < ?", vo.StatusActive.String(), now).
		Order("end_date ASC").
		Find(&subModels).Error

	if err != nil {
		r.logger.Errorw("failed to find lapsed subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find lapsed subscriptions: %w", err)
	}

	return r.toEntities(subModels)
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *subscription.Subscription) error {
	model := r.toModel(sub)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("id = ?", sub.ID()).
		Updates(map[string]interface{}{
			"status":      model.Status,
			"end_date":    model.EndDate,
			"auto_renew":  model.AutoRenew,
			"payment_ref": model.PaymentRef,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "error", result.Error, "subscription_id", sub.ID())
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) toModel(sub *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:           sub.ID(),
		SID:          sub.SID(),
		UserID:       sub.UserID(),
		PlanID:       sub.PlanID(),
		Status:       sub.Status().String(),
		StartDate:    sub.StartDate(),
		EndDate:      sub.EndDate(),
		AutoRenew:    sub.AutoRenew(),
		BillingCycle: sub.BillingCycle().String(),
		PaymentRef:   sub.PaymentRef(),
		Version:      sub.Version(),
		CreatedAt:    sub.CreatedAt(),
		UpdatedAt:    sub.UpdatedAt(),
	}
}

func (r *SubscriptionRepositoryImpl) toEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	return subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:           model.ID,
		SID:          model.SID,
		UserID:       model.UserID,
		PlanID:       model.PlanID,
		Status:       vo.SubscriptionStatus(model.Status),
		StartDate:    model.StartDate,
		EndDate:      model.EndDate,
		AutoRenew:    model.AutoRenew,
		BillingCycle: vo.BillingCycle(model.BillingCycle),
		PaymentRef:   model.PaymentRef,
		Version:      model.Version,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	})
}

func (r *SubscriptionRepositoryImpl) toEntities(subModels []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	subs := make([]*subscription.Subscription, 0, len(subModels))
	for _, model := range subModels {
		sub, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
