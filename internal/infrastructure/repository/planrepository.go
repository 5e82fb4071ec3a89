package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	"github.com/florascan-inc/florascan/internal/infrastructure/persistence/models"
	"github.com/florascan-inc/florascan/internal/shared/db"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlanRepository(database *gorm.DB, log logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{
		db:     database,
		logger: log,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *subscription.Plan) error {
	model, err := r.toModel(plan)
	if err != nil {
		r.logger.Errorw("failed to convert plan to model", "error", err)
		return fmt.Errorf("failed to convert plan to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan", "error", err, "slug", plan.Slug())
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if err := plan.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("plan created successfully", "plan_id", model.ID, "slug", plan.Slug())
	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by ID", "error", err, "plan_id", id)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by SID", "error", err, "sid", sid)
		return nil, fmt.Errorf("failed to get plan by SID: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).Where("slug = ?", slug).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by slug", "error", err, "slug", slug)
		return nil, fmt.Errorf("failed to get plan by slug: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetAllActive(ctx context.Context) ([]*subscription.Plan, error) {
	var planModels []*models.PlanModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", subscription.PlanStatusActive).
		Order("monthly_price ASC, created_at DESC").
		Find(&planModels).Error

	if err != nil {
		r.logger.Errorw("failed to get all active plans", "error", err)
		return nil, fmt.Errorf("failed to get all active plans: %w", err)
	}

	return r.toEntities(planModels)
}

func (r *PlanRepositoryImpl) GetAll(ctx context.Context) ([]*subscription.Plan, error) {
	var planModels []*models.PlanModel
	err := db.GetTxFromContext(ctx, r.db).
		Order("monthly_price ASC, created_at DESC").
		Find(&planModels).Error

	if err != nil {
		r.logger.Errorw("failed to get all plans", "error", err)
		return nil, fmt.Errorf("failed to get all plans: %w", err)
	}

	return r.toEntities(planModels)
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, plan *subscription.Plan) error {
	model, err := r.toModel(plan)
	if err != nil {
		r.logger.Errorw("failed to convert plan to model", "error", err)
		return fmt.Errorf("failed to convert plan to model: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.PlanModel{}).
		Where("id = ?", plan.ID()).
		Updates(map[string]interface{}{
			"name":                    model.Name,
			"description":             model.Description,
			"monthly_price":           model.MonthlyPrice,
			"yearly_price":            model.YearlyPrice,
			"yearly_discount_percent": model.YearlyDiscountPercent,
			"daily_allowance":         model.DailyAllowance,
			"status":                  model.Status,
			"features":                model.Features,
			"version":                 model.Version,
			"updated_at":              model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update plan", "error", result.Error, "plan_id", plan.ID())
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}

	// Note: RowsAffected may be 0 when updated values are identical to existing values.

	r.logger.Infow("plan updated successfully", "plan_id", plan.ID())
	return nil
}

func (r *PlanRepositoryImpl) toModel(plan *subscription.Plan) (*models.PlanModel, error) {
	features, err := json.Marshal(plan.Features())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan features: %w", err)
	}

	return &models.PlanModel{
		ID:                    plan.ID(),
		SID:                   plan.SID(),
		Name:                  plan.Name(),
		Slug:                  plan.Slug(),
		Description:           plan.Description(),
		MonthlyPrice:          plan.MonthlyPrice(),
		YearlyPrice:           plan.YearlyPrice(),
		YearlyDiscountPercent: plan.YearlyDiscountPercent(),
		DailyAllowance:        plan.DailyAllowance(),
		IsFree:                plan.IsFree(),
		Status:                string(plan.Status()),
		Features:              features,
		Version:               plan.Version(),
		CreatedAt:             plan.CreatedAt(),
		UpdatedAt:             plan.UpdatedAt(),
	}, nil
}

func (r *PlanRepositoryImpl) toEntity(model *models.PlanModel) (*subscription.Plan, error) {
	var features []string
	if len(model.Features) > 0 {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan features: %w", err)
		}
	}

	return subscription.ReconstructPlan(subscription.PlanReconstructParams{
		ID:                    model.ID,
		SID:                   model.SID,
		Name:                  model.Name,
		Slug:                  model.Slug,
		Description:           model.Description,
		MonthlyPrice:          model.MonthlyPrice,
		YearlyPrice:           model.YearlyPrice,
		YearlyDiscountPercent: model.YearlyDiscountPercent,
		DailyAllowance:        model.DailyAllowance,
		IsFree:                model.IsFree,
		Status:                model.Status,
		Features:              features,
		Version:               model.Version,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	})
}

func (r *PlanRepositoryImpl) toEntities(planModels []*models.PlanModel) ([]*subscription.Plan, error) {
	plans := make([]*subscription.Plan, 0, len(planModels))
	for _, model := range planModels {
		plan, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
