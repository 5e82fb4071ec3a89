package usecases

import (
	"context"
	"fmt"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	apperrors "github.com/florascan-inc/florascan/internal/shared/errors"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

type CreatePlanCommand struct {
	Name                  string
	Slug                  string
	Description           string
	MonthlyPrice          uint64 // cents
	YearlyDiscountPercent uint
	YearlyPriceOverride   *uint64 // optional explicit yearly price in cents
	DailyAllowance        *uint   // nil means unlimited
	IsFree                bool
	Features              []string
}

type CreatePlanUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewCreatePlanUseCase(
	planRepo subscription.PlanRepository,
	logger logger.Interface,
) *CreatePlanUseCase {
	return &CreatePlanUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *CreatePlanUseCase) Execute(ctx context.Context, cmd CreatePlanCommand) (*subscription.Plan, error) {
	existing, err := uc.planRepo.GetBySlug(ctx, cmd.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check plan slug: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("plan with slug %q already exists", cmd.Slug))
	}

	plan, err := subscription.NewPlan(cmd.Name, cmd.Slug, cmd.Description,
		cmd.MonthlyPrice, cmd.YearlyDiscountPercent, cmd.DailyAllowance, cmd.IsFree)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if cmd.YearlyPriceOverride != nil {
		plan.OverrideYearlyPrice(*cmd.YearlyPriceOverride)
	}
	if len(cmd.Features) > 0 {
		plan.SetFeatures(cmd.Features)
	}

	if err := uc.planRepo.Create(ctx, plan); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("plan with slug %q already exists", cmd.Slug))
		}
		uc.logger.Errorw("failed to create plan", "error", err, "slug", cmd.Slug)
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	uc.logger.Infow("plan created",
		"plan_id", plan.ID(),
		"plan_sid", plan.SID(),
		"slug", plan.Slug(),
		"is_free", plan.IsFree(),
	)

	return plan, nil
}
