package usecases

import (
	"context"
	"fmt"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	apperrors "github.com/florascan-inc/florascan/internal/shared/errors"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

type UpdatePlanCommand struct {
	PlanSID               string
	Name                  string
	Description           string
	MonthlyPrice          uint64
	YearlyDiscountPercent uint
	YearlyPriceOverride   *uint64
	DailyAllowance        *uint
	Features              []string // nil leaves features unchanged
}

// UpdatePlanUseCase updates catalog pricing and limits. Changes apply to
// all current subscribers of the plan from their next quota resolution;
// historical usage is untouched.
type UpdatePlanUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewUpdatePlanUseCase(
	planRepo subscription.PlanRepository,
	logger logger.Interface,
) *UpdatePlanUseCase {
	return &UpdatePlanUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *UpdatePlanUseCase) Execute(ctx context.Context, cmd UpdatePlanCommand) (*subscription.Plan, error) {
	plan, err := uc.planRepo.GetBySID(ctx, cmd.PlanSID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, subscription.ErrPlanNotFound
	}

	if err := plan.UpdateDetails(cmd.Name, cmd.Description, cmd.MonthlyPrice,
		cmd.YearlyDiscountPercent, cmd.DailyAllowance); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if cmd.YearlyPriceOverride != nil {
		plan.OverrideYearlyPrice(*cmd.YearlyPriceOverride)
	}
	if cmd.Features != nil {
		plan.SetFeatures(cmd.Features)
	}

	if err := uc.planRepo.Update(ctx, plan); err != nil {
		uc.logger.Errorw("failed to update plan", "error", err, "plan_id", plan.ID())
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	uc.logger.Infow("plan updated", "plan_id", plan.ID(), "plan_sid", plan.SID())
	return plan, nil
}
