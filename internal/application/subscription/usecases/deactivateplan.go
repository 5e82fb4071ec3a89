package usecases

import (
	"context"
	"fmt"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// DeactivatePlanUseCase soft-deactivates a plan. Existing subscribers keep
// their benefits until their subscriptions end; the plan just stops
// accepting new subscriptions.
type DeactivatePlanUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewDeactivatePlanUseCase(
	planRepo subscription.PlanRepository,
	logger logger.Interface,
) *DeactivatePlanUseCase {
	return &DeactivatePlanUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *DeactivatePlanUseCase) Execute(ctx context.Context, planSID string) (*subscription.Plan, error) {
	plan, err := uc.planRepo.GetBySID(ctx, planSID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, subscription.ErrPlanNotFound
	}

	plan.Deactivate()

	if err := uc.planRepo.Update(ctx, plan); err != nil {
		uc.logger.Errorw("failed to deactivate plan", "error", err, "plan_id", plan.ID())
		return nil, fmt.Errorf("failed to deactivate plan: %w", err)
	}

	uc.logger.Infow("plan deactivated", "plan_id", plan.ID(), "plan_sid", plan.SID())
	return plan, nil
}
