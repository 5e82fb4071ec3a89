package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// CurrentPlanResolver resolves the plan a user is effectively on right now.
// A user with an active subscription whose end date is still ahead is on
// that subscription's plan; everyone else is on the catalog's free plan.
// When several subscriptions qualify the one ending last wins.
type CurrentPlanResolver struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	freePlanSlug     string
	logger           logger.Interface
}

func NewCurrentPlanResolver(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	freePlanSlug string,
	logger logger.Interface,
) *CurrentPlanResolver {
	return &CurrentPlanResolver{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		freePlanSlug:     freePlanSlug,
		logger:           logger,
	}
}

// Resolve returns the user's current plan. A paid subscription whose plan
// row has since disappeared falls back to the free plan with a warning
// instead of failing the caller's action. Deactivated plans still honor
// existing subscribers; deactivation only blocks new subscriptions.
func (r *CurrentPlanResolver) Resolve(ctx context.Context, userID uint, now time.Time) (subscription.CurrentPlan, error) {
	sub, err := r.subscriptionRepo.GetCurrentByUserID(ctx, userID, now)
	if err != nil {
		return subscription.CurrentPlan{}, fmt.Errorf("failed to resolve current subscription: %w", err)
	}

	if sub != nil {
		plan, err := r.planRepo.GetByID(ctx, sub.PlanID())
		if err != nil {
			return subscription.CurrentPlan{}, fmt.Errorf("failed to load subscription plan: %w", err)
		}
		if plan != nil {
			return subscription.NewPaidCurrentPlan(sub, plan)
		}

		r.logger.Warnw("current subscription references missing plan, falling back to free plan",
			"subscription_id", sub.ID(),
			"plan_id", sub.PlanID(),
			"user_id", userID,
		)
	}

	return r.resolveFreePlan(ctx)
}

func (r *CurrentPlanResolver) resolveFreePlan(ctx context.Context) (subscription.CurrentPlan, error) {
	plan, err := r.planRepo.GetBySlug(ctx, r.freePlanSlug)
	if err != nil {
		return subscription.CurrentPlan{}, fmt.Errorf("failed to load free plan: %w", err)
	}
	if plan == nil || !plan.IsFree() {
		return subscription.CurrentPlan{}, subscription.ErrFreePlanNotConfigured
	}

	return subscription.NewFreeCurrentPlan(plan)
}
