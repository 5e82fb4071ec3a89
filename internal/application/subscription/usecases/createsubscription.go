package usecases

import (
	"context"
	"fmt"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	vo "github.com/florascan-inc/florascan/internal/domain/subscription/valueobjects"
	"github.com/florascan-inc/florascan/internal/domain/user"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

type CreateSubscriptionCommand struct {
	UserID       uint
	PlanSID      string // Stripe-style plan SID (takes precedence over PlanSlug)
	PlanSlug     string
	BillingCycle string
	AutoRenew    bool
	PaymentRef   *string
}

// CreateSubscriptionUseCase records a paid subscription. Payment has been
// confirmed upstream by the time this runs, so the subscription is created
// active with its period starting now.
type CreateSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	userRepo         user.Repository
	logger           logger.Interface
}

func NewCreateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	userRepo user.Repository,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*subscription.Subscription, error) {
	targetUser, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get target user", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get target user: %w", err)
	}
	if targetUser == nil {
		uc.logger.Warnw("target user not found", "user_id", cmd.UserID)
		return nil, fmt.Errorf("user not found")
	}

	plan, err := uc.resolvePlan(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if !plan.IsActive() {
		return nil, fmt.Errorf("plan is not active")
	}
	if plan.IsFree() {
		return nil, fmt.Errorf("cannot subscribe to the free plan; it applies automatically")
	}

	if cmd.BillingCycle == "" {
		return nil, fmt.Errorf("billing cycle is required")
	}
	billingCycle, err := vo.ParseBillingCycle(cmd.BillingCycle)
	if err != nil {
		uc.logger.Warnw("invalid billing cycle provided", "error", err, "billing_cycle", cmd.BillingCycle)
		return nil, fmt.Errorf("invalid billing cycle: %w", err)
	}

	sub, err := subscription.NewSubscription(cmd.UserID, plan.ID(), billingCycle, cmd.AutoRenew, cmd.PaymentRef)
	if err != nil {
		uc.logger.Errorw("failed to create subscription aggregate", "error", err)
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to create subscription in database", "error", err)
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	uc.logger.Infow("subscription created successfully",
		"subscription_id", sub.ID(),
		"subscription_sid", sub.SID(),
		"user_id", cmd.UserID,
		"plan_id", plan.ID(),
		"billing_cycle", billingCycle,
		"end_date", sub.EndDate(),
	)

	return sub, nil
}

func (uc *CreateSubscriptionUseCase) resolvePlan(ctx context.Context, cmd CreateSubscriptionCommand) (*subscription.Plan, error) {
	var plan *subscription.Plan
	var err error

	switch {
	case cmd.PlanSID != "":
		plan, err = uc.planRepo.GetBySID(ctx, cmd.PlanSID)
	case cmd.PlanSlug != "":
		plan, err = uc.planRepo.GetBySlug(ctx, cmd.PlanSlug)
	default:
		return nil, fmt.Errorf("plan SID or slug is required")
	}

	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_sid", cmd.PlanSID, "plan_slug", cmd.PlanSlug)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, subscription.ErrPlanNotFound
	}
	return plan, nil
}
