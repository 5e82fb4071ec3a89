package usecases

import (
	"context"
	"fmt"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// CancelSubscriptionUseCase cancels a subscription by SID. The row stays
// for history; a cancelled subscription is simply never current again and
// is skipped by the reaper.
type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, sid string) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "sid", sid)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("subscription not found")
	}

	if err := sub.Cancel(); err != nil {
		return nil, err
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to update cancelled subscription", "error", err, "subscription_id", sub.ID())
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.logger.Infow("subscription cancelled",
		"subscription_id", sub.ID(),
		"subscription_sid", sub.SID(),
		"user_id", sub.UserID(),
	)

	return sub, nil
}
