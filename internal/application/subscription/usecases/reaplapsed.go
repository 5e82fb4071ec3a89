package usecases

import (
	"context"
	"fmt"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	"github.com/florascan-inc/florascan/internal/domain/user"
	"github.com/florascan-inc/florascan/internal/shared/biztime"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// ReapLapsedUseCase is the daily expiry reaper job. Active subscriptions
// past their end date either renew for another billing period (auto-renew
// on) or move to expired (auto-renew off). All state changes for one run
// commit in a single transaction; notifications go out only after the
// commit so an aborted run never announces changes that were rolled back.
type ReapLapsedUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	userRepo         user.Repository
	notifier         Notifier
	txRunner         TxRunner
	logger           logger.Interface
}

func NewReapLapsedUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	userRepo user.Repository,
	notifier Notifier,
	txRunner TxRunner,
	logger logger.Interface,
) *ReapLapsedUseCase {
	return &ReapLapsedUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		txRunner:         txRunner,
		logger:           logger,
	}
}

// Execute processes all lapsed subscriptions and returns how many were
// renewed or expired. Renewal counts from the later of the old end date
// and now, so a subscription that lapsed while the worker was down does
// not accrue backdated time.
func (uc *ReapLapsedUseCase) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC()

	lapsed, err := uc.subscriptionRepo.FindLapsed(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find lapsed subscriptions: %w", err)
	}
	if len(lapsed) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found lapsed subscriptions to process", "count", len(lapsed))

	var renewed, expired []*subscription.Subscription

	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		for _, sub := range lapsed {
			if sub.AutoRenew() {
				if err := sub.Renew(now); err != nil {
					uc.logger.Warnw("renewal rejected, expiring subscription instead",
						"subscription_id", sub.ID(),
						"error", err,
					)
					if err := sub.MarkAsExpired(); err != nil {
						uc.logger.Warnw("failed to mark subscription as expired",
							"subscription_id", sub.ID(),
							"error", err,
						)
						continue
					}
					if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
						return fmt.Errorf("failed to update subscription %d: %w", sub.ID(), err)
					}
					expired = append(expired, sub)
					continue
				}

				if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
					return fmt.Errorf("failed to update renewed subscription %d: %w", sub.ID(), err)
				}
				renewed = append(renewed, sub)
				continue
			}

			if err := sub.MarkAsExpired(); err != nil {
				uc.logger.Warnw("failed to mark subscription as expired",
					"subscription_id", sub.ID(),
					"current_status", sub.Status().String(),
					"error", err,
				)
				continue
			}
			if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
				return fmt.Errorf("failed to update expired subscription %d: %w", sub.ID(), err)
			}
			expired = append(expired, sub)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	uc.logger.Infow("lapsed subscriptions processed",
		"renewed", len(renewed),
		"expired", len(expired),
	)

	uc.notifyOutcomes(ctx, renewed, expired)

	return len(renewed) + len(expired), nil
}

// notifyOutcomes emails the affected users after the transaction commits.
// Delivery failures are logged and dropped; the state change already holds.
func (uc *ReapLapsedUseCase) notifyOutcomes(ctx context.Context, renewed, expired []*subscription.Subscription) {
	all := make([]*subscription.Subscription, 0, len(renewed)+len(expired))
	all = append(all, renewed...)
	all = append(all, expired...)
	if len(all) == 0 {
		return
	}

	usersByID, err := uc.loadUsers(ctx, all)
	if err != nil {
		uc.logger.Warnw("failed to load users for reaper notifications", "error", err)
		return
	}

	planNames := make(map[uint]string)

	for _, sub := range renewed {
		owner, ok := usersByID[sub.UserID()]
		if !ok {
			continue
		}
		planName, err := uc.planName(ctx, sub.PlanID(), planNames)
		if err != nil {
			uc.logger.Warnw("failed to load plan for renewal notification",
				"subscription_id", sub.ID(), "error", err)
			continue
		}
		if err := uc.notifier.SendSubscriptionRenewed(ctx, owner.Email(), owner.Name(), planName, sub.EndDate()); err != nil {
			uc.logger.Warnw("failed to deliver renewal notification",
				"subscription_id", sub.ID(), "user_id", sub.UserID(), "error", err)
		}
	}

	for _, sub := range expired {
		owner, ok := usersByID[sub.UserID()]
		if !ok {
			continue
		}
		planName, err := uc.planName(ctx, sub.PlanID(), planNames)
		if err != nil {
			uc.logger.Warnw("failed to load plan for expiry notification",
				"subscription_id", sub.ID(), "error", err)
			continue
		}
		if err := uc.notifier.SendSubscriptionExpired(ctx, owner.Email(), owner.Name(), planName, sub.EndDate()); err != nil {
			uc.logger.Warnw("failed to deliver expiry notification",
				"subscription_id", sub.ID(), "user_id", sub.UserID(), "error", err)
		}
	}
}

func (uc *ReapLapsedUseCase) loadUsers(ctx context.Context, subs []*subscription.Subscription) (map[uint]*user.User, error) {
	seen := make(map[uint]struct{}, len(subs))
	ids := make([]uint, 0, len(subs))
	for _, sub := range subs {
		if _, ok := seen[sub.UserID()]; ok {
			continue
		}
		seen[sub.UserID()] = struct{}{}
		ids = append(ids, sub.UserID())
	}

	users, err := uc.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*user.User, len(users))
	for _, u := range users {
		byID[u.ID()] = u
	}
	return byID, nil
}

func (uc *ReapLapsedUseCase) planName(ctx context.Context, planID uint, cache map[uint]string) (string, error) {
	if name, ok := cache[planID]; ok {
		return name, nil
	}

	plan, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return "", err
	}
	if plan == nil {
		return "", subscription.ErrPlanNotFound
	}

	cache[planID] = plan.Name()
	return plan.Name(), nil
}
