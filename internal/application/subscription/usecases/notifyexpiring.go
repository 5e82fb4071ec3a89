package usecases

import (
	"context"
	"fmt"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	"github.com/florascan-inc/florascan/internal/domain/user"
	"github.com/florascan-inc/florascan/internal/shared/biztime"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// reminderDaysAhead lists how many business calendar days before the end
// date a reminder goes out. Each value is a distinct day window, so a
// subscription gets at most one reminder per daily run.
var reminderDaysAhead = []int{3, 1}

// NotifyExpiringUseCase is the daily expiry notifier job. It finds active
// subscriptions ending 3 days and 1 day from now (business calendar days)
// and emails their owners. Read-only: it mutates no subscription state, so
// a crashed run simply repeats on the next firing.
type NotifyExpiringUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	userRepo         user.Repository
	notifier         Notifier
	logger           logger.Interface
}

func NewNotifyExpiringUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	userRepo user.Repository,
	notifier Notifier,
	logger logger.Interface,
) *NotifyExpiringUseCase {
	return &NotifyExpiringUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		logger:           logger,
	}
}

// Execute sends reminders for all subscriptions in today's reminder
// windows. Returns the number of reminders delivered; individual delivery
// failures are logged and skipped, never failing the batch.
func (uc *NotifyExpiringUseCase) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC()
	sent := 0

	for _, daysAhead := range reminderDaysAhead {
		targetDay := now.AddDate(0, 0, daysAhead)
		from := biztime.StartOfDayUTC(targetDay)
		to := biztime.EndOfDayUTC(targetDay)

		subs, err := uc.subscriptionRepo.FindActiveEndingBetween(ctx, from, to)
		if err != nil {
			return sent, fmt.Errorf("failed to find subscriptions ending in %d days: %w", daysAhead, err)
		}
		if len(subs) == 0 {
			continue
		}

		uc.logger.Infow("found subscriptions approaching expiry",
			"days_ahead", daysAhead,
			"count", len(subs),
		)

		delivered, err := uc.remind(ctx, subs, daysAhead)
		sent += delivered
		if err != nil {
			return sent, err
		}
	}

	return sent, nil
}

func (uc *NotifyExpiringUseCase) remind(ctx context.Context, subs []*subscription.Subscription, daysAhead int) (int, error) {
	usersByID, err := uc.loadUsers(ctx, subs)
	if err != nil {
		return 0, err
	}

	planNames := make(map[uint]string)
	sent := 0

	for _, sub := range subs {
		owner, ok := usersByID[sub.UserID()]
		if !ok {
			uc.logger.Warnw("subscription owner not found, skipping reminder",
				"subscription_id", sub.ID(),
				"user_id", sub.UserID(),
			)
			continue
		}

		planName, err := uc.planName(ctx, sub.PlanID(), planNames)
		if err != nil {
			uc.logger.Warnw("failed to load plan for reminder, skipping",
				"subscription_id", sub.ID(),
				"plan_id", sub.PlanID(),
				"error", err,
			)
			continue
		}

		err = uc.notifier.SendExpiryReminder(ctx, owner.Email(), owner.Name(),
			planName, sub.EndDate(), daysAhead, sub.AutoRenew())
		if err != nil {
			uc.logger.Warnw("failed to deliver expiry reminder",
				"subscription_id", sub.ID(),
				"user_id", sub.UserID(),
				"error", err,
			)
			continue
		}

		sent++
		uc.logger.Debugw("expiry reminder sent",
			"subscription_id", sub.ID(),
			"user_id", sub.UserID(),
			"days_ahead", daysAhead,
		)
	}

	return sent, nil
}

func (uc *NotifyExpiringUseCase) loadUsers(ctx context.Context, subs []*subscription.Subscription) (map[uint]*user.User, error) {
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
		return nil, fmt.Errorf("failed to load subscription owners: %w", err)
	}

	byID := make(map[uint]*user.User, len(users))
	for _, u := range users {
		byID[u.ID()] = u
	}
	return byID, nil
}

func (uc *NotifyExpiringUseCase) planName(ctx context.Context, planID uint, cache map[uint]string) (string, error) {
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
