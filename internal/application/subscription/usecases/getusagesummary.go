package usecases

import (
	"context"
	"time"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	"github.com/florascan-inc/florascan/internal/shared/biztime"
	apperrors "github.com/florascan-inc/florascan/internal/shared/errors"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// UsageSummary describes a user's standing for today: effective plan,
// consumption, and subscription runway. Read-only; no counter row is
// created for users who have not acted today.
type UsageSummary struct {
	UserID         uint
	Date           string
	PlanSID        string
	PlanName       string
	PlanSlug       string
	IsFree         bool
	IsUnlimited    bool
	DailyAllowance *uint
	AttemptsUsed   uint
	Remaining      *uint // nil when unlimited
	LimitReached   bool

	// Paid-subscription fields; nil for the free plan, which has no
	// ledger entry and no end date.
	SubscriptionSID   *string
	BillingCycle      *string
	SubscriptionStart *time.Time
	SubscriptionEnd   *time.Time
	DaysRemaining     *int
	AutoRenew         *bool
}

type GetUsageSummaryUseCase struct {
	quotaRepo subscription.QuotaRecordRepository
	resolver  *CurrentPlanResolver
	logger    logger.Interface
}

func NewGetUsageSummaryUseCase(
	quotaRepo subscription.QuotaRecordRepository,
	resolver *CurrentPlanResolver,
	logger logger.Interface,
) *GetUsageSummaryUseCase {
	return &GetUsageSummaryUseCase{
		quotaRepo: quotaRepo,
		resolver:  resolver,
		logger:    logger,
	}
}

func (uc *GetUsageSummaryUseCase) Execute(ctx context.Context, userID uint) (*UsageSummary, error) {
	if userID == 0 {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	now := biztime.NowUTC()
	today := biztime.DateOf(now)

	currentPlan, err := uc.resolver.Resolve(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	var used uint
	record, err := uc.quotaRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if record != nil {
		used = record.AttemptsUsed()
	}

	plan := currentPlan.Plan()
	summary := &UsageSummary{
		UserID:         userID,
		Date:           today,
		PlanSID:        plan.SID(),
		PlanName:       plan.Name(),
		PlanSlug:       plan.Slug(),
		IsFree:         currentPlan.IsFree(),
		IsUnlimited:    currentPlan.IsUnlimited(),
		DailyAllowance: currentPlan.DailyAllowance(),
		AttemptsUsed:   used,
	}

	if limit := currentPlan.DailyAllowance(); limit != nil {
		var remaining uint
		if *limit > used {
			remaining = *limit - used
		}
		summary.Remaining = &remaining
		summary.LimitReached = used >= *limit
	}

	if sub, ok := currentPlan.Subscription(); ok {
		sid := sub.SID()
		cycle := sub.BillingCycle().String()
		startDate := sub.StartDate()
		endDate := sub.EndDate()
		autoRenew := sub.AutoRenew()
		summary.SubscriptionSID = &sid
		summary.BillingCycle = &cycle
		summary.SubscriptionStart = &startDate
		summary.SubscriptionEnd = &endDate
		summary.AutoRenew = &autoRenew

		if days, ok := currentPlan.DaysRemaining(now); ok {
			summary.DaysRemaining = &days
		}
	}

	return summary, nil
}
