package usecases

import (
	"context"
	"fmt"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	"github.com/florascan-inc/florascan/internal/shared/biztime"
	apperrors "github.com/florascan-inc/florascan/internal/shared/errors"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// maxQuotaAttempts bounds the insert-or-reread recovery loop for the
// first-action-of-the-day race. Two rounds suffice in practice; three
// leaves headroom without risking an unbounded spin.
const maxQuotaAttempts = 3

// QuotaDecision is the outcome of one metered consumption attempt.
type QuotaDecision struct {
	Allowed     bool
	Used        uint
	Limit       *uint // nil when the plan is unlimited
	Remaining   uint  // zero when unlimited or exhausted
	IsUnlimited bool
}

// ConsumeQuotaUseCase meters one action against the user's daily allowance.
// The allowance comes from the user's current plan; usage is tracked per
// business calendar day and the day change implicitly resets it. Unlimited
// plans still record usage so summaries stay accurate.
type ConsumeQuotaUseCase struct {
	quotaRepo subscription.QuotaRecordRepository
	resolver  *CurrentPlanResolver
	txRunner  TxRunner
	logger    logger.Interface
}

func NewConsumeQuotaUseCase(
	quotaRepo subscription.QuotaRecordRepository,
	resolver *CurrentPlanResolver,
	txRunner TxRunner,
	logger logger.Interface,
) *ConsumeQuotaUseCase {
	return &ConsumeQuotaUseCase{
		quotaRepo: quotaRepo,
		resolver:  resolver,
		txRunner:  txRunner,
		logger:    logger,
	}
}

// Execute attempts to consume one metered action for the user today.
// When the allowance is exhausted it returns subscription.ErrQuotaExceeded
// alongside a decision describing the standing; nothing is recorded in
// that case.
func (uc *ConsumeQuotaUseCase) Execute(ctx context.Context, userID uint) (*QuotaDecision, error) {
	if userID == 0 {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	now := biztime.NowUTC()
	today := biztime.DateOf(now)

	currentPlan, err := uc.resolver.Resolve(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	var decision *QuotaDecision
	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		record, err := uc.fetchOrCreateRecord(txCtx, userID, today)
		if err != nil {
			return err
		}

		limit := currentPlan.DailyAllowance()

		if !currentPlan.IsUnlimited() && record.AttemptsUsed() >= *limit {
			decision = &QuotaDecision{
				Allowed: false,
				Used:    record.AttemptsUsed(),
				Limit:   limit,
			}
			return subscription.ErrQuotaExceeded
		}

		record.Increment()
		if err := uc.quotaRepo.Update(txCtx, record); err != nil {
			return fmt.Errorf("failed to persist quota usage: %w", err)
		}

		decision = &QuotaDecision{
			Allowed:     true,
			Used:        record.AttemptsUsed(),
			Limit:       limit,
			IsUnlimited: currentPlan.IsUnlimited(),
		}
		if limit != nil && *limit > decision.Used {
			decision.Remaining = *limit - decision.Used
		}
		return nil
	})

	if err != nil {
		if err == subscription.ErrQuotaExceeded {
			uc.logger.Debugw("quota exceeded",
				"user_id", userID,
				"usage_date", today,
				"used", decision.Used,
			)
			return decision, err
		}
		return nil, err
	}

	return decision, nil
}

// fetchOrCreateRecord returns today's counter row, creating it when this is
// the user's first metered action of the day. Two instances can race the
// insert; the unique index on (user_id, usage_date) decides the winner and
// the loser re-reads the winner's row.
func (uc *ConsumeQuotaUseCase) fetchOrCreateRecord(ctx context.Context, userID uint, today string) (*subscription.QuotaRecord, error) {
	for attempt := 0; attempt < maxQuotaAttempts; attempt++ {
		record, err := uc.quotaRepo.GetByUserAndDate(ctx, userID, today)
		if err != nil {
			return nil, err
		}
		if record != nil {
			return record, nil
		}

		record, err = subscription.NewQuotaRecord(userID, today)
		if err != nil {
			return nil, err
		}

		err = uc.quotaRepo.Create(ctx, record)
		if err == nil {
			return record, nil
		}
		if !apperrors.IsDuplicateError(err) {
			return nil, fmt.Errorf("failed to create quota record: %w", err)
		}

		uc.logger.Debugw("lost quota record insert race, re-reading",
			"user_id", userID,
			"usage_date", today,
			"attempt", attempt+1,
		)
	}

	return nil, fmt.Errorf("failed to obtain quota record for user %d on %s after %d attempts", userID, today, maxQuotaAttempts)
}
