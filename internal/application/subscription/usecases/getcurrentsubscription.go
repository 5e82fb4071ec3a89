package usecases

import (
	"context"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	"github.com/florascan-inc/florascan/internal/shared/biztime"
	apperrors "github.com/florascan-inc/florascan/internal/shared/errors"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// GetCurrentSubscriptionUseCase returns the plan a user is effectively on,
// including the free-plan fallback for users without a paid subscription.
type GetCurrentSubscriptionUseCase struct {
	resolver *CurrentPlanResolver
	logger   logger.Interface
}

func NewGetCurrentSubscriptionUseCase(
	resolver *CurrentPlanResolver,
	logger logger.Interface,
) *GetCurrentSubscriptionUseCase {
	return &GetCurrentSubscriptionUseCase{
		resolver: resolver,
		logger:   logger,
	}
}

func (uc *GetCurrentSubscriptionUseCase) Execute(ctx context.Context, userID uint) (subscription.CurrentPlan, error) {
	if userID == 0 {
		return subscription.CurrentPlan{}, apperrors.NewValidationError("user ID is required")
	}

	return uc.resolver.Resolve(ctx, userID, biztime.NowUTC())
}
