package usecases

import (
	"context"
	"fmt"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

type ListPlansQuery struct {
	IncludeInactive bool
}

type ListPlansUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewListPlansUseCase(
	planRepo subscription.PlanRepository,
	logger logger.Interface,
) *ListPlansUseCase {
	return &ListPlansUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context, query ListPlansQuery) ([]*subscription.Plan, error) {
	var plans []*subscription.Plan
	var err error

	if query.IncludeInactive {
		plans, err = uc.planRepo.GetAll(ctx)
	} else {
		plans, err = uc.planRepo.GetAllActive(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	return plans, nil
}
