package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	apperrors "github.com/florascan-inc/florascan/internal/shared/errors"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestPlanRepository_CreateAndGet(t *testing.T) {
	repo := NewPlanRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	plan, err := subscription.NewPlan("Pro", "pro", "Professional tier", 1000, 20, uintPtr(50), false)
	require.NoError(t, err)
	plan.SetFeatures([]string{"priority-id", "batch-scan"})

	require.NoError(t, repo.Create(ctx, plan))
	assert.NotZero(t, plan.ID())

	found, err := repo.GetBySlug(ctx, "pro")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, plan.SID(), found.SID())
	assert.Equal(t, uint64(9600), found.YearlyPrice())
	assert.Equal(t, []string{"priority-id", "batch-scan"}, found.Features())

	missing, err := repo.GetBySlug(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPlanRepository_DuplicateSlugRejected(t *testing.T) {
	repo := NewPlanRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	first, err := subscription.NewPlan("Pro", "pro", "", 1000, 0, nil, false)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := subscription.NewPlan("Pro Again", "pro", "", 2000, 0, nil, false)
	require.NoError(t, err)

	err = repo.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateError(err))
}

func TestPlanRepository_GetAllActive(t *testing.T) {
	repo := NewPlanRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	free, err := subscription.NewPlan("Free", "free", "", 0, 0, uintPtr(3), true)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, free))

	pro, err := subscription.NewPlan("Pro", "pro", "", 1000, 0, uintPtr(50), false)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, pro))

	retired, err := subscription.NewPlan("Legacy", "legacy", "", 500, 0, uintPtr(10), false)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, retired))
	retired.Deactivate()
	require.NoError(t, repo.Update(ctx, retired))

	active, err := repo.GetAllActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)

	// Cheapest first
	assert.Equal(t, "free", active[0].Slug())
	assert.Equal(t, "pro", active[1].Slug())

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPlanRepository_Update(t *testing.T) {
	repo := NewPlanRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	plan, err := subscription.NewPlan("Pro", "pro", "", 1000, 20, uintPtr(50), false)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, plan))

	require.NoError(t, plan.UpdateDetails("Pro+", "More scans", 2000, 25, uintPtr(200)))
	require.NoError(t, repo.Update(ctx, plan))

	found, err := repo.GetByID(ctx, plan.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Pro+", found.Name())
	assert.Equal(t, uint64(18000), found.YearlyPrice())
	assert.Equal(t, uint(200), *found.DailyAllowance())
	assert.Equal(t, plan.Version(), found.Version())
}
