package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/florascan-inc/florascan/internal/domain/subscription/valueobjects"
)

func reconstructPlanForTest(t *testing.T, planID uint, allowance *uint, isFree bool) *Plan {
	t.Helper()
	now := time.Now().UTC()
	plan, err := ReconstructPlan(PlanReconstructParams{
		ID:             planID,
		SID:            "plan_test",
		Name:           "Test",
		Slug:           "test",
		DailyAllowance: allowance,
		IsFree:         isFree,
		Status:         string(PlanStatusActive),
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	require.NoError(t, err)
	return plan
}

func TestNewPaidCurrentPlan(t *testing.T) {
	plan := reconstructPlanForTest(t, 100, uintPtr(50), false)
	sub := reconstructSubscription(t, vo.StatusActive, time.Now().UTC().Add(24*time.Hour), false)

	cp, err := NewPaidCurrentPlan(sub, plan)
	require.NoError(t, err)

	assert.False(t, cp.IsFree())
	got, ok := cp.Subscription()
	assert.True(t, ok)
	assert.Equal(t, sub, got)
	assert.Equal(t, uint(50), *cp.DailyAllowance())
}

func TestNewPaidCurrentPlanMismatch(t *testing.T) {
	plan := reconstructPlanForTest(t, 999, nil, false)
	sub := reconstructSubscription(t, vo.StatusActive, time.Now().UTC().Add(24*time.Hour), false)

	_, err := NewPaidCurrentPlan(sub, plan)
	assert.Error(t, err)
}

func TestNewFreeCurrentPlan(t *testing.T) {
	plan := reconstructPlanForTest(t, 1, uintPtr(3), true)

	cp, err := NewFreeCurrentPlan(plan)
	require.NoError(t, err)

	assert.True(t, cp.IsFree())
	_, ok := cp.Subscription()
	assert.False(t, ok)

	// The free variant has no end date, not a far-future one
	_, hasEnd := cp.DaysRemaining(time.Now().UTC())
	assert.False(t, hasEnd)
}

func TestDaysRemaining(t *testing.T) {
	now := time.Now().UTC()
	plan := reconstructPlanForTest(t, 100, nil, false)

	sub := reconstructSubscription(t, vo.StatusActive, now.Add(72*time.Hour), false)
	cp, err := NewPaidCurrentPlan(sub, plan)
	require.NoError(t, err)

	days, ok := cp.DaysRemaining(now)
	assert.True(t, ok)
	assert.Equal(t, 3, days)

	// Past-end subscription reports zero, never negative
	lapsed := reconstructSubscription(t, vo.StatusActive, now.Add(-time.Hour), false)
	cp, err = NewPaidCurrentPlan(lapsed, plan)
	require.NoError(t, err)

	days, ok = cp.DaysRemaining(now)
	assert.True(t, ok)
	assert.Equal(t, 0, days)
}

func TestCurrentPlanUnlimited(t *testing.T) {
	plan := reconstructPlanForTest(t, 1, nil, true)
	cp, err := NewFreeCurrentPlan(plan)
	require.NoError(t, err)

	assert.True(t, cp.IsUnlimited())
	assert.Nil(t, cp.DailyAllowance())
}
