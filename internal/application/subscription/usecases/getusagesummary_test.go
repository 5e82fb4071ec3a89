package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/florascan-inc/florascan/internal/domain/subscription/valueobjects"
	"github.com/florascan-inc/florascan/internal/shared/biztime"
)

type summaryFixture struct {
	uc        *GetUsageSummaryUseCase
	quotaRepo *fakeQuotaRepo
	subRepo   *fakeSubscriptionRepo
	planRepo  *fakePlanRepo
}

func newSummaryFixture(t *testing.T) *summaryFixture {
	t.Helper()
	quotaRepo := newFakeQuotaRepo()
	subRepo := &fakeSubscriptionRepo{}
	planRepo := &fakePlanRepo{}
	resolver := NewCurrentPlanResolver(subRepo, planRepo, "free", testLogger())
	uc := NewGetUsageSummaryUseCase(quotaRepo, resolver, testLogger())
	return &summaryFixture{uc: uc, quotaRepo: quotaRepo, subRepo: subRepo, planRepo: planRepo}
}

func TestUsageSummaryPaidPlan(t *testing.T) {
	fx := newSummaryFixture(t)
	now := time.Now().UTC()

	pro := buildPlan(t, 2, "pro", uintPtr(50), false)
	fx.planRepo.plans = append(fx.planRepo.plans, pro)
	sub := buildSubscription(t, 1, 7, 2, vo.StatusActive, now.Add(73*time.Hour), true)
	fx.subRepo.subs = append(fx.subRepo.subs, sub)

	today := biztime.DateOf(biztime.NowUTC())
	fx.quotaRepo.plant(t, 7, today, 12)

	summary, err := fx.uc.Execute(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, pro.SID(), summary.PlanSID)
	assert.Equal(t, "pro", summary.PlanSlug)
	assert.False(t, summary.IsFree)
	assert.Equal(t, uint(12), summary.AttemptsUsed)
	require.NotNil(t, summary.Remaining)
	assert.Equal(t, uint(38), *summary.Remaining)
	assert.False(t, summary.LimitReached)

	require.NotNil(t, summary.SubscriptionSID)
	assert.Equal(t, sub.SID(), *summary.SubscriptionSID)
	require.NotNil(t, summary.BillingCycle)
	assert.Equal(t, "monthly", *summary.BillingCycle)
	require.NotNil(t, summary.SubscriptionStart)
	assert.Equal(t, sub.StartDate(), *summary.SubscriptionStart)
	require.NotNil(t, summary.SubscriptionEnd)
	assert.Equal(t, sub.EndDate(), *summary.SubscriptionEnd)
	require.NotNil(t, summary.DaysRemaining)
	assert.Equal(t, 3, *summary.DaysRemaining)
	require.NotNil(t, summary.AutoRenew)
	assert.True(t, *summary.AutoRenew)
}

func TestUsageSummaryLimitReached(t *testing.T) {
	fx := newSummaryFixture(t)
	fx.planRepo.plans = append(fx.planRepo.plans, buildPlan(t, 1, "free", uintPtr(3), true))

	today := biztime.DateOf(biztime.NowUTC())
	fx.quotaRepo.plant(t, 7, today, 3)

	summary, err := fx.uc.Execute(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, summary.LimitReached)
	require.NotNil(t, summary.Remaining)
	assert.Equal(t, uint(0), *summary.Remaining)
}

func TestUsageSummaryFreePlanHasNoSubscriptionFields(t *testing.T) {
	fx := newSummaryFixture(t)
	fx.planRepo.plans = append(fx.planRepo.plans, buildPlan(t, 1, "free", uintPtr(3), true))

	summary, err := fx.uc.Execute(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, summary.IsFree)
	assert.Equal(t, uint(0), summary.AttemptsUsed)
	assert.False(t, summary.LimitReached)
	assert.Nil(t, summary.SubscriptionSID)
	assert.Nil(t, summary.BillingCycle)
	assert.Nil(t, summary.SubscriptionStart)
	assert.Nil(t, summary.SubscriptionEnd)
	assert.Nil(t, summary.DaysRemaining)
	assert.Nil(t, summary.AutoRenew)

	// The read-only summary must not have created a counter row
	today := biztime.DateOf(biztime.NowUTC())
	record, err := fx.quotaRepo.GetByUserAndDate(context.Background(), 7, today)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestUsageSummaryUnlimitedPlan(t *testing.T) {
	fx := newSummaryFixture(t)
	now := time.Now().UTC()

	fx.planRepo.plans = append(fx.planRepo.plans, buildPlan(t, 2, "enterprise", nil, false))
	fx.subRepo.subs = append(fx.subRepo.subs,
		buildSubscription(t, 1, 7, 2, vo.StatusActive, now.Add(72*time.Hour), true))

	summary, err := fx.uc.Execute(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, summary.IsUnlimited)
	assert.Nil(t, summary.Remaining)
	assert.False(t, summary.LimitReached)
}
