package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/florascan-inc/florascan/internal/domain/subscription/valueobjects"
)

// --- helpers ---

func newMonthlySubscription(t *testing.T) *Subscription {
	t.Helper()
	sub, err := NewSubscription(1, 1, vo.BillingCycleMonthly, false, nil)
	require.NoError(t, err)
	require.NotNil(t, sub)
	return sub
}

func reconstructSubscription(t *testing.T, status vo.SubscriptionStatus, endDate time.Time, autoRenew bool) *Subscription {
	t.Helper()
	start := endDate.AddDate(0, 0, -30)
	sub, err := ReconstructSubscription(SubscriptionReconstructParams{
		ID:           1,
		SID:          "sub_test123",
		UserID:       10,
		PlanID:       100,
		Status:       status,
		StartDate:    start,
		EndDate:      endDate,
		AutoRenew:    autoRenew,
		BillingCycle: vo.BillingCycleMonthly,
		Version:      1,
		CreatedAt:    start,
		UpdatedAt:    start,
	})
	require.NoError(t, err)
	return sub
}

// --- creation ---

func TestNewSubscription(t *testing.T) {
	sub := newMonthlySubscription(t)

	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Equal(t, uint(1), sub.UserID())
	assert.Equal(t, uint(1), sub.PlanID())
	assert.True(t, sub.SID() != "")

	// One monthly period ahead of the start date
	expected := sub.StartDate().AddDate(0, 0, 30)
	assert.Equal(t, expected, sub.EndDate())
}

func TestNewSubscriptionYearlyPeriod(t *testing.T) {
	sub, err := NewSubscription(1, 1, vo.BillingCycleYearly, true, nil)
	require.NoError(t, err)

	expected := sub.StartDate().AddDate(0, 0, 365)
	assert.Equal(t, expected, sub.EndDate())
	assert.True(t, sub.AutoRenew())
}

func TestNewSubscriptionValidation(t *testing.T) {
	_, err := NewSubscription(0, 1, vo.BillingCycleMonthly, false, nil)
	assert.Error(t, err)

	_, err = NewSubscription(1, 0, vo.BillingCycleMonthly, false, nil)
	assert.Error(t, err)

	_, err = NewSubscription(1, 1, vo.BillingCycle("weekly"), false, nil)
	assert.Error(t, err)
}

// --- current predicate ---

func TestIsCurrent(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		status  vo.SubscriptionStatus
		endDate time.Time
		want    bool
	}{
		{"active and running", vo.StatusActive, now.Add(24 * time.Hour), true},
		{"active but lapsed", vo.StatusActive, now.Add(-time.Hour), false},
		{"cancelled", vo.StatusCancelled, now.Add(24 * time.Hour), false},
		{"expired", vo.StatusExpired, now.Add(24 * time.Hour), false},
		{"end date exactly now", vo.StatusActive, now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := reconstructSubscription(t, tt.status, tt.endDate, false)
			assert.Equal(t, tt.want, sub.IsCurrent(now))
		})
	}
}

// --- renewal ---

func TestRenewRunningSubscriptionExtendsFromEndDate(t *testing.T) {
	now := time.Now().UTC()
	endDate := now.Add(48 * time.Hour)
	sub := reconstructSubscription(t, vo.StatusActive, endDate, true)

	require.NoError(t, sub.Renew(now))

	assert.Equal(t, endDate.AddDate(0, 0, 30), sub.EndDate())
	assert.Equal(t, vo.StatusActive, sub.Status())
}

func TestRenewLapsedSubscriptionExtendsFromNow(t *testing.T) {
	now := time.Now().UTC()
	endDate := now.AddDate(0, 0, -90)
	sub := reconstructSubscription(t, vo.StatusActive, endDate, true)

	require.NoError(t, sub.Renew(now))

	// No backdated time accrues for the lapsed gap
	assert.Equal(t, now.AddDate(0, 0, 30), sub.EndDate())
	assert.Equal(t, vo.StatusActive, sub.Status())
}

func TestRenewCancelledSubscriptionRejected(t *testing.T) {
	now := time.Now().UTC()
	sub := reconstructSubscription(t, vo.StatusCancelled, now.Add(-time.Hour), true)

	err := sub.Renew(now)
	assert.Error(t, err)
	assert.Equal(t, vo.StatusCancelled, sub.Status())
}

func TestRenewBumpsVersion(t *testing.T) {
	now := time.Now().UTC()
	sub := reconstructSubscription(t, vo.StatusActive, now.Add(-time.Hour), true)
	before := sub.Version()

	require.NoError(t, sub.Renew(now))
	assert.Equal(t, before+1, sub.Version())
}

// --- expiry ---

func TestMarkAsExpired(t *testing.T) {
	now := time.Now().UTC()
	sub := reconstructSubscription(t, vo.StatusActive, now.Add(-time.Hour), false)

	require.NoError(t, sub.MarkAsExpired())
	assert.Equal(t, vo.StatusExpired, sub.Status())

	// Idempotence is a caller concern; a second call is rejected
	assert.Error(t, sub.MarkAsExpired())
}

// --- cancellation ---

func TestCancel(t *testing.T) {
	sub := newMonthlySubscription(t)
	sub.SetAutoRenew(true)

	require.NoError(t, sub.Cancel())

	assert.Equal(t, vo.StatusCancelled, sub.Status())
	assert.False(t, sub.AutoRenew())

	assert.Error(t, sub.Cancel())
}

func TestSetAutoRenewNoopWhenUnchanged(t *testing.T) {
	sub := newMonthlySubscription(t)
	before := sub.Version()

	sub.SetAutoRenew(false)
	assert.Equal(t, before, sub.Version())

	sub.SetAutoRenew(true)
	assert.Equal(t, before+1, sub.Version())
}
