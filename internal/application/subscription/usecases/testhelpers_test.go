package usecases

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	vo "github.com/florascan-inc/florascan/internal/domain/subscription/valueobjects"
	"github.com/florascan-inc/florascan/internal/domain/user"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLogger()
}

func uintPtr(v uint) *uint {
	return &v
}

// --- domain builders ---

func buildPlan(t *testing.T, id uint, slug string, allowance *uint, isFree bool) *subscription.Plan {
	t.Helper()
	now := time.Now().UTC()
	plan, err := subscription.ReconstructPlan(subscription.PlanReconstructParams{
		ID:             id,
		SID:            fmt.Sprintf("plan_%d", id),
		Name:           slug,
		Slug:           slug,
		DailyAllowance: allowance,
		IsFree:         isFree,
		Status:         string(subscription.PlanStatusActive),
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	require.NoError(t, err)
	return plan
}

func buildSubscription(t *testing.T, id, userID, planID uint, status vo.SubscriptionStatus, endDate time.Time, autoRenew bool) *subscription.Subscription {
	t.Helper()
	start := endDate.AddDate(0, 0, -30)
	sub, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:           id,
		SID:          fmt.Sprintf("sub_%d", id),
		UserID:       userID,
		PlanID:       planID,
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

func buildUser(t *testing.T, id uint, email string) *user.User {
	t.Helper()
	now := time.Now().UTC()
	u, err := user.ReconstructUser(id, email, "Test User", now, now)
	require.NoError(t, err)
	return u
}

// --- fakes ---

type fakePlanRepo struct {
	plans  []*subscription.Plan
	nextID uint
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *subscription.Plan) error {
	for _, p := range r.plans {
		if p.Slug() == plan.Slug() {
			return errors.New("Error 1062: Duplicate entry")
		}
	}
	r.nextID++
	if err := plan.SetID(r.nextID); err != nil {
		return err
	}
	r.plans = append(r.plans, plan)
	return nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	for _, p := range r.plans {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) GetBySID(ctx context.Context, sid string) (*subscription.Plan, error) {
	for _, p := range r.plans {
		if p.SID() == sid {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) GetBySlug(ctx context.Context, slug string) (*subscription.Plan, error) {
	for _, p := range r.plans {
		if p.Slug() == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) GetAllActive(ctx context.Context) ([]*subscription.Plan, error) {
	var out []*subscription.Plan
	for _, p := range r.plans {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) GetAll(ctx context.Context) ([]*subscription.Plan, error) {
	return r.plans, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *subscription.Plan) error {
	return nil
}

type fakeSubscriptionRepo struct {
	subs    []*subscription.Subscription
	nextID  uint
	updated []*subscription.Subscription
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	r.nextID++
	if err := sub.SetID(r.nextID); err != nil {
		return err
	}
	r.subs = append(r.subs, sub)
	return nil
}

func (r *fakeSubscriptionRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	for _, s := range r.subs {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	for _, s := range r.subs {
		if s.SID() == sid {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) GetCurrentByUserID(ctx context.Context, userID uint, now time.Time) (*subscription.Subscription, error) {
	var current *subscription.Subscription
	for _, s := range r.subs {
		if s.UserID() != userID || !s.IsCurrent(now) {
			continue
		}
		if current == nil || s.EndDate().After(current.EndDate()) {
			current = s
		}
	}
	return current, nil
}

func (r *fakeSubscriptionRepo) FindActiveEndingBetween(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	var out []*subscription.Subscription
	for _, s := range r.subs {
		if !s.Status().IsActive() {
			continue
		}
		if s.EndDate().Before(from) || s.EndDate().After(to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) FindLapsed(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	var out []*subscription.Subscription
	for _, s := range r.subs {
		if s.Status().IsActive() && s.EndDate().Before(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	r.updated = append(r.updated, sub)
	return nil
}

type fakeQuotaRepo struct {
	records    map[string]*subscription.QuotaRecord
	nextID     uint
	createHook func() error // invoked before each Create; one-shot hooks reset themselves
}

func newFakeQuotaRepo() *fakeQuotaRepo {
	return &fakeQuotaRepo{records: make(map[string]*subscription.QuotaRecord)}
}

func quotaKey(userID uint, date string) string {
	return fmt.Sprintf("%d|%s", userID, date)
}

func (r *fakeQuotaRepo) Create(ctx context.Context, record *subscription.QuotaRecord) error {
	if r.createHook != nil {
		if err := r.createHook(); err != nil {
			return err
		}
	}
	key := quotaKey(record.UserID(), record.UsageDate())
	if _, ok := r.records[key]; ok {
		return errors.New("Error 1062: Duplicate entry")
	}
	r.nextID++
	if err := record.SetID(r.nextID); err != nil {
		return err
	}
	r.records[key] = record
	return nil
}

func (r *fakeQuotaRepo) GetByUserAndDate(ctx context.Context, userID uint, usageDate string) (*subscription.QuotaRecord, error) {
	return r.records[quotaKey(userID, usageDate)], nil
}

func (r *fakeQuotaRepo) Update(ctx context.Context, record *subscription.QuotaRecord) error {
	r.records[quotaKey(record.UserID(), record.UsageDate())] = record
	return nil
}

// plant inserts a record directly, as if another instance created it.
func (r *fakeQuotaRepo) plant(t *testing.T, userID uint, date string, attempts uint) {
	t.Helper()
	now := time.Now().UTC()
	r.nextID++
	record, err := subscription.ReconstructQuotaRecord(r.nextID, userID, date, attempts, now, now)
	require.NoError(t, err)
	r.records[quotaKey(userID, date)] = record
}

type fakeUserRepo struct {
	users []*user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.users = append(r.users, u)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	for _, u := range r.users {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		for _, u := range r.users {
			if u.ID() == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

type notifierCall struct {
	kind      string
	to        string
	planName  string
	endDate   time.Time
	daysLeft  int
	autoRenew bool
}

type fakeNotifier struct {
	calls []notifierCall
	err   error
}

func (n *fakeNotifier) SendExpiryReminder(ctx context.Context, to, name, planName string, endDate time.Time, daysLeft int, autoRenew bool) error {
	if n.err != nil {
		return n.err
	}
	n.calls = append(n.calls, notifierCall{
		kind: "reminder", to: to, planName: planName,
		endDate: endDate, daysLeft: daysLeft, autoRenew: autoRenew,
	})
	return nil
}

func (n *fakeNotifier) SendSubscriptionExpired(ctx context.Context, to, name, planName string, endDate time.Time) error {
	if n.err != nil {
		return n.err
	}
	n.calls = append(n.calls, notifierCall{kind: "expired", to: to, planName: planName, endDate: endDate})
	return nil
}

func (n *fakeNotifier) SendSubscriptionRenewed(ctx context.Context, to, name, planName string, newEndDate time.Time) error {
	if n.err != nil {
		return n.err
	}
	n.calls = append(n.calls, notifierCall{kind: "renewed", to: to, planName: planName, endDate: newEndDate})
	return nil
}

// fakeTxRunner runs the function directly; fakes have no real transactions.
type fakeTxRunner struct{}

func (f *fakeTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
