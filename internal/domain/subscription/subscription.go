package subscription

import (
	"fmt"
	"time"

	vo "github.com/florascan-inc/florascan/internal/domain/subscription/valueobjects"
	"github.com/florascan-inc/florascan/internal/shared/id"
)

// Subscription represents the subscription aggregate root: a user's
// time-bounded entitlement to a plan. Subscriptions are never physically
// deleted; cancellation and expiry are status transitions.
type Subscription struct {
	id           uint
	sid          string
	userID       uint
	planID       uint
	status       vo.SubscriptionStatus
	startDate    time.Time
	endDate      time.Time
	autoRenew    bool
	billingCycle vo.BillingCycle
	paymentRef   *string
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewSubscription creates a subscription starting now. Checkout has already
// confirmed payment by the time this is called, so the subscription is
// created active with its end date one billing period ahead.
func NewSubscription(userID, planID uint, cycle vo.BillingCycle, autoRenew bool, paymentRef *string) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !cycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", cycle)
	}

	now := time.Now().UTC()
	return &Subscription{
		sid:          id.MustGenerateWithPrefix(id.PrefixSubscription, id.DefaultLength),
		userID:       userID,
		planID:       planID,
		status:       vo.StatusActive,
		startDate:    now,
		endDate:      now.AddDate(0, 0, cycle.PeriodDays()),
		autoRenew:    autoRenew,
		billingCycle: cycle,
		paymentRef:   paymentRef,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// SubscriptionReconstructParams carries the persisted state of a subscription.
type SubscriptionReconstructParams struct {
	ID           uint
	SID          string
	UserID       uint
	PlanID       uint
	Status       vo.SubscriptionStatus
	StartDate    time.Time
	EndDate      time.Time
	AutoRenew    bool
	BillingCycle vo.BillingCycle
	PaymentRef   *string
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReconstructSubscription reconstructs a subscription from persistence.
func ReconstructSubscription(params SubscriptionReconstructParams) (*Subscription, error) {
	if params.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if params.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if params.PlanID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[params.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", params.Status)
	}
	if !params.BillingCycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", params.BillingCycle)
	}

	return &Subscription{
		id:           params.ID,
		sid:          params.SID,
		userID:       params.UserID,
		planID:       params.PlanID,
		status:       params.Status,
		startDate:    params.StartDate,
		endDate:      params.EndDate,
		autoRenew:    params.AutoRenew,
		billingCycle: params.BillingCycle,
		paymentRef:   params.PaymentRef,
		version:      params.Version,
		createdAt:    params.CreatedAt,
		updatedAt:    params.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.id
}

func (s *Subscription) SetID(subID uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if subID == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = subID
	return nil
}

func (s *Subscription) SID() string {
	return s.sid
}

func (s *Subscription) UserID() uint {
	return s.userID
}

func (s *Subscription) PlanID() uint {
	return s.planID
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

func (s *Subscription) StartDate() time.Time {
	return s.startDate
}

func (s *Subscription) EndDate() time.Time {
	return s.endDate
}

func (s *Subscription) AutoRenew() bool {
	return s.autoRenew
}

func (s *Subscription) BillingCycle() vo.BillingCycle {
	return s.billingCycle
}

func (s *Subscription) PaymentRef() *string {
	return s.paymentRef
}

func (s *Subscription) Version() int {
	return s.version
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// IsCurrent reports whether this subscription satisfies the "current
// subscription" predicate: active and not yet past its end date.
func (s *Subscription) IsCurrent(now time.Time) bool {
	return s.status.IsActive() && s.endDate.After(now)
}

// Renew extends a lapsed or running subscription by one billing period.
// The new period counts from the later of the old end date and now, so a
// long-lapsed subscription does not accrue backdated time.
func (s *Subscription) Renew(now time.Time) error {
	if s.status == vo.StatusCancelled {
		return fmt.Errorf("cannot renew a cancelled subscription")
	}

	base := s.endDate
	if now.After(base) {
		base = now
	}
	s.endDate = base.AddDate(0, 0, s.billingCycle.PeriodDays())
	s.status = vo.StatusActive
	s.touch()
	return nil
}

// MarkAsExpired deactivates a subscription whose period has elapsed.
func (s *Subscription) MarkAsExpired() error {
	if s.status == vo.StatusExpired {
		return fmt.Errorf("subscription is already expired")
	}
	s.status = vo.StatusExpired
	s.touch()
	return nil
}

// Cancel deactivates the subscription and clears auto-renew. The row is
// kept for history.
func (s *Subscription) Cancel() error {
	if s.status == vo.StatusCancelled {
		return fmt.Errorf("subscription is already cancelled")
	}
	s.status = vo.StatusCancelled
	s.autoRenew = false
	s.touch()
	return nil
}

// SetAutoRenew toggles the auto-renew flag.
func (s *Subscription) SetAutoRenew(enabled bool) {
	if s.autoRenew == enabled {
		return
	}
	s.autoRenew = enabled
	s.touch()
}

func (s *Subscription) touch() {
	s.version++
	s.updatedAt = time.Now().UTC()
}
