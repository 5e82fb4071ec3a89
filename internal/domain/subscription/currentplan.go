package subscription

import (
	"fmt"
	"time"
)

// CurrentPlan is the resolved entitlement the quota guard meters against.
// It is a two-variant value: either a paid subscription with its plan, or
// the catalog's free plan when the user has no current paid subscription.
// The free variant carries no subscription and no end date; "no expiry" is
// an explicit state here rather than a sentinel timestamp far in the future.
type CurrentPlan struct {
	plan *Plan
	sub  *Subscription
}

// NewPaidCurrentPlan builds the paid variant.
func NewPaidCurrentPlan(sub *Subscription, plan *Plan) (CurrentPlan, error) {
	if sub == nil {
		return CurrentPlan{}, fmt.Errorf("subscription is required for a paid current plan")
	}
	if plan == nil {
		return CurrentPlan{}, fmt.Errorf("plan is required for a paid current plan")
	}
	if sub.PlanID() != plan.ID() {
		return CurrentPlan{}, fmt.Errorf("subscription plan mismatch: subscription references plan %d, got %d", sub.PlanID(), plan.ID())
	}
	return CurrentPlan{plan: plan, sub: sub}, nil
}

// NewFreeCurrentPlan builds the free variant.
func NewFreeCurrentPlan(plan *Plan) (CurrentPlan, error) {
	if plan == nil {
		return CurrentPlan{}, fmt.Errorf("plan is required for a free current plan")
	}
	return CurrentPlan{plan: plan}, nil
}

// Plan returns the effective plan for either variant.
func (c CurrentPlan) Plan() *Plan {
	return c.plan
}

// Subscription returns the paid subscription when present.
func (c CurrentPlan) Subscription() (*Subscription, bool) {
	return c.sub, c.sub != nil
}

// IsFree reports whether this is the free-tier fallback.
func (c CurrentPlan) IsFree() bool {
	return c.sub == nil
}

// DailyAllowance returns the effective daily allowance; nil means unlimited.
func (c CurrentPlan) DailyAllowance() *uint {
	return c.plan.DailyAllowance()
}

// IsUnlimited reports whether the effective plan has no daily limit.
func (c CurrentPlan) IsUnlimited() bool {
	return c.plan.IsUnlimited()
}

// DaysRemaining returns the whole days until the paid subscription ends.
// The second return is false for the free variant, which never expires.
func (c CurrentPlan) DaysRemaining(now time.Time) (int, bool) {
	if c.sub == nil {
		return 0, false
	}
	remaining := c.sub.EndDate().Sub(now)
	if remaining < 0 {
		return 0, true
	}
	return int(remaining.Hours() / 24), true
}
