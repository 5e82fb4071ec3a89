package subscription

import (
	"context"
	"time"
)

// PlanRepository persists the plan catalog.
// Lookup methods return (nil, nil) when no row matches.
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetBySID(ctx context.Context, sid string) (*Plan, error)
	GetBySlug(ctx context.Context, slug string) (*Plan, error)
	GetAllActive(ctx context.Context) ([]*Plan, error)
	GetAll(ctx context.Context) ([]*Plan, error)
	Update(ctx context.Context, plan *Plan) error
}

// SubscriptionRepository persists the subscription ledger.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)

	// GetCurrentByUserID returns the user's current subscription: the one
	// with the latest end date among active subscriptions ending after now.
	// Returns (nil, nil) when the user has none.
	GetCurrentByUserID(ctx context.Context, userID uint, now time.Time) (*Subscription, error)

	// FindActiveEndingBetween returns active subscriptions whose end date
	// falls within [from, to]. Used by the expiry notifier.
	FindActiveEndingBetween(ctx context.Context, from, to time.Time) ([]*Subscription, error)

	// FindLapsed returns active subscriptions whose end date is before now.
	// Used by the expiry reaper.
	FindLapsed(ctx context.Context, now time.Time) ([]*Subscription, error)

	Update(ctx context.Context, sub *Subscription) error
}

// QuotaRecordRepository persists per-user per-day usage counters.
// Create must surface the DB duplicate-key error unchanged so callers can
// recover from the first-action-of-the-day race by re-reading.
type QuotaRecordRepository interface {
	Create(ctx context.Context, record *QuotaRecord) error
	GetByUserAndDate(ctx context.Context, userID uint, usageDate string) (*QuotaRecord, error)
	Update(ctx context.Context, record *QuotaRecord) error
}
