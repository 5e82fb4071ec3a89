package usecases

import (
	"context"
	"time"
)

// Notifier delivers subscription lifecycle notifications to users.
// Delivery failures are expected to be non-fatal for the calling job.
type Notifier interface {
	SendExpiryReminder(ctx context.Context, to, name, planName string, endDate time.Time, daysLeft int, autoRenew bool) error
	SendSubscriptionExpired(ctx context.Context, to, name, planName string, endDate time.Time) error
	SendSubscriptionRenewed(ctx context.Context, to, name, planName string, newEndDate time.Time) error
}

// TxRunner runs a function within a database transaction. Repositories
// called inside fn participate in the same transaction through the context.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
