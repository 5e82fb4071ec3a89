package email

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/florascan-inc/florascan/internal/shared/logger"
)

// Notifier is the delivery contract the retry decorator wraps.
type Notifier interface {
	SendExpiryReminder(ctx context.Context, to, name, planName string, endDate time.Time, daysLeft int, autoRenew bool) error
	SendSubscriptionExpired(ctx context.Context, to, name, planName string, endDate time.Time) error
	SendSubscriptionRenewed(ctx context.Context, to, name, planName string, newEndDate time.Time) error
}

// RetryNotifier retries failed deliveries a fixed number of times with a
// constant delay. SMTP hiccups are transient often enough that a short
// retry recovers most failures; the final error still surfaces so callers
// can count the delivery as failed.
type RetryNotifier struct {
	inner      Notifier
	maxRetries uint64
	delay      time.Duration
	logger     logger.Interface
}

func NewRetryNotifier(inner Notifier, maxRetries int, delay time.Duration, log logger.Interface) *RetryNotifier {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryNotifier{
		inner:      inner,
		maxRetries: uint64(maxRetries),
		delay:      delay,
		logger:     log,
	}
}

func (r *RetryNotifier) SendExpiryReminder(ctx context.Context, to, name, planName string, endDate time.Time, daysLeft int, autoRenew bool) error {
	return r.send(ctx, "expiry_reminder", to, func(ctx context.Context) error {
		return r.inner.SendExpiryReminder(ctx, to, name, planName, endDate, daysLeft, autoRenew)
	})
}

func (r *RetryNotifier) SendSubscriptionExpired(ctx context.Context, to, name, planName string, endDate time.Time) error {
	return r.send(ctx, "subscription_expired", to, func(ctx context.Context) error {
		return r.inner.SendSubscriptionExpired(ctx, to, name, planName, endDate)
	})
}

func (r *RetryNotifier) SendSubscriptionRenewed(ctx context.Context, to, name, planName string, newEndDate time.Time) error {
	return r.send(ctx, "subscription_renewed", to, func(ctx context.Context) error {
		return r.inner.SendSubscriptionRenewed(ctx, to, name, planName, newEndDate)
	})
}

func (r *RetryNotifier) send(ctx context.Context, kind, to string, fn func(ctx context.Context) error) error {
	attempt := 0
	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewConstant(r.delay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := fn(ctx); err != nil {
			r.logger.Warnw("notification delivery failed",
				"kind", kind,
				"to", to,
				"attempt", attempt,
				"error", err,
			)
			return retry.RetryableError(err)
		}
		return nil
	})

	if err != nil {
		r.logger.Errorw("notification delivery abandoned",
			"kind", kind,
			"to", to,
			"attempts", attempt,
			"error", err,
		)
		return err
	}

	return nil
}
