// Package lock provides named, TTL-bounded leases used to keep scheduled
// jobs from running concurrently across worker instances.
package lock

import (
	"context"
	"time"
)

// Locker grants non-blocking named leases. Acquire returns false without
// error when another holder owns the lease; callers are expected to skip
// their work silently in that case. The TTL bounds how long a crashed
// holder can block others.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

// NoopLocker always grants the lease. Used when no redis backend is
// configured and the deployment runs a single worker instance.
type NoopLocker struct{}

func NewNoopLocker() *NoopLocker {
	return &NoopLocker{}
}

func (l *NoopLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (l *NoopLocker) Release(ctx context.Context, name string) error {
	return nil
}
