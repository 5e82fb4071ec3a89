package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopLockerAlwaysGrants(t *testing.T) {
	locker := NewNoopLocker()
	ctx := context.Background()

	acquired, err := locker.Acquire(ctx, "florascan:job:reap_lapsed", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	// Even a second acquire of the same name succeeds
	acquired, err = locker.Acquire(ctx, "florascan:job:reap_lapsed", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	assert.NoError(t, locker.Release(ctx, "florascan:job:reap_lapsed"))
}
