package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florascan-inc/florascan/internal/domain/subscription"
	apperrors "github.com/florascan-inc/florascan/internal/shared/errors"
)

func TestQuotaRecordRepository_CreateAndGet(t *testing.T) {
	repo := NewQuotaRecordRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	record, err := subscription.NewQuotaRecord(7, "2026-09-01")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, record))
	assert.NotZero(t, record.ID())

	found, err := repo.GetByUserAndDate(ctx, 7, "2026-09-01")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, record.ID(), found.ID())
	assert.Equal(t, uint(0), found.AttemptsUsed())
}

func TestQuotaRecordRepository_GetMissingReturnsNil(t *testing.T) {
	repo := NewQuotaRecordRepository(setupTestDB(t), testLogger())

	found, err := repo.GetByUserAndDate(context.Background(), 7, "2026-09-01")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestQuotaRecordRepository_DuplicateInsertDetectable(t *testing.T) {
	repo := NewQuotaRecordRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	first, err := subscription.NewQuotaRecord(7, "2026-09-01")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := subscription.NewQuotaRecord(7, "2026-09-01")
	require.NoError(t, err)

	err = repo.Create(ctx, second)
	require.Error(t, err)

	// The raw driver error must survive so the consume path can tell a
	// lost insert race apart from real failures
	assert.True(t, apperrors.IsDuplicateError(err))
}

func TestQuotaRecordRepository_SameUserDifferentDays(t *testing.T) {
	repo := NewQuotaRecordRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	monday, err := subscription.NewQuotaRecord(7, "2026-09-01")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, monday))

	tuesday, err := subscription.NewQuotaRecord(7, "2026-09-02")
	require.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, tuesday))
}

func TestQuotaRecordRepository_Update(t *testing.T) {
	repo := NewQuotaRecordRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	record, err := subscription.NewQuotaRecord(7, "2026-09-01")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, record))

	record.Increment()
	record.Increment()
	require.NoError(t, repo.Update(ctx, record))

	found, err := repo.GetByUserAndDate(ctx, 7, "2026-09-01")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, uint(2), found.AttemptsUsed())
}
