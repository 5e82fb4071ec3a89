package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuotaRecord(t *testing.T) {
	record, err := NewQuotaRecord(1, "2026-09-01")
	require.NoError(t, err)

	assert.Equal(t, uint(1), record.UserID())
	assert.Equal(t, "2026-09-01", record.UsageDate())
	assert.Equal(t, uint(0), record.AttemptsUsed())
}

func TestNewQuotaRecordValidation(t *testing.T) {
	_, err := NewQuotaRecord(0, "2026-09-01")
	assert.Error(t, err)

	_, err = NewQuotaRecord(1, "")
	assert.Error(t, err)

	_, err = NewQuotaRecord(1, "01/09/2026")
	assert.Error(t, err)
}

func TestQuotaRecordIncrement(t *testing.T) {
	record, err := NewQuotaRecord(1, "2026-09-01")
	require.NoError(t, err)

	record.Increment()
	record.Increment()
	record.Increment()

	assert.Equal(t, uint(3), record.AttemptsUsed())
}

func TestQuotaRecordSetID(t *testing.T) {
	record, err := NewQuotaRecord(1, "2026-09-01")
	require.NoError(t, err)

	require.NoError(t, record.SetID(42))
	assert.Equal(t, uint(42), record.ID())

	assert.Error(t, record.SetID(43))
}
