package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/florascan-inc/florascan/internal/infrastructure/persistence/models"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.QuotaRecordModel{},
		&models.UserModel{},
		&models.ScheduledJobModel{},
	)
	require.NoError(t, err)

	return gdb
}

func testLogger() logger.Interface {
	return logger.NewLogger()
}

// seedSubscription inserts a ledger row directly so query tests can place
// end dates anywhere, including in the past.
func seedSubscription(t *testing.T, gdb *gorm.DB, sid string, userID uint, status string, endDate time.Time, autoRenew bool) {
	t.Helper()
	now := time.Now().UTC()
	model := &models.SubscriptionModel{
		SID:          sid,
		UserID:       userID,
		PlanID:       1,
		Status:       status,
		StartDate:    endDate.AddDate(0, 0, -30),
		EndDate:      endDate,
		AutoRenew:    autoRenew,
		BillingCycle: "monthly",
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, gdb.Create(model).Error)
}
