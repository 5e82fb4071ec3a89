package models

import (
	"time"

	"github.com/florascan-inc/florascan/internal/shared/constants"
)

// QuotaRecordModel represents the database persistence model for daily
// usage counters. The composite unique index on (user_id, usage_date) is
// the authority that prevents two racing first-scans-of-the-day from both
// inserting a row.
type QuotaRecordModel struct {
	ID           uint   `gorm:"primarykey"`
	UserID       uint   `gorm:"not null;uniqueIndex:idx_user_usage_date,priority:1"`
	UsageDate    string `gorm:"not null;size:10;uniqueIndex:idx_user_usage_date,priority:2;comment:YYYY-MM-DD in business timezone"`
	AttemptsUsed uint   `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (QuotaRecordModel) TableName() string {
	return constants.TableQuotaRecords
}
