package models

import (
	"time"

	"github.com/florascan-inc/florascan/internal/shared/constants"
)

// ScheduledJobModel persists job metadata so schedules survive process
// restarts and operators can disable a job without redeploying.
type ScheduledJobModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;not null;size:100"`
	CronExpr  string `gorm:"not null;size:50"`
	Enabled   bool   `gorm:"not null;default:true"`
	LastRunAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (ScheduledJobModel) TableName() string {
	return constants.TableScheduledJobs
}
