package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/florascan-inc/florascan/internal/shared/constants"
)

// PlanModel represents the database persistence model for subscription plans.
// This is the anti-corruption layer between domain and database.
type PlanModel struct {
	ID                    uint   `gorm:"primarykey"`
	SID                   string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: plan_xxx"`
	Name                  string `gorm:"not null;size:100"`
	Slug                  string `gorm:"uniqueIndex;not null;size:100"`
	Description           string `gorm:"size:500"`
	MonthlyPrice          uint64 `gorm:"not null;default:0;comment:price in cents"`
	YearlyPrice           uint64 `gorm:"not null;default:0;comment:price in cents"`
	YearlyDiscountPercent uint   `gorm:"not null;default:0"`
	DailyAllowance        *uint  `gorm:"comment:null means unlimited"`
	IsFree                bool   `gorm:"not null;default:false"`
	Status                string `gorm:"not null;size:20;index:idx_plan_status"`
	Features              datatypes.JSON
	Version               int `gorm:"not null;default:1"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return constants.TablePlans
}
