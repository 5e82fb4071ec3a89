package models

import (
	"time"

	"github.com/florascan-inc/florascan/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions.
type SubscriptionModel struct {
	ID           uint      `gorm:"primarykey"`
	SID          string    `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	UserID       uint      `gorm:"not null;index:idx_user_subscription"`
	PlanID       uint      `gorm:"not null;index:idx_plan_subscription"`
	Status       string    `gorm:"not null;size:20;index:idx_subscription_status"`
	StartDate    time.Time `gorm:"not null"`
	EndDate      time.Time `gorm:"not null;index:idx_end_date"`
	AutoRenew    bool      `gorm:"not null;default:false"`
	BillingCycle string    `gorm:"not null;size:10"`
	PaymentRef   *string   `gorm:"size:100"`
	Version      int       `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
