package subscription

import (
	"fmt"
	"time"
)

// QuotaRecord tracks how many metered scans a user consumed on one business
// calendar day. Exactly one record exists per (userID, usageDate); the DB
// unique constraint is the authority and the day change implicitly resets
// usage by starting a new row.
type QuotaRecord struct {
	id           uint
	userID       uint
	usageDate    string // YYYY-MM-DD in business timezone
	attemptsUsed uint
	createdAt    time.Time
	updatedAt    time.Time
}

func NewQuotaRecord(userID uint, usageDate string) (*QuotaRecord, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if usageDate == "" {
		return nil, fmt.Errorf("usage date is required")
	}
	if _, err := time.Parse("2006-01-02", usageDate); err != nil {
		return nil, fmt.Errorf("invalid usage date %q: %w", usageDate, err)
	}

	now := time.Now().UTC()
	return &QuotaRecord{
		userID:    userID,
		usageDate: usageDate,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructQuotaRecord reconstructs a quota record from persistence.
func ReconstructQuotaRecord(recordID, userID uint, usageDate string, attemptsUsed uint, createdAt, updatedAt time.Time) (*QuotaRecord, error) {
	if recordID == 0 {
		return nil, fmt.Errorf("quota record ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if usageDate == "" {
		return nil, fmt.Errorf("usage date is required")
	}

	return &QuotaRecord{
		id:           recordID,
		userID:       userID,
		usageDate:    usageDate,
		attemptsUsed: attemptsUsed,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (q *QuotaRecord) ID() uint {
	return q.id
}

func (q *QuotaRecord) SetID(recordID uint) error {
	if q.id != 0 {
		return fmt.Errorf("quota record ID is already set")
	}
	if recordID == 0 {
		return fmt.Errorf("quota record ID cannot be zero")
	}
	q.id = recordID
	return nil
}

func (q *QuotaRecord) UserID() uint {
	return q.userID
}

func (q *QuotaRecord) UsageDate() string {
	return q.usageDate
}

func (q *QuotaRecord) AttemptsUsed() uint {
	return q.attemptsUsed
}

func (q *QuotaRecord) CreatedAt() time.Time {
	return q.createdAt
}

func (q *QuotaRecord) UpdatedAt() time.Time {
	return q.updatedAt
}

// Increment records one consumed attempt. The counter only ever grows
// within a day.
func (q *QuotaRecord) Increment() {
	q.attemptsUsed++
	q.updatedAt = time.Now().UTC()
}
