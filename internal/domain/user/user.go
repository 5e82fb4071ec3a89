// Package user holds the minimal user aggregate this engine needs:
// identity plus the contact details notifications are addressed to.
package user

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	id        uint
	email     string
	name      string
	createdAt time.Time
	updatedAt time.Time
}

func NewUser(email, name string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address: %s", email)
	}

	now := time.Now().UTC()
	return &User{
		email:     email,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUser reconstructs a user from persistence.
func ReconstructUser(id uint, email, name string, createdAt, updatedAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	return &User{
		id:        id,
		email:     email,
		name:      name,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) Email() string {
	return u.email
}

func (u *User) Name() string {
	return u.name
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}
