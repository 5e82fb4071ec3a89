package user

import "context"

// Repository persists users. GetByID returns (nil, nil) when missing.
// GetByIDs exists so jobs can batch-load notification recipients in one
// query instead of one query per subscription.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*User, error)
}
