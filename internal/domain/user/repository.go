package user

import (
	"context"
	"strconv"
)

// Repository defines user persistence operations
type Repository interface {
	// FindOrCreateByHandle resolves a contact handle to a user, creating one
	// on first contact. Implementations must be race-safe under concurrent
	// first contact: the race is resolved by the store's uniqueness
	// constraint on the handle, not by application locking.
	FindOrCreateByHandle(ctx context.Context, phoneNumber string) (*User, error)

	GetByID(ctx context.Context, id int64) (*User, error)
}

// ErrUserNotFound indicates missing user
type ErrUserNotFound struct {
	UserID int64
}

func (e ErrUserNotFound) Error() string {
	return "user not found: " + strconv.FormatInt(e.UserID, 10)
}
