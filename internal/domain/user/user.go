package user

import (
	"errors"
	"time"
)

// Common errors
var ErrEmptyHandle = errors.New("contact handle cannot be empty")

// User is one end user, identified by their WhatsApp phone number.
// Users are created lazily on first contact and never deleted.
type User struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUser creates a user for a previously unseen contact handle. The display
// name defaults to the handle until the user provides something better.
func NewUser(phoneNumber string) (*User, error) {
	if phoneNumber == "" {
		return nil, ErrEmptyHandle
	}
	return &User{
		PhoneNumber: phoneNumber,
		DisplayName: phoneNumber,
		CreatedAt:   time.Now(),
	}, nil
}
