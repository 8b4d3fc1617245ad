package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt hash and never leaves the service layer.
// Email is stored case-folded.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserActivity is a user row annotated with its login history aggregates.
// LastLogin is nil when the user never logged in.
type UserActivity struct {
	User
	LoginCount int64
	LastLogin  *time.Time
}
