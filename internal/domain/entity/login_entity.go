package entity

import "time"

// LoginEvent records one successful login. Events are owned by their user
// and removed with it.
type LoginEvent struct {
	ID         int64
	UserID     int64
	LoggedInAt time.Time
}
