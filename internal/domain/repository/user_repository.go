package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	"github.com/oksasatya/go-user-query-service/internal/domain/filter"
)

var (
	ErrNotFound       = errors.New("repository: not found")
	ErrDuplicateEmail = errors.New("repository: duplicate email")
)

// UserChanges lists the mutable profile fields. Nil fields are left as is.
type UserChanges struct {
	Name  *string
	Email *string
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create inserts u and fills in ID and timestamps.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id int64, ch UserChanges) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
	SetVerified(ctx context.Context, email string) (*entity.User, error)
	RecordLogin(ctx context.Context, userID int64) (*entity.LoginEvent, error)
}

// Totals is a snapshot of account counts.
type Totals struct {
	Total    int64 `json:"total"`
	Verified int64 `json:"verified"`
}

// DailyCount is the number of registrations on one UTC calendar day.
type DailyCount struct {
	Day   time.Time `json:"date"`
	Count int64     `json:"count"`
}

// RegistrationStats summarizes accounts created in a window.
type RegistrationStats struct {
	Total      int64                 `json:"total"`
	Verified   int64                 `json:"verified"`
	Unverified int64                 `json:"unverified"`
	ByRole     map[entity.Role]int64 `json:"byRole"`
	Daily      []DailyCount          `json:"daily"`
}

// UserQueryRepository runs read-only listing and aggregate queries.
type UserQueryRepository interface {
	// List returns one page of rows plus the total match count, both read
	// from the same snapshot.
	List(ctx context.Context, q filter.Query) ([]entity.UserActivity, int64, error)
	Find(ctx context.Context, q filter.Query) ([]entity.UserActivity, error)
	Totals(ctx context.Context) (Totals, error)
	CountLogins(ctx context.Context) (int64, error)
	TopByLogin(ctx context.Context, n int) ([]entity.UserActivity, error)
	// Inactive returns users whose last login is before cutoff, or who
	// never logged in.
	Inactive(ctx context.Context, cutoff time.Time) ([]entity.UserActivity, error)
	RegistrationStats(ctx context.Context, from, to *time.Time) (*RegistrationStats, error)
}
