package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	"github.com/oksasatya/go-user-query-service/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = "id, name, email, password_hash, role, is_verified, created_at, updated_at"

type UserRepository struct {
	db      DBTX
	timeout time.Duration
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository builds a repository whose statements are bounded by timeout.
func NewUserRepository(db DBTX, timeout time.Duration) *UserRepository {
	return &UserRepository{db: db, timeout: timeout}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicateEmail, pgErr.ConstraintName)
	}
	return err
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, is_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Name, strings.ToLower(u.Email), u.PasswordHash, string(u.Role), u.IsVerified)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapError(err)
	}
	u.Email = strings.ToLower(u.Email)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, strings.ToLower(email)).Scan(&exists)
	return exists, err
}

// Update changes name and/or email and bumps updated_at.
func (r *UserRepository) Update(ctx context.Context, id int64, ch repository.UserChanges) (*entity.User, error) {
	if ch.Name == nil && ch.Email == nil {
		return r.GetByID(ctx, id)
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	set := make([]string, 0, 3)
	var a args
	if ch.Name != nil {
		set = append(set, "name = "+a.bind(*ch.Name))
	}
	if ch.Email != nil {
		set = append(set, "email = "+a.bind(strings.ToLower(*ch.Email)))
	}
	set = append(set, "updated_at = now()")

	query := `UPDATE users SET ` + strings.Join(set, ", ") + ` WHERE id = ` + a.bind(id) + ` RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, a...))
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetVerified marks the account verified. Already verified accounts are
// returned unchanged.
func (r *UserRepository) SetVerified(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `
		UPDATE users
		SET is_verified = TRUE,
		    updated_at = CASE WHEN is_verified THEN updated_at ELSE now() END
		WHERE email = $1
		RETURNING `+userColumns, strings.ToLower(email)))
}

func (r *UserRepository) RecordLogin(ctx context.Context, userID int64) (*entity.LoginEvent, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	ev := &entity.LoginEvent{UserID: userID}
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_logins (user_id) VALUES ($1)
		RETURNING id, logged_in_at
	`, userID).Scan(&ev.ID, &ev.LoggedInAt)
	if err != nil {
		return nil, mapError(err)
	}
	return ev, nil
}
