package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	"github.com/oksasatya/go-user-query-service/internal/domain/filter"
	"github.com/oksasatya/go-user-query-service/internal/domain/repository"
)

// snapshot makes the row and count queries of one request agree.
var snapshot = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

type UserQueryRepository struct {
	db      DBTX
	timeout time.Duration
}

var _ repository.UserQueryRepository = (*UserQueryRepository)(nil)

func NewUserQueryRepository(db DBTX, timeout time.Duration) *UserQueryRepository {
	return &UserQueryRepository{db: db, timeout: timeout}
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanActivities(ctx context.Context, q querier, sql string, args []any) ([]entity.UserActivity, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.UserActivity, 0)
	for rows.Next() {
		var (
			a    entity.UserActivity
			role string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &role, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt, &a.LoginCount, &a.LastLogin); err != nil {
			return nil, fmt.Errorf("postgres: scan user activity: %w", err)
		}
		a.Role = entity.Role(role)
		out = append(out, a)
	}
	return out, rows.Err()
}

// readTx runs fn in a read-only repeatable-read transaction so every
// statement in fn sees the same snapshot.
func (r *UserQueryRepository) readTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("postgres: begin read tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *UserQueryRepository) List(ctx context.Context, q filter.Query) ([]entity.UserActivity, int64, error) {
	rowsQ, countQ, err := compileList(q)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var (
		rows  []entity.UserActivity
		total int64
	)
	err = r.readTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countQ.SQL, countQ.Args...).Scan(&total); err != nil {
			return fmt.Errorf("postgres: count users: %w", err)
		}
		var err error
		rows, err = scanActivities(ctx, tx, rowsQ.SQL, rowsQ.Args)
		if err != nil {
			return fmt.Errorf("postgres: list users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Find runs q without a total count.
func (r *UserQueryRepository) Find(ctx context.Context, q filter.Query) ([]entity.UserActivity, error) {
	rowsQ, _, err := compileList(q)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return scanActivities(ctx, r.db, rowsQ.SQL, rowsQ.Args)
}

func (r *UserQueryRepository) Totals(ctx context.Context) (repository.Totals, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var t repository.Totals
	err := r.db.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_verified) FROM users`).Scan(&t.Total, &t.Verified)
	return t, err
}

func (r *UserQueryRepository) CountLogins(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_logins`).Scan(&n)
	return n, err
}

// TopByLogin ranks users by login count; ties go to the lower id.
func (r *UserQueryRepository) TopByLogin(ctx context.Context, n int) ([]entity.UserActivity, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	sql := activitySelect + " GROUP BY u.id ORDER BY login_count DESC, u.id ASC LIMIT " + strconv.Itoa(n)
	return scanActivities(ctx, r.db, sql, nil)
}

func (r *UserQueryRepository) Inactive(ctx context.Context, cutoff time.Time) ([]entity.UserActivity, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	sql := activitySelect + " GROUP BY u.id" +
		" HAVING MAX(l.logged_in_at) IS NULL OR MAX(l.logged_in_at) < $1" +
		" ORDER BY last_login ASC NULLS FIRST, u.id ASC"
	return scanActivities(ctx, r.db, sql, []any{cutoff})
}

// RegistrationStats aggregates users created within [from, to]; nil bounds are open.
func (r *UserQueryRepository) RegistrationStats(ctx context.Context, from, to *time.Time) (*repository.RegistrationStats, error) {
	b := filter.NewBuilder()
	if from != nil {
		b.CreatedFrom(*from)
	}
	if to != nil {
		b.CreatedTo(*to)
	}
	var a args
	where, err := whereClause(b.Build().Predicates, &a)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	st := &repository.RegistrationStats{ByRole: map[entity.Role]int64{}, Daily: []repository.DailyCount{}}
	err = r.readTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			"SELECT COUNT(*), COUNT(*) FILTER (WHERE u.is_verified), COUNT(*) FILTER (WHERE NOT u.is_verified) FROM users u"+where,
			a...).Scan(&st.Total, &st.Verified, &st.Unverified)
		if err != nil {
			return fmt.Errorf("postgres: registration totals: %w", err)
		}

		rows, err := tx.Query(ctx, "SELECT u.role, COUNT(*) FROM users u"+where+" GROUP BY u.role ORDER BY u.role", a...)
		if err != nil {
			return fmt.Errorf("postgres: registrations by role: %w", err)
		}
		for rows.Next() {
			var (
				role string
				n    int64
			)
			if err := rows.Scan(&role, &n); err != nil {
				rows.Close()
				return err
			}
			st.ByRole[entity.Role(role)] = n
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		rows, err = tx.Query(ctx,
			"SELECT (u.created_at AT TIME ZONE 'UTC')::date AS day, COUNT(*) FROM users u"+where+" GROUP BY day ORDER BY day ASC",
			a...)
		if err != nil {
			return fmt.Errorf("postgres: daily registrations: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var d repository.DailyCount
			if err := rows.Scan(&d.Day, &d.Count); err != nil {
				return err
			}
			st.Daily = append(st.Daily, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}
