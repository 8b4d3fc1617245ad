package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	"github.com/oksasatya/go-user-query-service/internal/domain/filter"
	repo "github.com/oksasatya/go-user-query-service/internal/domain/repository"
	"github.com/oksasatya/go-user-query-service/internal/observability/metrics"
	"github.com/oksasatya/go-user-query-service/pkg/apperror"
	"github.com/oksasatya/go-user-query-service/pkg/helpers"
)

const (
	DefaultTopLogins   = 3
	DefaultRecentDays  = 7
	DefaultSearchLimit = 10
	defaultInactive    = time.Hour

	keyTotals     = "analytics:totals"
	keyStatistics = "analytics:statistics"
)

// AnalyticsService serves read-only projections over users and their logins.
// Totals and Statistics go through Redis when a client is set and CacheTTL > 0.
type AnalyticsService struct {
	Repo     repo.UserQueryRepository
	Cache    *redis.Client
	CacheTTL time.Duration
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewAnalyticsService(r repo.UserQueryRepository, cache *redis.Client, ttl time.Duration, logger *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{Repo: r, Cache: cache, CacheTTL: ttl, Logger: logger, Now: time.Now}
}

type Statistics struct {
	TotalUsers       int64   `json:"totalUsers"`
	VerifiedUsers    int64   `json:"verifiedUsers"`
	UnverifiedUsers  int64   `json:"unverifiedUsers"`
	TotalLogins      int64   `json:"totalLogins"`
	VerificationRate float64 `json:"verificationRate"`
}

// InactiveInput picks the inactivity threshold. At most one may be set;
// with neither the threshold is one hour.
type InactiveInput struct {
	Hours  *int
	Months *int
}

type SearchInput struct {
	Term     string
	Role     *entity.Role
	Verified *bool
	Limit    int
}

func (s *AnalyticsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AnalyticsService) warn(err error, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).Warn(msg)
	}
}

func (s *AnalyticsService) fail(kind string, err error) error {
	metrics.UserQueriesTotal.WithLabelValues(kind, "failure").Inc()
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("query", kind).Error("analytics query failed")
	}
	return apperror.Internal(err)
}

func (s *AnalyticsService) ok(kind string) {
	metrics.UserQueriesTotal.WithLabelValues(kind, "success").Inc()
}

// cached reads key from Redis and falls back to load, storing its result.
// Cache failures are logged and never surface to the caller.
func cached[T any](ctx context.Context, s *AnalyticsService, key string, load func() (T, error)) (T, error) {
	if s.Cache == nil || s.CacheTTL <= 0 {
		return load()
	}
	var v T
	hit, err := helpers.RedisGetJSON(ctx, s.Cache, key, &v)
	if err != nil {
		s.warn(err, "analytics cache read failed")
	}
	if hit {
		return v, nil
	}
	v, err = load()
	if err != nil {
		return v, err
	}
	if err := helpers.RedisSetJSON(ctx, s.Cache, key, v, s.CacheTTL); err != nil {
		s.warn(err, "analytics cache write failed")
	}
	return v, nil
}

func (s *AnalyticsService) Totals(ctx context.Context) (repo.Totals, error) {
	t, err := cached(ctx, s, keyTotals, func() (repo.Totals, error) {
		return s.Repo.Totals(ctx)
	})
	if err != nil {
		return repo.Totals{}, s.fail("totals", err)
	}
	s.ok("totals")
	return t, nil
}

// TopByLogin ranks users by login count, ties by id.
func (s *AnalyticsService) TopByLogin(ctx context.Context, n int) ([]entity.UserActivity, error) {
	if n < 1 || n > filter.MaxLimit {
		return nil, apperror.Validation("", map[string]string{"limit": "must be between 1 and 100"})
	}
	rows, err := s.Repo.TopByLogin(ctx, n)
	if err != nil {
		return nil, s.fail("top_logins", err)
	}
	s.ok("top_logins")
	return nonNil(rows), nil
}

// InactiveCutoff resolves the threshold relative to now.
func InactiveCutoff(now time.Time, in InactiveInput) (time.Time, error) {
	switch {
	case in.Hours != nil && in.Months != nil:
		return time.Time{}, apperror.Validation("", map[string]string{
			"hours":  "cannot be combined with months",
			"months": "cannot be combined with hours",
		})
	case in.Hours != nil:
		if *in.Hours < 1 {
			return time.Time{}, apperror.Validation("", map[string]string{"hours": "must be at least 1"})
		}
		return now.Add(-time.Duration(*in.Hours) * time.Hour), nil
	case in.Months != nil:
		if *in.Months < 1 {
			return time.Time{}, apperror.Validation("", map[string]string{"months": "must be at least 1"})
		}
		return now.AddDate(0, -*in.Months, 0), nil
	default:
		return now.Add(-defaultInactive), nil
	}
}

func (s *AnalyticsService) Inactive(ctx context.Context, in InactiveInput) ([]entity.UserActivity, error) {
	cutoff, err := InactiveCutoff(s.now(), in)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.Inactive(ctx, cutoff)
	if err != nil {
		return nil, s.fail("inactive", err)
	}
	s.ok("inactive")
	return nonNil(rows), nil
}

func (s *AnalyticsService) Statistics(ctx context.Context) (Statistics, error) {
	st, err := cached(ctx, s, keyStatistics, func() (Statistics, error) {
		t, err := s.Repo.Totals(ctx)
		if err != nil {
			return Statistics{}, err
		}
		logins, err := s.Repo.CountLogins(ctx)
		if err != nil {
			return Statistics{}, err
		}
		return newStatistics(t, logins), nil
	})
	if err != nil {
		return Statistics{}, s.fail("statistics", err)
	}
	s.ok("statistics")
	return st, nil
}

func newStatistics(t repo.Totals, logins int64) Statistics {
	st := Statistics{
		TotalUsers:      t.Total,
		VerifiedUsers:   t.Verified,
		UnverifiedUsers: t.Total - t.Verified,
		TotalLogins:     logins,
	}
	if t.Total > 0 {
		st.VerificationRate = float64(t.Verified) / float64(t.Total) * 100
	}
	return st
}

func (s *AnalyticsService) ByRole(ctx context.Context, role entity.Role) ([]entity.UserActivity, error) {
	if !role.Valid() {
		return nil, apperror.Validation("", map[string]string{"role": entity.RoleHint()})
	}
	q := filter.NewBuilder().Role(role).SortBy(filter.Sort{By: filter.SortByID, Order: filter.Asc}).Build()
	rows, err := s.Repo.Find(ctx, q)
	if err != nil {
		return nil, s.fail("by_role", err)
	}
	s.ok("by_role")
	return nonNil(rows), nil
}

// Recent lists users created in the last days days, newest first.
func (s *AnalyticsService) Recent(ctx context.Context, days int) ([]entity.UserActivity, error) {
	if days < 1 {
		return nil, apperror.Validation("", map[string]string{"days": "must be at least 1"})
	}
	q := filter.NewBuilder().
		CreatedFrom(s.now().AddDate(0, 0, -days)).
		SortBy(filter.DefaultSort()).
		Build()
	rows, err := s.Repo.Find(ctx, q)
	if err != nil {
		return nil, s.fail("recent", err)
	}
	s.ok("recent")
	return nonNil(rows), nil
}

func (s *AnalyticsService) Search(ctx context.Context, in SearchInput) ([]entity.UserActivity, error) {
	limit := in.Limit
	if limit < 1 || limit > filter.MaxLimit {
		return nil, apperror.Validation("", map[string]string{"limit": "must be between 1 and 100"})
	}

	b := filter.NewBuilder().Search(in.Term)
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperror.Validation("", map[string]string{"role": entity.RoleHint()})
		}
		b.Role(*in.Role)
	}
	if in.Verified != nil {
		b.Verified(*in.Verified)
	}
	rows, err := s.Repo.Find(ctx, b.SortBy(filter.DefaultSort()).Limit(limit).Build())
	if err != nil {
		return nil, s.fail("search", err)
	}
	s.ok("search")
	return nonNil(rows), nil
}

func (s *AnalyticsService) RegistrationStats(ctx context.Context, from, to *time.Time) (*repo.RegistrationStats, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, apperror.Validation("", map[string]string{"startDate": "must not be after endDate"})
	}
	st, err := s.Repo.RegistrationStats(ctx, from, to)
	if err != nil {
		return nil, s.fail("registration_stats", err)
	}
	s.ok("registration_stats")
	if st.ByRole == nil {
		st.ByRole = map[entity.Role]int64{}
	}
	if st.Daily == nil {
		st.Daily = []repo.DailyCount{}
	}
	return st, nil
}

func nonNil(rows []entity.UserActivity) []entity.UserActivity {
	if rows == nil {
		return []entity.UserActivity{}
	}
	return rows
}
