package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	"github.com/oksasatya/go-user-query-service/internal/domain/filter"
	repo "github.com/oksasatya/go-user-query-service/internal/domain/repository"
)

// memUsers is an in-memory UserRepository with a unique email index.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User
	logins []entity.LoginEvent

	// skipPrecheck makes EmailExists lie, simulating a racing insert.
	skipPrecheck bool
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[int64]*entity.User{}}
}

func (m *memUsers) byEmail(email string) *entity.User {
	for _, u := range m.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byEmail(u.Email) != nil {
		return repo.ErrDuplicateEmail
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmail(email)
	if u == nil {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skipPrecheck {
		return false, nil
	}
	return m.byEmail(email) != nil, nil
}

func (m *memUsers) Update(_ context.Context, id int64, ch repo.UserChanges) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if ch.Email != nil {
		if other := m.byEmail(*ch.Email); other != nil && other.ID != id {
			return nil, repo.ErrDuplicateEmail
		}
		u.Email = *ch.Email
	}
	if ch.Name != nil {
		u.Name = *ch.Name
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *memUsers) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.users, id)
	kept := m.logins[:0]
	for _, l := range m.logins {
		if l.UserID != id {
			kept = append(kept, l)
		}
	}
	m.logins = kept
	return nil
}

func (m *memUsers) SetVerified(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmail(email)
	if u == nil {
		return nil, repo.ErrNotFound
	}
	u.IsVerified = true
	cp := *u
	return &cp, nil
}

func (m *memUsers) RecordLogin(_ context.Context, userID int64) (*entity.LoginEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev := entity.LoginEvent{ID: int64(len(m.logins) + 1), UserID: userID, LoggedInAt: time.Now()}
	m.logins = append(m.logins, ev)
	return &ev, nil
}

func (m *memUsers) loginsFor(userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.logins {
		if l.UserID == userID {
			n++
		}
	}
	return n
}

// plainHasher stores passwords with a prefix so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Compare(h, p string) bool      { return h == "h:"+p }

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(int64, string, string) (string, time.Time, error) {
	return "token", time.Unix(0, 0), nil
}

type recordingNotifier struct {
	users []*entity.User
	err   error
}

func (n *recordingNotifier) UserRegistered(_ context.Context, u *entity.User) error {
	n.users = append(n.users, u)
	return n.err
}

// queryRepo is a UserQueryRepository over a fixed slice. It sorts by name or
// id and pages, which is enough to check the service contract.
type queryRepo struct {
	rows   []entity.UserActivity
	totals repo.Totals
	logins int64
	err    error

	calls     int
	lastQuery filter.Query
	cutoff    time.Time
	topN      int
}

func (r *queryRepo) List(_ context.Context, q filter.Query) ([]entity.UserActivity, int64, error) {
	r.calls++
	r.lastQuery = q
	if r.err != nil {
		return nil, 0, r.err
	}
	rows := append([]entity.UserActivity(nil), r.rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		less := rows[i].ID < rows[j].ID
		if q.Sort.By == filter.SortByName {
			less = rows[i].Name < rows[j].Name
		}
		if q.Sort.Order == filter.Desc {
			return !less
		}
		return less
	})
	total := int64(len(rows))
	if q.Offset >= len(rows) {
		return nil, total, nil
	}
	rows = rows[q.Offset:]
	if q.Limit > 0 && q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}
	return rows, total, nil
}

func (r *queryRepo) Find(_ context.Context, q filter.Query) ([]entity.UserActivity, error) {
	r.calls++
	r.lastQuery = q
	return r.rows, r.err
}

func (r *queryRepo) Totals(context.Context) (repo.Totals, error) {
	r.calls++
	return r.totals, r.err
}

func (r *queryRepo) CountLogins(context.Context) (int64, error) {
	r.calls++
	return r.logins, r.err
}

func (r *queryRepo) TopByLogin(_ context.Context, n int) ([]entity.UserActivity, error) {
	r.calls++
	r.topN = n
	return r.rows, r.err
}

func (r *queryRepo) Inactive(_ context.Context, cutoff time.Time) ([]entity.UserActivity, error) {
	r.calls++
	r.cutoff = cutoff
	return r.rows, r.err
}

func (r *queryRepo) RegistrationStats(context.Context, *time.Time, *time.Time) (*repo.RegistrationStats, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &repo.RegistrationStats{Total: r.totals.Total, Verified: r.totals.Verified}, nil
}
