package filter

import (
	"strings"
	"time"

	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
)

// Criteria is the set of optional list filters. Nil fields are not applied.
// It is echoed back to clients, hence the JSON tags.
type Criteria struct {
	Name            *string      `json:"name,omitempty"`
	Email           *string      `json:"email,omitempty"`
	IsVerified      *bool        `json:"isVerified,omitempty"`
	Role            *entity.Role `json:"role,omitempty"`
	StartDate       *time.Time   `json:"startDate,omitempty"`
	EndDate         *time.Time   `json:"endDate,omitempty"`
	Search          *string      `json:"search,omitempty"`
	HasLogins       *bool        `json:"hasLogins,omitempty"`
	LastLoginAfter  *time.Time   `json:"lastLoginAfter,omitempty"`
	LastLoginBefore *time.Time   `json:"lastLoginBefore,omitempty"`
}

// Query is a fully built user query. Limit 0 means unbounded.
type Query struct {
	Predicates []Predicate
	Sort       Sort
	Limit      int
	Offset     int
}

// Builder accumulates predicates. Empty text values are ignored so callers
// can pass optional inputs straight through.
type Builder struct {
	preds  []Predicate
	sort   Sort
	limit  int
	offset int
}

func NewBuilder() *Builder {
	return &Builder{sort: DefaultSort()}
}

func (b *Builder) add(p Predicate) *Builder {
	b.preds = append(b.preds, p)
	return b
}

func (b *Builder) NameContains(s string) *Builder {
	if s = strings.TrimSpace(s); s == "" {
		return b
	}
	return b.add(Compare{Field: FieldName, Op: OpContains, Value: s})
}

func (b *Builder) EmailContains(s string) *Builder {
	if s = strings.TrimSpace(s); s == "" {
		return b
	}
	return b.add(Compare{Field: FieldEmail, Op: OpContains, Value: s})
}

// Search matches name OR email.
func (b *Builder) Search(term string) *Builder {
	if term = strings.TrimSpace(term); term == "" {
		return b
	}
	return b.add(AnyOf{
		Compare{Field: FieldName, Op: OpContains, Value: term},
		Compare{Field: FieldEmail, Op: OpContains, Value: term},
	})
}

func (b *Builder) Verified(v bool) *Builder {
	return b.add(Compare{Field: FieldIsVerified, Op: OpEq, Value: v})
}

func (b *Builder) Role(r entity.Role) *Builder {
	return b.add(Compare{Field: FieldRole, Op: OpEq, Value: string(r)})
}

// CreatedFrom is an inclusive lower bound on created_at.
func (b *Builder) CreatedFrom(t time.Time) *Builder {
	return b.add(Compare{Field: FieldCreatedAt, Op: OpGte, Value: t})
}

// CreatedTo is an inclusive upper bound on created_at.
func (b *Builder) CreatedTo(t time.Time) *Builder {
	return b.add(Compare{Field: FieldCreatedAt, Op: OpLte, Value: t})
}

func (b *Builder) HasLogins(v bool) *Builder {
	return b.add(LoginPresence{Has: v})
}

func (b *Builder) LastLoginAfter(t time.Time) *Builder {
	return b.add(LastLogin{Op: OpGte, At: t})
}

func (b *Builder) LastLoginBefore(t time.Time) *Builder {
	return b.add(LastLogin{Op: OpLte, At: t})
}

// Apply adds every non-nil criterion.
func (b *Builder) Apply(c Criteria) *Builder {
	if c.Name != nil {
		b.NameContains(*c.Name)
	}
	if c.Email != nil {
		b.EmailContains(*c.Email)
	}
	if c.IsVerified != nil {
		b.Verified(*c.IsVerified)
	}
	if c.Role != nil {
		b.Role(*c.Role)
	}
	if c.StartDate != nil {
		b.CreatedFrom(*c.StartDate)
	}
	if c.EndDate != nil {
		b.CreatedTo(*c.EndDate)
	}
	if c.Search != nil {
		b.Search(*c.Search)
	}
	if c.HasLogins != nil {
		b.HasLogins(*c.HasLogins)
	}
	if c.LastLoginAfter != nil {
		b.LastLoginAfter(*c.LastLoginAfter)
	}
	if c.LastLoginBefore != nil {
		b.LastLoginBefore(*c.LastLoginBefore)
	}
	return b
}

func (b *Builder) SortBy(s Sort) *Builder {
	b.sort = s
	return b
}

func (b *Builder) Paginate(p Page) *Builder {
	b.limit = p.Limit
	b.offset = p.Offset()
	return b
}

// Limit caps the result without paging. n <= 0 removes the cap.
func (b *Builder) Limit(n int) *Builder {
	if n < 0 {
		n = 0
	}
	b.limit = n
	b.offset = 0
	return b
}

func (b *Builder) Build() Query {
	preds := make([]Predicate, len(b.preds))
	copy(preds, b.preds)
	return Query{Predicates: preds, Sort: b.sort, Limit: b.limit, Offset: b.offset}
}
