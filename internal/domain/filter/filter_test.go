package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		by, order string
		want      Sort
	}{
		{"", "", Sort{By: SortByCreatedAt, Order: Desc}},
		{"name", "asc", Sort{By: SortByName, Order: Asc}},
		{"email", "Desc", Sort{By: SortByEmail, Order: Desc}},
		{"password_hash", "ASC", Sort{By: SortByCreatedAt, Order: Asc, Substituted: true}},
		{"name; DROP TABLE users", "", Sort{By: SortByCreatedAt, Order: Desc, Substituted: true}},
		{"updated_at", "sideways", Sort{By: SortByUpdatedAt, Order: Desc, Substituted: true}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSort(tt.by, tt.order), "by=%q order=%q", tt.by, tt.order)
	}
}

func TestSortFieldFallsBackToCreatedAt(t *testing.T) {
	assert.Equal(t, FieldName, SortByName.Field())
	assert.Equal(t, FieldCreatedAt, SortField("nope").Field())
}

func TestPage(t *testing.T) {
	p := Page{Number: 3, Limit: 20}
	assert.Equal(t, 40, p.Offset())
	assert.Equal(t, 0, Page{Number: 1, Limit: 10}.Offset())

	assert.Equal(t, 3, Page{Number: 1, Limit: 2}.Pages(5))
	assert.Equal(t, 1, Page{Number: 1, Limit: 10}.Pages(10))
	assert.Equal(t, 0, Page{Number: 1, Limit: 10}.Pages(0))
}

func TestBuilderIgnoresEmptyText(t *testing.T) {
	q := NewBuilder().NameContains("  ").EmailContains("").Search("").Build()
	assert.Empty(t, q.Predicates)
	assert.Equal(t, DefaultSort(), q.Sort)
}

func TestBuilderApply(t *testing.T) {
	name := "ali"
	verified := false
	role := entity.RoleAdmin
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	has := true
	after := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	q := NewBuilder().
		Apply(Criteria{Name: &name, IsVerified: &verified, Role: &role, StartDate: &from, HasLogins: &has, LastLoginAfter: &after}).
		Paginate(Page{Number: 2, Limit: 25}).
		Build()

	require.Len(t, q.Predicates, 6)
	assert.Equal(t, Compare{Field: FieldName, Op: OpContains, Value: "ali"}, q.Predicates[0])
	assert.Equal(t, Compare{Field: FieldIsVerified, Op: OpEq, Value: false}, q.Predicates[1])
	assert.Equal(t, Compare{Field: FieldRole, Op: OpEq, Value: "admin"}, q.Predicates[2])
	assert.Equal(t, Compare{Field: FieldCreatedAt, Op: OpGte, Value: from}, q.Predicates[3])
	assert.Equal(t, LoginPresence{Has: true}, q.Predicates[4])
	assert.Equal(t, LastLogin{Op: OpGte, At: after}, q.Predicates[5])
	assert.Equal(t, 25, q.Limit)
	assert.Equal(t, 25, q.Offset)
}

func TestSearchIsDisjunction(t *testing.T) {
	q := NewBuilder().Search("bob").Build()
	require.Len(t, q.Predicates, 1)
	or, ok := q.Predicates[0].(AnyOf)
	require.True(t, ok)
	assert.Len(t, or, 2)
}

func TestBuildCopiesPredicates(t *testing.T) {
	b := NewBuilder().Verified(true)
	q := b.Build()
	b.Verified(false)
	assert.Len(t, q.Predicates, 1)
}

func TestNewResult(t *testing.T) {
	r := NewResult(nil, 5, Page{Number: 1, Limit: 2}, ParseSort("name", "ASC"), Criteria{})
	assert.NotNil(t, r.Rows)
	assert.Equal(t, 3, r.Pages)
	assert.Equal(t, SortByName, r.Sort.By)
}
