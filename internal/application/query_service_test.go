package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	"github.com/oksasatya/go-user-query-service/internal/domain/filter"
	"github.com/oksasatya/go-user-query-service/pkg/apperror"
)

func fiveUsers() []entity.UserActivity {
	names := []string{"Eve", "Carol", "Alice", "Dave", "Bob"}
	rows := make([]entity.UserActivity, len(names))
	for i, n := range names {
		rows[i] = entity.UserActivity{User: entity.User{ID: int64(i + 1), Name: n}}
	}
	return rows
}

func TestListSortsAndPages(t *testing.T) {
	r := &queryRepo{rows: fiveUsers()}
	svc := NewQueryService(r, nil)

	sort := filter.ParseSort("name", "asc")
	res, err := svc.List(context.Background(), filter.Criteria{}, sort, filter.Page{Number: 1, Limit: 2})
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Alice", res.Rows[0].Name)
	assert.Equal(t, "Bob", res.Rows[1].Name)
	assert.Equal(t, int64(5), res.Total)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, filter.SortByName, res.Sort.By)
	assert.Equal(t, filter.Asc, res.Sort.Order)
	assert.False(t, res.Sort.Substituted)
	assert.Equal(t, 2, r.lastQuery.Limit)
	assert.Equal(t, 0, r.lastQuery.Offset)
}

func TestListTotalIsInvariantToPage(t *testing.T) {
	r := &queryRepo{rows: fiveUsers()}
	svc := NewQueryService(r, nil)

	for page := 1; page <= 4; page++ {
		res, err := svc.List(context.Background(), filter.Criteria{}, filter.DefaultSort(), filter.Page{Number: page, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(5), res.Total)
		assert.Equal(t, 3, res.Pages)
		assert.LessOrEqual(t, len(res.Rows), 2)
		assert.NotNil(t, res.Rows)
	}
}

func TestListRejectsBadPaginationWithoutQuerying(t *testing.T) {
	cases := []filter.Page{
		{Number: 0, Limit: 10},
		{Number: 1, Limit: 0},
		{Number: 1, Limit: 101},
		{Number: -3, Limit: -1},
	}
	for _, p := range cases {
		r := &queryRepo{rows: fiveUsers()}
		_, err := NewQueryService(r, nil).List(context.Background(), filter.Criteria{}, filter.DefaultSort(), p)
		require.Error(t, err, "page %+v", p)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		assert.Zero(t, r.calls)
	}
}

func TestCheckPageAggregatesViolations(t *testing.T) {
	err := CheckPage(filter.Page{Number: 0, Limit: 500})
	require.Error(t, err)
	details, ok := apperror.From(err).Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "page")
	assert.Contains(t, details, "limit")
}

func TestListEchoesFiltersAndSubstitutedSort(t *testing.T) {
	r := &queryRepo{rows: fiveUsers()}
	name := "ali"
	c := filter.Criteria{Name: &name}
	sort := filter.ParseSort("password_hash", "sideways")

	res, err := NewQueryService(r, nil).List(context.Background(), c, sort, filter.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, c, res.Filters)
	assert.True(t, res.Sort.Substituted)
	assert.Equal(t, filter.SortByCreatedAt, res.Sort.By)
	assert.Equal(t, filter.Desc, res.Sort.Order)
	assert.Len(t, r.lastQuery.Predicates, 1)
}

func TestListWrapsRepositoryFailure(t *testing.T) {
	r := &queryRepo{err: errors.New("connection reset")}
	_, err := NewQueryService(r, nil).List(context.Background(), filter.Criteria{}, filter.DefaultSort(), filter.Page{Number: 1, Limit: 10})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInternal, apperror.From(err).Code)
	assert.NotContains(t, apperror.From(err).Message, "connection reset")
}
