package filter

import "github.com/oksasatya/go-user-query-service/internal/domain/entity"

// Result is one page of a user listing.
type Result struct {
	Rows    []entity.UserActivity
	Total   int64
	Page    int
	Limit   int
	Pages   int
	Sort    Sort
	Filters Criteria
}

func NewResult(rows []entity.UserActivity, total int64, page Page, sort Sort, filters Criteria) *Result {
	if rows == nil {
		rows = []entity.UserActivity{}
	}
	return &Result{
		Rows:    rows,
		Total:   total,
		Page:    page.Number,
		Limit:   page.Limit,
		Pages:   page.Pages(total),
		Sort:    sort,
		Filters: filters,
	}
}
