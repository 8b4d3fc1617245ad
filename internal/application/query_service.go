package application

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-query-service/internal/domain/filter"
	repo "github.com/oksasatya/go-user-query-service/internal/domain/repository"
	"github.com/oksasatya/go-user-query-service/internal/observability/metrics"
	"github.com/oksasatya/go-user-query-service/pkg/apperror"
)

type QueryService struct {
	Repo   repo.UserQueryRepository
	Logger *logrus.Logger
}

func NewQueryService(r repo.UserQueryRepository, logger *logrus.Logger) *QueryService {
	return &QueryService{Repo: r, Logger: logger}
}

// CheckPage reports every pagination bound violation at once.
func CheckPage(p filter.Page) error {
	details := map[string]string{}
	if p.Number < 1 {
		details["page"] = "must be at least 1"
	}
	if p.Limit < 1 || p.Limit > filter.MaxLimit {
		details["limit"] = "must be between 1 and " + strconv.Itoa(filter.MaxLimit)
	}
	if len(details) > 0 {
		return apperror.Validation("", details)
	}
	return nil
}

// List returns one page of users matching c. Out of range pagination is
// rejected before the repository is touched.
func (s *QueryService) List(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) (res *filter.Result, err error) {
	if err := CheckPage(page); err != nil {
		return nil, err
	}
	defer func() { metrics.UserQueriesTotal.WithLabelValues("list", metrics.Result(err)).Inc() }()

	q := filter.NewBuilder().Apply(c).SortBy(sort).Paginate(page).Build()
	rows, total, err := s.Repo.List(ctx, q)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Error("list users failed")
		}
		return nil, apperror.Internal(err)
	}
	return filter.NewResult(rows, total, page, sort, c), nil
}
