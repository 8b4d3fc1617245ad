package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-query-service/internal/application"
	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	"github.com/oksasatya/go-user-query-service/internal/domain/filter"
	"github.com/oksasatya/go-user-query-service/pkg/apperror"
	"github.com/oksasatya/go-user-query-service/pkg/response"
	"github.com/oksasatya/go-user-query-service/pkg/sanitize"
)

type UserService interface {
	Get(ctx context.Context, id int64) (*entity.User, error)
	Update(ctx context.Context, id int64, in application.UpdateInput) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
}

type UserLister interface {
	List(ctx context.Context, c filter.Criteria, sort filter.Sort, page filter.Page) (*filter.Result, error)
}

type UserHandler struct {
	Svc    UserService
	Query  UserLister
	Logger *logrus.Logger
}

func NewUserHandler(svc UserService, query UserLister, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Query: query, Logger: logger}
}

// updateRequest accepts only profile fields; anything else in the body is
// ignored.
type updateRequest struct {
	Name  *string `json:"name" binding:"omitempty,personname"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
}

// listQuery is validated after sanitization. Page and Limit have already
// been parsed; Role is the raw sanitized text.
type listQuery struct {
	Page  int    `form:"page" binding:"min=1"`
	Limit int    `form:"limit" binding:"min=1,max=100"`
	Role  string `form:"role" binding:"omitempty,role"`
}

var listParamTypes = map[string]sanitize.FieldType{
	"page":            sanitize.TypeNumber,
	"limit":           sanitize.TypeNumber,
	"isVerified":      sanitize.TypeBoolean,
	"hasLogins":       sanitize.TypeBoolean,
	"startDate":       sanitize.TypeDate,
	"endDate":         sanitize.TypeDate,
	"lastLoginAfter":  sanitize.TypeDate,
	"lastLoginBefore": sanitize.TypeDate,
	"email":           sanitize.TypeEmail,
	"name":            sanitize.TypeName,
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toUserDTO(u)}, "", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req updateRequest
	if err := decodeJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if req.Name == nil && req.Email == nil {
		_ = c.Error(apperror.Validation("", map[string]string{"payload": "at least one of name, email is required"}))
		return
	}
	if req.Name != nil {
		*req.Name = sanitize.Name(*req.Name)
	}
	if req.Email != nil {
		*req.Email = sanitize.Email(*req.Email)
	}
	if err := validate(&req); err != nil {
		_ = c.Error(err)
		return
	}

	u, err := h.Svc.Update(c.Request.Context(), id, application.UpdateInput{Name: req.Name, Email: req.Email})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toUserDTO(u)}, "User updated successfully", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.NoContent(c)
}

// List serves the filtered, sorted and paginated user listing. Malformed
// numbers are rejected; malformed dates simply do not filter.
func (h *UserHandler) List(c *gin.Context) {
	q := sanitize.Query(c.Request.URL.Query(), listParamTypes)
	v := violations{}

	lq := listQuery{
		Page:  v.intParam(q, "page", filter.DefaultPage),
		Limit: v.intParam(q, "limit", filter.DefaultLimit),
	}
	lq.Role, _ = q.String("role")
	v.merge(validateDetails(&lq))
	if err := v.err(); err != nil {
		_ = c.Error(err)
		return
	}

	crit := filter.Criteria{
		Name:            stringParam(q, "name"),
		Email:           stringParam(q, "email"),
		Search:          stringParam(q, "search"),
		IsVerified:      boolParam(c, q, "isVerified"),
		HasLogins:       boolParam(c, q, "hasLogins"),
		StartDate:       q.Date("startDate").Ptr(),
		EndDate:         q.Date("endDate").Ptr(),
		LastLoginAfter:  q.Date("lastLoginAfter").Ptr(),
		LastLoginBefore: q.Date("lastLoginBefore").Ptr(),
	}
	if lq.Role != "" {
		r := entity.Role(lq.Role)
		crit.Role = &r
	}
	sortBy, _ := q.String("sortBy")
	sortOrder, _ := q.String("sortOrder")

	res, err := h.Query.List(c.Request.Context(), crit, filter.ParseSort(sortBy, sortOrder), filter.Page{Number: lq.Page, Limit: lq.Limit})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, toActivityDTOs(res.Rows), "", gin.H{
		"pagination": gin.H{
			"page":  res.Page,
			"limit": res.Limit,
			"total": res.Total,
			"pages": res.Pages,
		},
		"sort":    res.Sort,
		"filters": res.Filters,
	})
}
