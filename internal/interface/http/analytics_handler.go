package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-query-service/internal/application"
	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	repo "github.com/oksasatya/go-user-query-service/internal/domain/repository"
	"github.com/oksasatya/go-user-query-service/pkg/apperror"
	"github.com/oksasatya/go-user-query-service/pkg/response"
	"github.com/oksasatya/go-user-query-service/pkg/sanitize"
)

type AnalyticsService interface {
	Totals(ctx context.Context) (repo.Totals, error)
	TopByLogin(ctx context.Context, n int) ([]entity.UserActivity, error)
	Inactive(ctx context.Context, in application.InactiveInput) ([]entity.UserActivity, error)
	Statistics(ctx context.Context) (application.Statistics, error)
	ByRole(ctx context.Context, role entity.Role) ([]entity.UserActivity, error)
	Recent(ctx context.Context, days int) ([]entity.UserActivity, error)
	Search(ctx context.Context, in application.SearchInput) ([]entity.UserActivity, error)
	RegistrationStats(ctx context.Context, from, to *time.Time) (*repo.RegistrationStats, error)
}

type AnalyticsHandler struct {
	Svc    AnalyticsService
	Logger *logrus.Logger
}

func NewAnalyticsHandler(svc AnalyticsService, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{Svc: svc, Logger: logger}
}

func (h *AnalyticsHandler) users(c *gin.Context, rows []entity.UserActivity, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": toActivityDTOs(rows)}, "", nil)
}

func (h *AnalyticsHandler) Totals(c *gin.Context) {
	t, err := h.Svc.Totals(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"totalUsers": t.Total, "totalVerifiedUsers": t.Verified}, "", nil)
}

func (h *AnalyticsHandler) TopLogins(c *gin.Context) {
	q := sanitize.Query(c.Request.URL.Query(), map[string]sanitize.FieldType{"limit": sanitize.TypeNumber})
	v := violations{}
	n := v.countParam(q, "limit", application.DefaultTopLogins)
	if err := v.err(); err != nil {
		_ = c.Error(err)
		return
	}
	rows, err := h.Svc.TopByLogin(c.Request.Context(), n)
	h.users(c, rows, err)
}

func (h *AnalyticsHandler) Inactive(c *gin.Context) {
	q := sanitize.Query(c.Request.URL.Query(), map[string]sanitize.FieldType{
		"hours":  sanitize.TypeNumber,
		"months": sanitize.TypeNumber,
	})
	v := violations{}
	in := application.InactiveInput{
		Hours:  v.optIntParam(q, "hours"),
		Months: v.optIntParam(q, "months"),
	}
	if err := v.err(); err != nil {
		_ = c.Error(err)
		return
	}
	rows, err := h.Svc.Inactive(c.Request.Context(), in)
	h.users(c, rows, err)
}

func (h *AnalyticsHandler) Statistics(c *gin.Context) {
	st, err := h.Svc.Statistics(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, st, "", nil)
}

func (h *AnalyticsHandler) ByRole(c *gin.Context) {
	role, ok := entity.ParseRole(sanitize.String(c.Param("role")))
	if !ok {
		_ = c.Error(apperror.Validation("", map[string]string{"role": entity.RoleHint()}))
		return
	}
	rows, err := h.Svc.ByRole(c.Request.Context(), role)
	h.users(c, rows, err)
}

func (h *AnalyticsHandler) Recent(c *gin.Context) {
	q := sanitize.Query(c.Request.URL.Query(), map[string]sanitize.FieldType{"days": sanitize.TypeNumber})
	v := violations{}
	days := v.countParam(q, "days", application.DefaultRecentDays)
	if err := v.err(); err != nil {
		_ = c.Error(err)
		return
	}
	rows, err := h.Svc.Recent(c.Request.Context(), days)
	h.users(c, rows, err)
}

func (h *AnalyticsHandler) Search(c *gin.Context) {
	q := sanitize.Query(c.Request.URL.Query(), map[string]sanitize.FieldType{
		"limit":    sanitize.TypeNumber,
		"verified": sanitize.TypeBoolean,
	})
	v := violations{}
	in := application.SearchInput{
		Limit:    v.countParam(q, "limit", application.DefaultSearchLimit),
		Verified: boolParam(c, q, "verified"),
	}
	in.Term, _ = q.String("q")
	if raw, ok := q.String("role"); ok {
		role, valid := entity.ParseRole(raw)
		if !valid {
			v["role"] = entity.RoleHint()
		}
		in.Role = &role
	}
	if err := v.err(); err != nil {
		_ = c.Error(err)
		return
	}
	rows, err := h.Svc.Search(c.Request.Context(), in)
	h.users(c, rows, err)
}

func (h *AnalyticsHandler) RegistrationStats(c *gin.Context) {
	q := sanitize.Query(c.Request.URL.Query(), map[string]sanitize.FieldType{
		"startDate": sanitize.TypeDate,
		"endDate":   sanitize.TypeDate,
	})
	st, err := h.Svc.RegistrationStats(c.Request.Context(), q.Date("startDate").Ptr(), q.Date("endDate").Ptr())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, st, "", nil)
}

type HealthHandler struct{}

func (HealthHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "", nil)
}
