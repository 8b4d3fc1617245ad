package handlers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-query-service/pkg/apperror"
	"github.com/oksasatya/go-user-query-service/pkg/sanitize"
	"github.com/oksasatya/go-user-query-service/pkg/validation"
)

// decodeJSON only decodes. Handlers sanitize first and then call validate,
// so length rules apply to what will actually be stored.
func decodeJSON(c *gin.Context, dst any) error {
	if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil {
		return apperror.Validation("", validation.ToDetails(err))
	}
	return nil
}

func validate(v any) error {
	if details := validateDetails(v); details != nil {
		return apperror.Validation("", details)
	}
	return nil
}

func validateDetails(v any) map[string]string { return validation.Struct(v) }

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.Validation("", map[string]string{"id": "must be a positive integer"})
	}
	return id, nil
}

// violations collects query parameter problems found before struct validation.
type violations map[string]string

// intParam reads key as a whole number. Absent yields def; present but
// malformed is recorded as a violation.
func (v violations) intParam(q sanitize.Values, key string, def int) int {
	o := q.Number(key)
	if o.Absent() {
		return def
	}
	f, ok := o.Get()
	if !ok {
		v[key] = "must be a valid number"
		return def
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		v[key] = "must be an integer"
		return def
	}
	return int(f)
}

// optIntParam is intParam for inputs where absence matters.
func (v violations) optIntParam(q sanitize.Values, key string) *int {
	if q.Number(key).Absent() {
		return nil
	}
	n := v.intParam(q, key, 0)
	if _, bad := v[key]; bad {
		return nil
	}
	return &n
}

// countParam reads an optional count that must be at least 1 when given.
// Absent yields def.
func (v violations) countParam(q sanitize.Values, key string, def int) int {
	n := v.optIntParam(q, key)
	if n == nil {
		return def
	}
	if *n < 1 {
		v[key] = "must be at least 1"
		return def
	}
	return *n
}

func (v violations) merge(details map[string]string) {
	for k, msg := range details {
		if _, ok := v[k]; !ok {
			v[k] = msg
		}
	}
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return apperror.Validation("", map[string]string(v))
}

// boolParam treats an empty value the same as a missing one.
func boolParam(c *gin.Context, q sanitize.Values, key string) *bool {
	b, ok := q.Bool(key)
	if !ok || strings.TrimSpace(c.Query(key)) == "" {
		return nil
	}
	return &b
}

func stringParam(q sanitize.Values, key string) *string {
	s, ok := q.String(key)
	if !ok {
		return nil
	}
	return &s
}
