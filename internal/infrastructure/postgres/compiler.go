package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oksasatya/go-user-query-service/internal/domain/filter"
)

// Column names come from the filter allow-list only; user input is always
// passed as a bound argument.
var columns = map[filter.Field]string{
	filter.FieldID:         "u.id",
	filter.FieldName:       "u.name",
	filter.FieldEmail:      "u.email",
	filter.FieldRole:       "u.role",
	filter.FieldIsVerified: "u.is_verified",
	filter.FieldCreatedAt:  "u.created_at",
	filter.FieldUpdatedAt:  "u.updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type args []any

func (a *args) bind(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}

func column(f filter.Field) (string, error) {
	c, ok := columns[f]
	if !ok {
		return "", fmt.Errorf("postgres: unknown field %d", f)
	}
	return c, nil
}

func comparator(op filter.Op) (string, error) {
	switch op {
	case filter.OpEq:
		return "=", nil
	case filter.OpGte:
		return ">=", nil
	case filter.OpLte:
		return "<=", nil
	default:
		return "", fmt.Errorf("postgres: unsupported operator %d", op)
	}
}

// whereClause returns " WHERE ..." (or "") for preds, appending bound values to a.
func whereClause(preds []filter.Predicate, a *args) (string, error) {
	if len(preds) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		s, err := compilePredicate(p, a)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return " WHERE " + strings.Join(parts, " AND "), nil
}

func compilePredicate(p filter.Predicate, a *args) (string, error) {
	switch p := p.(type) {
	case filter.Compare:
		col, err := column(p.Field)
		if err != nil {
			return "", err
		}
		if p.Op == filter.OpContains {
			s, ok := p.Value.(string)
			if !ok {
				return "", fmt.Errorf("postgres: contains on %s needs a string, got %T", p.Field, p.Value)
			}
			return col + " ILIKE " + a.bind("%"+likeEscaper.Replace(s)+"%") + ` ESCAPE '\'`, nil
		}
		cmp, err := comparator(p.Op)
		if err != nil {
			return "", err
		}
		return col + " " + cmp + " " + a.bind(p.Value), nil

	case filter.AnyOf:
		if len(p) == 0 {
			return "FALSE", nil
		}
		parts := make([]string, 0, len(p))
		for _, inner := range p {
			s, err := compilePredicate(inner, a)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil

	case filter.LoginPresence:
		if p.Has {
			return "EXISTS (SELECT 1 FROM user_logins ul WHERE ul.user_id = u.id)", nil
		}
		return "NOT EXISTS (SELECT 1 FROM user_logins ul WHERE ul.user_id = u.id)", nil

	case filter.LastLogin:
		cmp, err := comparator(p.Op)
		if err != nil || p.Op == filter.OpEq {
			return "", fmt.Errorf("postgres: unsupported last-login operator %d", p.Op)
		}
		return "(SELECT MAX(ul.logged_in_at) FROM user_logins ul WHERE ul.user_id = u.id) " + cmp + " " + a.bind(p.At), nil

	default:
		return "", fmt.Errorf("postgres: unsupported predicate %T", p)
	}
}

// orderClause orders by the allow-listed field with u.id as tie-breaker.
func orderClause(s filter.Sort) string {
	col := columns[s.By.Field()]
	dir := "DESC"
	if s.Order == filter.Asc {
		dir = "ASC"
	}
	if col == "u.id" {
		return " ORDER BY u.id " + dir
	}
	return " ORDER BY " + col + " " + dir + ", u.id ASC"
}

// windowClause interpolates limit and offset as integers.
func windowClause(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	s := " LIMIT " + strconv.Itoa(limit)
	if offset > 0 {
		s += " OFFSET " + strconv.Itoa(offset)
	}
	return s
}

const activitySelect = "SELECT u.id, u.name, u.email, u.role, u.is_verified, u.created_at, u.updated_at, " +
	"COUNT(l.id) AS login_count, MAX(l.logged_in_at) AS last_login " +
	"FROM users u LEFT JOIN user_logins l ON l.user_id = u.id"

// compiledQuery is a statement and its bound arguments.
type compiledQuery struct {
	SQL  string
	Args []any
}

// compileList lowers q into the row query and the matching count query.
func compileList(q filter.Query) (rows compiledQuery, count compiledQuery, err error) {
	var a args
	where, err := whereClause(q.Predicates, &a)
	if err != nil {
		return compiledQuery{}, compiledQuery{}, err
	}
	rows = compiledQuery{
		SQL:  activitySelect + where + " GROUP BY u.id" + orderClause(q.Sort) + windowClause(q.Limit, q.Offset),
		Args: a,
	}
	count = compiledQuery{
		SQL:  "SELECT COUNT(*) FROM users u" + where,
		Args: a,
	}
	return rows, count, nil
}
