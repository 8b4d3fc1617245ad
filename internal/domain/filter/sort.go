package filter

import "strings"

// SortField is the allow-list of sortable columns.
type SortField string

const (
	SortByID         SortField = "id"
	SortByName       SortField = "name"
	SortByEmail      SortField = "email"
	SortByRole       SortField = "role"
	SortByIsVerified SortField = "is_verified"
	SortByCreatedAt  SortField = "created_at"
	SortByUpdatedAt  SortField = "updated_at"

	DefaultSortField = SortByCreatedAt
)

var sortFields = map[SortField]Field{
	SortByID:         FieldID,
	SortByName:       FieldName,
	SortByEmail:      FieldEmail,
	SortByRole:       FieldRole,
	SortByIsVerified: FieldIsVerified,
	SortByCreatedAt:  FieldCreatedAt,
	SortByUpdatedAt:  FieldUpdatedAt,
}

// Field returns the column for s, falling back to created_at.
func (s SortField) Field() Field {
	if f, ok := sortFields[s]; ok {
		return f
	}
	return FieldCreatedAt
}

type SortOrder string

const (
	Asc  SortOrder = "ASC"
	Desc SortOrder = "DESC"

	DefaultSortOrder = Desc
)

// Sort is a resolved ordering. Substituted is set when the requested field
// or direction was not allowed and a default took its place.
type Sort struct {
	By          SortField `json:"by"`
	Order       SortOrder `json:"order"`
	Substituted bool      `json:"substituted,omitempty"`
}

// DefaultSort orders newest first.
func DefaultSort() Sort { return Sort{By: DefaultSortField, Order: DefaultSortOrder} }

// ParseSort resolves raw request values against the allow-lists. Empty
// values take the defaults silently; unknown values are substituted.
func ParseSort(by, order string) Sort {
	s := DefaultSort()

	by = strings.TrimSpace(by)
	if by != "" {
		if _, ok := sortFields[SortField(by)]; ok {
			s.By = SortField(by)
		} else {
			s.Substituted = true
		}
	}

	order = strings.ToUpper(strings.TrimSpace(order))
	switch SortOrder(order) {
	case Asc, Desc:
		s.Order = SortOrder(order)
	case "":
	default:
		s.Substituted = true
	}
	return s
}
