// Package filter describes user queries as data. Predicates reference a
// closed set of fields and operators; turning them into SQL is the storage
// layer's job, so nothing here ever holds query text.
package filter

import "time"

// Field is a filterable or sortable user column.
type Field int

const (
	FieldID Field = iota + 1
	FieldName
	FieldEmail
	FieldRole
	FieldIsVerified
	FieldCreatedAt
	FieldUpdatedAt
)

var fieldNames = map[Field]string{
	FieldID:         "id",
	FieldName:       "name",
	FieldEmail:      "email",
	FieldRole:       "role",
	FieldIsVerified: "is_verified",
	FieldCreatedAt:  "created_at",
	FieldUpdatedAt:  "updated_at",
}

// String returns the column name of the field.
func (f Field) String() string { return fieldNames[f] }

// Op is a comparison operator.
type Op int

const (
	OpEq Op = iota + 1
	// OpContains is a case-insensitive substring match on text fields.
	OpContains
	OpGte
	OpLte
)

// Predicate is a single condition on a user row.
type Predicate interface {
	isPredicate()
}

// Compare is Field Op Value.
type Compare struct {
	Field Field
	Op    Op
	Value any
}

// AnyOf matches when at least one of its predicates matches.
type AnyOf []Predicate

// LoginPresence matches users with at least one login event (Has) or none.
type LoginPresence struct {
	Has bool
}

// LastLogin compares the user's most recent login time with At.
// Users who never logged in never match.
type LastLogin struct {
	Op Op
	At time.Time
}

func (Compare) isPredicate()       {}
func (AnyOf) isPredicate()         {}
func (LoginPresence) isPredicate() {}
func (LastLogin) isPredicate()     {}
