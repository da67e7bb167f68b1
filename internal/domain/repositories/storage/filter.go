package storage

import (
	"errors"

	"github.com/google/uuid"
)

// ErrMissingOwner is returned by adapters handed a Filter that was not built with OwnedBy
var ErrMissingOwner = errors.New("filter has no owner")

// Field names a queryable attribute. Adapters map it to their column or key.
type Field string

const (
	FieldID             Field = "id"
	FieldOwnerID        Field = "owner_id"
	FieldParentID       Field = "parent_id"
	FieldName           Field = "name"
	FieldOriginalName   Field = "original_name"
	FieldFileType       Field = "file_type"
	FieldKind           Field = "kind"
	FieldChildFileIDs   Field = "child_file_ids"
	FieldChildFolderIDs Field = "child_folder_ids"
)

// Op is a predicate operator
type Op int

const (
	OpEq Op = iota
	OpIsNull
	OpIn
)

// Predicate is a single field condition
type Predicate struct {
	Op     Op
	Field  Field
	Value  any
	Values []uuid.UUID
}

// Eq matches field == value
func Eq(field Field, value any) Predicate {
	return Predicate{Op: OpEq, Field: field, Value: value}
}

// IsNull matches a field that is null or absent
func IsNull(field Field) Predicate {
	return Predicate{Op: OpIsNull, Field: field}
}

// In matches an identity field against an explicit id set. An empty set matches nothing.
func In(field Field, ids []uuid.UUID) Predicate {
	return Predicate{Op: OpIn, Field: field, Values: ids}
}

// Group is a conjunction of predicates
type Group []Predicate

// Filter is an owner-scoped query: owner = X AND all predicates AND (any of each Or).
// The only way to get a usable Filter is OwnedBy.
type Filter struct {
	owner uuid.UUID
	all   []Predicate
	anyOf [][]Group
}

// OwnedBy starts a filter restricted to the given owner
func OwnedBy(owner uuid.UUID) Filter {
	return Filter{owner: owner}
}

// Owner returns the owner every match must belong to
func (f Filter) Owner() uuid.UUID {
	return f.owner
}

// Validate reports ErrMissingOwner for filters not built with OwnedBy
func (f Filter) Validate() error {
	if f.owner == uuid.Nil {
		return ErrMissingOwner
	}
	return nil
}

// Predicates returns the conjunctive predicates, excluding the owner
func (f Filter) Predicates() []Predicate {
	return f.all
}

// Disjunctions returns each Or clause as its list of groups
func (f Filter) Disjunctions() [][]Group {
	return f.anyOf
}

// Where adds predicates to the conjunction
func (f Filter) Where(preds ...Predicate) Filter {
	next := f.clone()
	next.all = append(next.all, preds...)
	return next
}

// Eq adds field == value
func (f Filter) Eq(field Field, value any) Filter {
	return f.Where(Eq(field, value))
}

// IsNull adds a field-is-absent predicate
func (f Filter) IsNull(field Field) Filter {
	return f.Where(IsNull(field))
}

// In adds an id membership predicate
func (f Filter) In(field Field, ids []uuid.UUID) Filter {
	return f.Where(In(field, ids))
}

// Or adds a disjunction of groups. Or() with no groups matches nothing.
func (f Filter) Or(groups ...Group) Filter {
	next := f.clone()
	next.anyOf = append(next.anyOf, groups)
	return next
}

func (f Filter) clone() Filter {
	next := Filter{owner: f.owner}
	next.all = append([]Predicate(nil), f.all...)
	next.anyOf = append([][]Group(nil), f.anyOf...)
	return next
}

// ByID is shorthand for an owner-scoped lookup of one entity
func ByID(owner, id uuid.UUID) Filter {
	return OwnedBy(owner).Eq(FieldID, id)
}
