package storage

import "github.com/google/uuid"

// UpdateOp is a partial update operator
type UpdateOp int

const (
	UpdateSet UpdateOp = iota
	UpdatePush
	UpdatePull
)

// Change is one partial update step
type Change struct {
	Op    UpdateOp
	Field Field
	Value any
}

// Update is an ordered list of changes applied to every matched document.
// Adapters also refresh updated_at.
type Update struct {
	changes []Change
}

// Set replaces a scalar field
func Set(field Field, value any) Update {
	return Update{}.Set(field, value)
}

// Push adds id to a set field, leaving it unchanged when already present
func Push(field Field, id uuid.UUID) Update {
	return Update{}.Push(field, id)
}

// Pull removes id from a set field
func Pull(field Field, id uuid.UUID) Update {
	return Update{}.Pull(field, id)
}

func (u Update) Set(field Field, value any) Update {
	return u.with(Change{Op: UpdateSet, Field: field, Value: value})
}

func (u Update) Push(field Field, id uuid.UUID) Update {
	return u.with(Change{Op: UpdatePush, Field: field, Value: id})
}

func (u Update) Pull(field Field, id uuid.UUID) Update {
	return u.with(Change{Op: UpdatePull, Field: field, Value: id})
}

// Changes returns the changes in the order they were added
func (u Update) Changes() []Change {
	return u.changes
}

// IsEmpty reports whether the update has no changes
func (u Update) IsEmpty() bool {
	return len(u.changes) == 0
}

func (u Update) with(c Change) Update {
	next := Update{changes: make([]Change, 0, len(u.changes)+1)}
	next.changes = append(next.changes, u.changes...)
	next.changes = append(next.changes, c)
	return next
}

// IsSetField reports whether field holds an id set
func IsSetField(field Field) bool {
	return field == FieldChildFileIDs || field == FieldChildFolderIDs
}
