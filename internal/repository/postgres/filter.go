package postgres

import (
	"fmt"
	"time"

	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var fileColumns = map[repo.Field]string{
	repo.FieldID:           "id",
	repo.FieldOwnerID:      "owner_id",
	repo.FieldParentID:     "parent_id",
	repo.FieldName:         "name",
	repo.FieldOriginalName: "original_name",
	repo.FieldFileType:     "file_type",
}

var folderColumns = map[repo.Field]string{
	repo.FieldID:       "id",
	repo.FieldOwnerID:  "owner_id",
	repo.FieldParentID: "parent_id",
	repo.FieldName:     "name",
	repo.FieldKind:     "kind",
}

var folderSetColumns = map[repo.Field]string{
	repo.FieldChildFileIDs:   "child_file_ids",
	repo.FieldChildFolderIDs: "child_folder_ids",
}

// compileFilter turns an owner-scoped filter into a WHERE clause.
// The owner predicate always comes first.
func compileFilter(filter repo.Filter, columns map[repo.Field]string) (sq.Sqlizer, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	where := sq.And{sq.Eq{"owner_id": filter.Owner().String()}}

	for _, p := range filter.Predicates() {
		cond, err := compilePredicate(p, columns)
		if err != nil {
			return nil, err
		}
		where = append(where, cond)
	}

	for _, groups := range filter.Disjunctions() {
		or := sq.Or{}
		for _, group := range groups {
			and := sq.And{}
			for _, p := range group {
				cond, err := compilePredicate(p, columns)
				if err != nil {
					return nil, err
				}
				and = append(and, cond)
			}
			or = append(or, and)
		}
		// an empty sq.Or renders (1=0)
		where = append(where, or)
	}

	return where, nil
}

func compilePredicate(p repo.Predicate, columns map[repo.Field]string) (sq.Sqlizer, error) {
	col, ok := columns[p.Field]
	if !ok {
		return nil, fmt.Errorf("field %q is not queryable", p.Field)
	}

	switch p.Op {
	case repo.OpEq:
		return sq.Eq{col: sqlValue(p.Value)}, nil
	case repo.OpIsNull:
		return sq.Eq{col: nil}, nil
	case repo.OpIn:
		ids := make([]string, 0, len(p.Values))
		for _, id := range p.Values {
			ids = append(ids, id.String())
		}
		// squirrel renders an empty list as (1=0)
		return sq.Eq{col: ids}, nil
	}
	return nil, fmt.Errorf("unsupported operator %d", p.Op)
}

// sqlValue converts filter values to driver-friendly scalars. uuid.UUID is a
// byte array and squirrel would otherwise expand it like a list.
func sqlValue(v any) any {
	switch x := v.(type) {
	case uuid.UUID:
		return x.String()
	case *uuid.UUID:
		if x == nil {
			return nil
		}
		return x.String()
	case models.FolderKind:
		return string(x)
	}
	return v
}

// applyFolderUpdate adds SET clauses for update plus updated_at
func applyFolderUpdate(b sq.UpdateBuilder, update repo.Update, now time.Time) (sq.UpdateBuilder, error) {
	if update.IsEmpty() {
		return b, fmt.Errorf("empty update")
	}

	for _, c := range update.Changes() {
		switch c.Op {
		case repo.UpdateSet:
			col, ok := folderColumns[c.Field]
			if !ok || c.Field == repo.FieldID || c.Field == repo.FieldOwnerID {
				return b, fmt.Errorf("field %q cannot be set", c.Field)
			}
			b = b.Set(col, sqlValue(c.Value))
		case repo.UpdatePush, repo.UpdatePull:
			col, ok := folderSetColumns[c.Field]
			if !ok {
				return b, fmt.Errorf("field %q is not a set", c.Field)
			}
			id, ok := c.Value.(uuid.UUID)
			if !ok {
				return b, fmt.Errorf("set field %q expects a uuid, got %T", c.Field, c.Value)
			}
			if c.Op == repo.UpdatePush {
				b = b.Set(col, sq.Expr(
					fmt.Sprintf("CASE WHEN ?::uuid = ANY(%[1]s) THEN %[1]s ELSE array_append(%[1]s, ?::uuid) END", col),
					id.String(), id.String(),
				))
			} else {
				b = b.Set(col, sq.Expr(fmt.Sprintf("array_remove(%s, ?::uuid)", col), id.String()))
			}
		default:
			return b, fmt.Errorf("unsupported update operator %d", c.Op)
		}
	}

	return b.Set("updated_at", now), nil
}
