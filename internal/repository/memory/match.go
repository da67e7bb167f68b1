package memory

import (
	"fmt"

	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"

	"github.com/google/uuid"
)

// getter returns the value of a field and whether the field exists on the entity
type getter func(field repo.Field) (any, bool)

func fileGetter(f *models.File) getter {
	return func(field repo.Field) (any, bool) {
		switch field {
		case repo.FieldID:
			return f.ID, true
		case repo.FieldOwnerID:
			return f.OwnerID, true
		case repo.FieldParentID:
			return f.ParentID, true
		case repo.FieldName:
			return f.Name, true
		case repo.FieldOriginalName:
			return f.OriginalName, true
		case repo.FieldFileType:
			return f.FileType, true
		}
		return nil, false
	}
}

func folderGetter(f *models.Folder) getter {
	return func(field repo.Field) (any, bool) {
		switch field {
		case repo.FieldID:
			return f.ID, true
		case repo.FieldOwnerID:
			return f.OwnerID, true
		case repo.FieldParentID:
			return f.ParentID, true
		case repo.FieldName:
			return f.Name, true
		case repo.FieldKind:
			return f.Kind, true
		}
		return nil, false
	}
}

// normalize flattens the value types used in filters to comparable strings
func normalize(v any) (s string, null bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case uuid.UUID:
		return x.String(), false
	case *uuid.UUID:
		if x == nil {
			return "", true
		}
		return x.String(), false
	case string:
		return x, false
	case *string:
		if x == nil {
			return "", true
		}
		return *x, false
	case models.FolderKind:
		return string(x), false
	case fmt.Stringer:
		return x.String(), false
	default:
		return fmt.Sprint(x), false
	}
}

func matches(get getter, filter repo.Filter) (bool, error) {
	owner, _ := get(repo.FieldOwnerID)
	if s, _ := normalize(owner); s != filter.Owner().String() {
		return false, nil
	}

	for _, p := range filter.Predicates() {
		ok, err := matchPredicate(get, p)
		if err != nil || !ok {
			return false, err
		}
	}

	for _, groups := range filter.Disjunctions() {
		hit := false
		for _, group := range groups {
			ok, err := matchGroup(get, group)
			if err != nil {
				return false, err
			}
			if ok {
				hit = true
				break
			}
		}
		if !hit {
			return false, nil
		}
	}

	return true, nil
}

func matchGroup(get getter, group repo.Group) (bool, error) {
	for _, p := range group {
		ok, err := matchPredicate(get, p)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchPredicate(get getter, p repo.Predicate) (bool, error) {
	value, known := get(p.Field)
	if !known {
		return false, fmt.Errorf("unknown field %q", p.Field)
	}
	actual, null := normalize(value)

	switch p.Op {
	case repo.OpEq:
		want, wantNull := normalize(p.Value)
		if wantNull {
			return null, nil
		}
		return !null && actual == want, nil
	case repo.OpIsNull:
		return null, nil
	case repo.OpIn:
		if null {
			return false, nil
		}
		for _, id := range p.Values {
			if id.String() == actual {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("unsupported operator %d", p.Op)
}
