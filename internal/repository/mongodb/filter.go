package mongodb

import (
	"fmt"
	"time"

	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

var fileKeys = map[repo.Field]string{
	repo.FieldID:           "_id",
	repo.FieldOwnerID:      "owner_id",
	repo.FieldParentID:     "parent_id",
	repo.FieldName:         "name",
	repo.FieldOriginalName: "original_name",
	repo.FieldFileType:     "file_type",
}

var folderKeys = map[repo.Field]string{
	repo.FieldID:             "_id",
	repo.FieldOwnerID:        "owner_id",
	repo.FieldParentID:       "parent_id",
	repo.FieldName:           "name",
	repo.FieldKind:           "kind",
	repo.FieldChildFileIDs:   "child_file_ids",
	repo.FieldChildFolderIDs: "child_folder_ids",
}

// compileFilter renders {owner_id: X, $and: [...]}. Each Or becomes one $or
// entry inside $and.
func compileFilter(filter repo.Filter, keys map[repo.Field]string) (bson.D, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	doc := bson.D{{Key: "owner_id", Value: filter.Owner().String()}}
	conds := bson.A{}

	for _, p := range filter.Predicates() {
		cond, err := compilePredicate(p, keys)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}

	for _, groups := range filter.Disjunctions() {
		if len(groups) == 0 {
			// $or must not be empty; match nothing instead
			conds = append(conds, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{}}}}})
			continue
		}
		or := bson.A{}
		for _, group := range groups {
			and := bson.D{}
			if len(group) > 0 {
				parts := bson.A{}
				for _, p := range group {
					cond, err := compilePredicate(p, keys)
					if err != nil {
						return nil, err
					}
					parts = append(parts, cond)
				}
				and = bson.D{{Key: "$and", Value: parts}}
			}
			or = append(or, and)
		}
		conds = append(conds, bson.D{{Key: "$or", Value: or}})
	}

	if len(conds) > 0 {
		doc = append(doc, bson.E{Key: "$and", Value: conds})
	}
	return doc, nil
}

func compilePredicate(p repo.Predicate, keys map[repo.Field]string) (bson.D, error) {
	key, ok := keys[p.Field]
	if !ok || repo.IsSetField(p.Field) {
		return nil, fmt.Errorf("field %q is not queryable", p.Field)
	}

	switch p.Op {
	case repo.OpEq:
		return bson.D{{Key: key, Value: bsonValue(p.Value)}}, nil
	case repo.OpIsNull:
		// null also matches a missing key
		return bson.D{{Key: key, Value: nil}}, nil
	case repo.OpIn:
		ids := bson.A{}
		for _, id := range p.Values {
			ids = append(ids, id.String())
		}
		return bson.D{{Key: key, Value: bson.D{{Key: "$in", Value: ids}}}}, nil
	}
	return nil, fmt.Errorf("unsupported operator %d", p.Op)
}

func bsonValue(v any) any {
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

// compileUpdate maps Set/Push/Pull to $set/$addToSet/$pull and stamps updated_at
func compileUpdate(update repo.Update, now time.Time) (bson.D, error) {
	if update.IsEmpty() {
		return nil, fmt.Errorf("empty update")
	}

	set := bson.D{}
	addToSet := bson.D{}
	pull := bson.D{}

	for _, c := range update.Changes() {
		key, ok := folderKeys[c.Field]
		if !ok || c.Field == repo.FieldID || c.Field == repo.FieldOwnerID {
			return nil, fmt.Errorf("field %q cannot be updated", c.Field)
		}
		switch c.Op {
		case repo.UpdateSet:
			if repo.IsSetField(c.Field) {
				return nil, fmt.Errorf("field %q is a set, use push or pull", c.Field)
			}
			set = append(set, bson.E{Key: key, Value: bsonValue(c.Value)})
		case repo.UpdatePush, repo.UpdatePull:
			if !repo.IsSetField(c.Field) {
				return nil, fmt.Errorf("field %q is not a set", c.Field)
			}
			id, ok := c.Value.(uuid.UUID)
			if !ok {
				return nil, fmt.Errorf("set field %q expects a uuid, got %T", c.Field, c.Value)
			}
			if c.Op == repo.UpdatePush {
				addToSet = append(addToSet, bson.E{Key: key, Value: id.String()})
			} else {
				pull = append(pull, bson.E{Key: key, Value: id.String()})
			}
		default:
			return nil, fmt.Errorf("unsupported update operator %d", c.Op)
		}
	}

	set = append(set, bson.E{Key: "updated_at", Value: now})
	doc := bson.D{{Key: "$set", Value: set}}
	if len(addToSet) > 0 {
		doc = append(doc, bson.E{Key: "$addToSet", Value: addToSet})
	}
	if len(pull) > 0 {
		doc = append(doc, bson.E{Key: "$pull", Value: pull})
	}
	return doc, nil
}
