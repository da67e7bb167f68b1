package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloudstorage/internal/domain"
	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCompileFilter(t *testing.T) {
	owner, id := uuid.New(), uuid.New()
	o, i := owner.String(), id.String()

	tests := []struct {
		name   string
		filter repo.Filter
		keys   map[repo.Field]string
		want   bson.D
	}{
		{
			name:   "owner only",
			filter: repo.OwnedBy(owner),
			keys:   fileKeys,
			want:   bson.D{{Key: "owner_id", Value: o}},
		},
		{
			name:   "by id maps to _id",
			filter: repo.ByID(owner, id),
			keys:   folderKeys,
			want: bson.D{
				{Key: "owner_id", Value: o},
				{Key: "$and", Value: bson.A{bson.D{{Key: "_id", Value: i}}}},
			},
		},
		{
			name:   "top level",
			filter: repo.OwnedBy(owner).IsNull(repo.FieldParentID),
			keys:   fileKeys,
			want: bson.D{
				{Key: "owner_id", Value: o},
				{Key: "$and", Value: bson.A{bson.D{{Key: "parent_id", Value: nil}}}},
			},
		},
		{
			name:   "root kind",
			filter: repo.OwnedBy(owner).Eq(repo.FieldKind, models.FolderKindRoot),
			keys:   folderKeys,
			want: bson.D{
				{Key: "owner_id", Value: o},
				{Key: "$and", Value: bson.A{bson.D{{Key: "kind", Value: "Root"}}}},
			},
		},
		{
			name:   "id set",
			filter: repo.OwnedBy(owner).In(repo.FieldID, []uuid.UUID{id}),
			keys:   fileKeys,
			want: bson.D{
				{Key: "owner_id", Value: o},
				{Key: "$and", Value: bson.A{bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{i}}}}}}},
			},
		},
		{
			name: "or of groups",
			filter: repo.OwnedBy(owner).Or(
				repo.Group{repo.Eq(repo.FieldFileType, "image")},
				repo.Group{repo.Eq(repo.FieldFileType, "video")},
			),
			keys: fileKeys,
			want: bson.D{
				{Key: "owner_id", Value: o},
				{Key: "$and", Value: bson.A{
					bson.D{{Key: "$or", Value: bson.A{
						bson.D{{Key: "$and", Value: bson.A{bson.D{{Key: "file_type", Value: "image"}}}}},
						bson.D{{Key: "$and", Value: bson.A{bson.D{{Key: "file_type", Value: "video"}}}}},
					}}},
				}},
			},
		},
		{
			name:   "empty or matches nothing",
			filter: repo.OwnedBy(owner).Or(),
			keys:   fileKeys,
			want: bson.D{
				{Key: "owner_id", Value: o},
				{Key: "$and", Value: bson.A{bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{}}}}}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compileFilter(tt.filter, tt.keys)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileFilter_Rejects(t *testing.T) {
	_, err := compileFilter(repo.Filter{}, fileKeys)
	assert.ErrorIs(t, err, repo.ErrMissingOwner)

	_, err = compileFilter(repo.OwnedBy(uuid.New()).Eq(repo.FieldKind, "Root"), fileKeys)
	assert.Error(t, err)

	_, err = compileFilter(repo.OwnedBy(uuid.New()).Eq(repo.FieldChildFolderIDs, "x"), folderKeys)
	assert.Error(t, err)
}

func TestCompileUpdate(t *testing.T) {
	child := uuid.New()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	got, err := compileUpdate(
		repo.Push(repo.FieldChildFolderIDs, child).Pull(repo.FieldChildFileIDs, child).Set(repo.FieldName, "n"),
		now,
	)
	require.NoError(t, err)

	assert.Equal(t, bson.D{
		{Key: "$set", Value: bson.D{{Key: "name", Value: "n"}, {Key: "updated_at", Value: now}}},
		{Key: "$addToSet", Value: bson.D{{Key: "child_folder_ids", Value: child.String()}}},
		{Key: "$pull", Value: bson.D{{Key: "child_file_ids", Value: child.String()}}},
	}, got)
}

func TestCompileUpdate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		update repo.Update
	}{
		{"empty", repo.Update{}},
		{"owner", repo.Set(repo.FieldOwnerID, uuid.New())},
		{"set on a set field", repo.Set(repo.FieldChildFileIDs, "x")},
		{"push on a scalar", repo.Push(repo.FieldName, uuid.New())},
		{"unknown field", repo.Set(repo.FieldFileType, "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileUpdate(tt.update, time.Now())
			assert.Error(t, err)
		})
	}
}

func TestFolderDocument_RoundTrip(t *testing.T) {
	parent := uuid.New()
	folder := &models.Folder{
		ID:             uuid.New(),
		Name:           "docs",
		Kind:           models.FolderKindNested,
		ChildFileIDs:   []uuid.UUID{uuid.New()},
		ChildFolderIDs: []uuid.UUID{},
		OwnerID:        uuid.New(),
		ParentID:       &parent,
		CreatedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	doc := toFolderDocument(folder)
	assert.Equal(t, parent.String(), *doc.ParentID)

	back, err := doc.model()
	require.NoError(t, err)
	assert.Equal(t, *folder, back)

	doc.OwnerID = "not-a-uuid"
	_, err = doc.model()
	assert.Error(t, err)
}

func TestFileDocument_TopLevelOmitsParent(t *testing.T) {
	file := &models.File{ID: uuid.New(), Name: "a", OwnerID: uuid.New()}

	raw, err := bson.Marshal(toFileDocument(file))
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	_, has := m["parent_id"]
	assert.False(t, has)
}

func TestWrapError(t *testing.T) {
	assert.ErrorIs(t, wrapError("find", context.DeadlineExceeded), domain.ErrStoreUnavailable)
	plain := wrapError("find", errors.New("bad query"))
	assert.NotErrorIs(t, plain, domain.ErrStoreUnavailable)
}
