package memory

import (
	"context"
	"testing"
	"time"

	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFile(owner uuid.UUID, name, fileType string, parent *uuid.UUID) *models.File {
	return &models.File{
		Name:         name,
		OriginalName: name,
		FileType:     fileType,
		OwnerID:      owner,
		ParentID:     parent,
		CreatedAt:    time.Now(),
	}
}

func TestFileRepository_FindIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	files := NewStore().Files()
	alice, bob := uuid.New(), uuid.New()

	_, err := files.Insert(ctx, newFile(alice, "a.txt", "text", nil))
	require.NoError(t, err)
	_, err = files.Insert(ctx, newFile(bob, "a.txt", "text", nil))
	require.NoError(t, err)

	found, err := files.Find(ctx, repo.OwnedBy(alice).Eq(repo.FieldName, "a.txt"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, alice, found[0].OwnerID)

	_, err = files.Find(ctx, repo.Filter{})
	assert.ErrorIs(t, err, repo.ErrMissingOwner)
}

func TestFileRepository_InsertAssignsID(t *testing.T) {
	ctx := context.Background()
	files := NewStore().Files()
	f := newFile(uuid.New(), "a.txt", "", nil)

	id, err := files.Insert(ctx, f)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, id, f.ID)

	_, err = files.Insert(ctx, f)
	assert.Error(t, err, "duplicate id must be rejected")

	_, err = files.Insert(ctx, newFile(uuid.Nil, "b.txt", "", nil))
	assert.ErrorIs(t, err, repo.ErrMissingOwner)
}

func TestFileRepository_Predicates(t *testing.T) {
	ctx := context.Background()
	files := NewStore().Files()
	owner := uuid.New()
	parent := uuid.New()

	top := newFile(owner, "top.txt", "text", nil)
	nested := newFile(owner, "nested.png", "image", &parent)
	other := newFile(owner, "clip.mp4", "video", nil)
	for _, f := range []*models.File{top, nested, other} {
		_, err := files.Insert(ctx, f)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter repo.Filter
		want   []string
	}{
		{
			name:   "is null parent",
			filter: repo.OwnedBy(owner).IsNull(repo.FieldParentID),
			want:   []string{"top.txt", "clip.mp4"},
		},
		{
			name:   "eq parent",
			filter: repo.OwnedBy(owner).Eq(repo.FieldParentID, parent),
			want:   []string{"nested.png"},
		},
		{
			name:   "in ids",
			filter: repo.OwnedBy(owner).In(repo.FieldID, []uuid.UUID{top.ID, nested.ID}),
			want:   []string{"top.txt", "nested.png"},
		},
		{
			name:   "empty in matches nothing",
			filter: repo.OwnedBy(owner).In(repo.FieldID, nil),
			want:   nil,
		},
		{
			name: "or of types",
			filter: repo.OwnedBy(owner).Or(
				repo.Group{repo.Eq(repo.FieldFileType, "image")},
				repo.Group{repo.Eq(repo.FieldFileType, "video")},
			),
			want: []string{"nested.png", "clip.mp4"},
		},
		{
			name:   "empty or matches nothing",
			filter: repo.OwnedBy(owner).Or(),
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := files.Find(ctx, tt.filter)
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFileRepository_UnknownFieldFails(t *testing.T) {
	ctx := context.Background()
	files := NewStore().Files()
	owner := uuid.New()
	_, err := files.Insert(ctx, newFile(owner, "a.txt", "", nil))
	require.NoError(t, err)

	_, err = files.Find(ctx, repo.OwnedBy(owner).Eq(repo.FieldKind, "Root"))
	assert.Error(t, err)
}

func TestFileRepository_Delete(t *testing.T) {
	ctx := context.Background()
	files := NewStore().Files()
	owner, stranger := uuid.New(), uuid.New()

	a := newFile(owner, "a.txt", "", nil)
	b := newFile(owner, "b.txt", "", nil)
	foreign := newFile(stranger, "a.txt", "", nil)
	for _, f := range []*models.File{a, b, foreign} {
		_, err := files.Insert(ctx, f)
		require.NoError(t, err)
	}

	n, err := files.Delete(ctx, repo.OwnedBy(owner).In(repo.FieldID, []uuid.UUID{a.ID, foreign.ID}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "a foreign id is never deleted")

	left, err := files.Find(ctx, repo.OwnedBy(owner))
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, b.ID, left[0].ID)

	theirs, err := files.Find(ctx, repo.OwnedBy(stranger))
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestFolderRepository_UpdatePushPull(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	folders := NewStore().WithClock(func() time.Time { return fixed }).Folders()
	owner := uuid.New()

	root := &models.Folder{Name: "root", Kind: models.FolderKindRoot, OwnerID: owner}
	_, err := folders.Insert(ctx, root)
	require.NoError(t, err)

	child := uuid.New()
	n, err := folders.Update(ctx, repo.ByID(owner, root.ID), repo.Push(repo.FieldChildFolderIDs, child))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// pushing twice keeps one entry
	_, err = folders.Update(ctx, repo.ByID(owner, root.ID), repo.Push(repo.FieldChildFolderIDs, child))
	require.NoError(t, err)

	found, err := folders.Find(ctx, repo.ByID(owner, root.ID))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, []uuid.UUID{child}, found[0].ChildFolderIDs)
	assert.Equal(t, fixed, found[0].UpdatedAt)

	_, err = folders.Update(ctx, repo.ByID(owner, root.ID), repo.Pull(repo.FieldChildFolderIDs, child))
	require.NoError(t, err)
	found, err = folders.Find(ctx, repo.ByID(owner, root.ID))
	require.NoError(t, err)
	assert.Empty(t, found[0].ChildFolderIDs)

	n, err = folders.Update(ctx, repo.ByID(uuid.New(), root.ID), repo.Push(repo.FieldChildFileIDs, child))
	require.NoError(t, err)
	assert.Zero(t, n, "another owner matches nothing")
}

func TestFolderRepository_BadUpdateLeavesRecord(t *testing.T) {
	ctx := context.Background()
	folders := NewStore().Folders()
	owner := uuid.New()

	root := &models.Folder{Name: "root", Kind: models.FolderKindRoot, OwnerID: owner}
	_, err := folders.Insert(ctx, root)
	require.NoError(t, err)

	update := repo.Set(repo.FieldName, "renamed").Push(repo.FieldName, uuid.New())
	_, err = folders.Update(ctx, repo.ByID(owner, root.ID), update)
	require.Error(t, err)

	found, err := folders.Find(ctx, repo.ByID(owner, root.ID))
	require.NoError(t, err)
	assert.Equal(t, "root", found[0].Name)
}

func TestFolderRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	folders := NewStore().Folders()
	owner := uuid.New()
	child := uuid.New()

	root := &models.Folder{Name: "root", Kind: models.FolderKindRoot, OwnerID: owner, ChildFolderIDs: []uuid.UUID{child}}
	_, err := folders.Insert(ctx, root)
	require.NoError(t, err)
	root.ChildFolderIDs[0] = uuid.New()

	found, err := folders.Find(ctx, repo.OwnedBy(owner).Eq(repo.FieldKind, models.FolderKindRoot))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, child, found[0].ChildFolderIDs[0])

	found[0].ChildFolderIDs[0] = uuid.New()
	again, err := folders.Find(ctx, repo.ByID(owner, root.ID))
	require.NoError(t, err)
	assert.Equal(t, child, again[0].ChildFolderIDs[0])
}
