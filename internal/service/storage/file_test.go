package storage

import (
	"context"
	"testing"

	"cloudstorage/internal/domain"
	models "cloudstorage/internal/domain/models/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadFile_TopLevel(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, DefaultTreeConfig())
	owner := uuid.New()

	file, err := h.fileSvc.UploadFile(ctx, owner, &models.FileDescription{
		Name:       "cv.pdf",
		FileType:   "document",
		StorageKey: "uploads/cv.pdf",
		Location:   "https://cdn.example.com/uploads/cv.pdf",
		Size:       1024,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "cv.pdf", file.Name)
	assert.Equal(t, "cv.pdf", file.OriginalName)
	assert.Nil(t, file.ParentID)
	assert.Equal(t, int64(1024), file.Size)

	again, err := h.fileSvc.UploadFile(ctx, owner, &models.FileDescription{Name: "cv.pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "cv (1).pdf", again.Name)
}

func TestUploadFile_IntoFolder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, DefaultTreeConfig())
	owner := uuid.New()

	root, err := h.tree.CreateTree(ctx, owner, &models.TreeDescription{Name: "docs"}, nil)
	require.NoError(t, err)

	file, err := h.fileSvc.UploadFile(ctx, owner, &models.FileDescription{Name: "a.txt"}, &root.ID)
	require.NoError(t, err)

	require.NotNil(t, file.ParentID)
	assert.Equal(t, root.ID, *file.ParentID)
	assert.Equal(t, []uuid.UUID{file.ID}, h.folder(t, owner, root.ID).ChildFileIDs)
}

func TestUploadFile_Errors(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, DefaultTreeConfig())
	owner, other := uuid.New(), uuid.New()

	foreign, err := h.tree.CreateTree(ctx, other, &models.TreeDescription{Name: "theirs"}, nil)
	require.NoError(t, err)
	missing := uuid.New()

	tests := []struct {
		name     string
		owner    uuid.UUID
		desc     *models.FileDescription
		folderID *uuid.UUID
		target   error
	}{
		{"no owner", uuid.Nil, &models.FileDescription{Name: "a"}, nil, domain.ErrUnauthenticated},
		{"nil description", owner, nil, nil, domain.ErrValidation},
		{"blank name", owner, &models.FileDescription{Name: " "}, nil, domain.ErrValidation},
		{"missing folder", owner, &models.FileDescription{Name: "a"}, &missing, domain.ErrNotFound},
		{"foreign folder", owner, &models.FileDescription{Name: "a"}, &foreign.ID, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.fileSvc.UploadFile(ctx, tt.owner, tt.desc, tt.folderID)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	assert.Empty(t, h.allFiles(t, owner))
	assert.Empty(t, h.folder(t, other, foreign.ID).ChildFileIDs)
}

func TestListFiles_ByType(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, DefaultTreeConfig())
	owner := uuid.New()

	for _, d := range []models.FileDescription{
		{Name: "a.png", FileType: "image"},
		{Name: "b.mp4", FileType: "video"},
		{Name: "c.txt", FileType: "text"},
	} {
		_, err := h.fileSvc.UploadFile(ctx, owner, &d, nil)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		types []string
		want  []string
	}{
		{"no filter", nil, []string{"a.png", "b.mp4", "c.txt"}},
		{"one type", []string{"video"}, []string{"b.mp4"}},
		{"any of types", []string{"image", "text"}, []string{"a.png", "c.txt"}},
		{"blank types ignored", []string{" ", ""}, []string{"a.png", "b.mp4", "c.txt"}},
		{"unknown type", []string{"audio"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := h.fileSvc.ListFiles(ctx, owner, tt.types)
			require.NoError(t, err)

			var got []string
			for _, f := range files {
				got = append(got, f.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeleteFiles_UnlinksFromFolders(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, DefaultTreeConfig())
	owner, other := uuid.New(), uuid.New()

	root, err := h.tree.CreateTree(ctx, owner, photos(), nil)
	require.NoError(t, err)
	loose, err := h.fileSvc.UploadFile(ctx, owner, &models.FileDescription{Name: "loose.txt"}, nil)
	require.NoError(t, err)
	theirs, err := h.fileSvc.UploadFile(ctx, other, &models.FileDescription{Name: "theirs.txt"}, nil)
	require.NoError(t, err)

	cover := root.ChildFileIDs[0]
	deleted, err := h.fileSvc.DeleteFiles(ctx, owner, []uuid.UUID{cover, loose.ID, theirs.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	assert.Empty(t, h.folder(t, owner, root.ID).ChildFileIDs)
	assert.Len(t, h.allFiles(t, owner), 3)
	assert.Len(t, h.allFiles(t, other), 1)

	n, err := h.fileSvc.DeleteFiles(ctx, owner, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
