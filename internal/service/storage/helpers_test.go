package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"
	"cloudstorage/internal/lock"
	"cloudstorage/internal/logger"
	"cloudstorage/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// tickingClock returns a strictly increasing time on every call
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type harness struct {
	store   *memory.Store
	files   repo.FileRepository
	folders repo.FolderRepository
	tree    *treeService
	fileSvc *fileService
	dash    *dashboardService
}

func newHarness(t *testing.T, cfg TreeConfig) *harness {
	t.Helper()
	return newHarnessWith(t, cfg, nil)
}

// newHarnessWith lets a test wrap the file repository
func newHarnessWith(t *testing.T, cfg TreeConfig, wrapFiles func(repo.FileRepository) repo.FileRepository) *harness {
	t.Helper()
	store := memory.NewStore()
	files := store.Files()
	if wrapFiles != nil {
		files = wrapFiles(files)
	}
	folders := store.Folders()
	log := logger.Nop()
	clock := tickingClock()

	mutations := NewMutationRunner(lock.NewLocal(), nil)

	tree, ok := NewTreeService(files, folders, mutations, cfg, log).(*treeService)
	require.True(t, ok)
	tree.now = clock

	fileSvc, ok := NewFileService(files, folders, mutations, log).(*fileService)
	require.True(t, ok)
	fileSvc.now = clock

	dash, ok := NewDashboardService(files, folders, NewScopeResolver(folders, log), log).(*dashboardService)
	require.True(t, ok)

	return &harness{store: store, files: files, folders: folders, tree: tree, fileSvc: fileSvc, dash: dash}
}

func (h *harness) folder(t *testing.T, owner, id uuid.UUID) *models.Folder {
	t.Helper()
	found, err := h.folders.Find(context.Background(), repo.ByID(owner, id))
	require.NoError(t, err)
	if len(found) == 0 {
		return nil
	}
	return &found[0]
}

func (h *harness) allFolders(t *testing.T, owner uuid.UUID) []models.Folder {
	t.Helper()
	found, err := h.folders.Find(context.Background(), repo.OwnedBy(owner))
	require.NoError(t, err)
	return found
}

func (h *harness) allFiles(t *testing.T, owner uuid.UUID) []models.File {
	t.Helper()
	found, err := h.files.Find(context.Background(), repo.OwnedBy(owner))
	require.NoError(t, err)
	return found
}

// failingFiles fails every Insert after the first n
type failingFiles struct {
	repo.FileRepository
	n       int
	inserts int
}

func (f *failingFiles) Insert(ctx context.Context, file *models.File) (uuid.UUID, error) {
	if f.inserts >= f.n {
		return uuid.Nil, errBoom
	}
	f.inserts++
	return f.FileRepository.Insert(ctx, file)
}

// photos is a three level tree:
//
//	photos/{cover.jpg, 2023/{a.jpg, b.jpg, raw/{a.cr2}}, 2024/}
func photos() *models.TreeDescription {
	return &models.TreeDescription{
		Name:  "photos",
		Files: []models.FileDescription{{Name: "cover.jpg", FileType: "image"}},
		Folders: []models.TreeDescription{
			{
				Name: "2023",
				Files: []models.FileDescription{
					{Name: "a.jpg", FileType: "image"},
					{Name: "b.jpg", FileType: "image"},
				},
				Folders: []models.TreeDescription{
					{Name: "raw", Files: []models.FileDescription{{Name: "a.cr2", FileType: "raw"}}},
				},
			},
			{Name: "2024"},
		},
	}
}
