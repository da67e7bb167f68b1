// Package memory is an in-process entity store. It keeps insertion order and
// copies records on the way in and out so callers never share slices with it.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"

	"github.com/google/uuid"
)

// Store holds files and folders for all owners
type Store struct {
	mu      sync.RWMutex
	files   []models.File
	folders []models.Folder
	now     func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{now: time.Now}
}

// WithClock overrides the clock used for updated_at on partial updates
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Files returns the file repository backed by this store
func (s *Store) Files() repo.FileRepository {
	return &fileRepository{store: s}
}

// Folders returns the folder repository backed by this store
func (s *Store) Folders() repo.FolderRepository {
	return &folderRepository{store: s}
}

type fileRepository struct {
	store *Store
}

func (r *fileRepository) Find(ctx context.Context, filter repo.Filter) ([]models.File, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []models.File{}
	for i := range r.store.files {
		ok, err := matches(fileGetter(&r.store.files[i]), filter)
		if err != nil {
			return nil, fmt.Errorf("find files: %w", err)
		}
		if ok {
			result = append(result, copyFile(r.store.files[i]))
		}
	}
	return result, nil
}

func (r *fileRepository) Insert(ctx context.Context, file *models.File) (uuid.UUID, error) {
	if file.OwnerID == uuid.Nil {
		return uuid.Nil, repo.ErrMissingOwner
	}
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.files {
		if r.store.files[i].ID == file.ID {
			return uuid.Nil, fmt.Errorf("insert file %s: duplicate id", file.ID)
		}
	}
	r.store.files = append(r.store.files, copyFile(*file))
	return file.ID, nil
}

func (r *fileRepository) Delete(ctx context.Context, filter repo.Filter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := make([]models.File, 0, len(r.store.files))
	var deleted int64
	for i := range r.store.files {
		ok, err := matches(fileGetter(&r.store.files[i]), filter)
		if err != nil {
			return 0, fmt.Errorf("delete files: %w", err)
		}
		if ok {
			deleted++
			continue
		}
		kept = append(kept, r.store.files[i])
	}
	r.store.files = kept
	return deleted, nil
}

type folderRepository struct {
	store *Store
}

func (r *folderRepository) Find(ctx context.Context, filter repo.Filter) ([]models.Folder, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []models.Folder{}
	for i := range r.store.folders {
		ok, err := matches(folderGetter(&r.store.folders[i]), filter)
		if err != nil {
			return nil, fmt.Errorf("find folders: %w", err)
		}
		if ok {
			result = append(result, copyFolder(r.store.folders[i]))
		}
	}
	return result, nil
}

func (r *folderRepository) Insert(ctx context.Context, folder *models.Folder) (uuid.UUID, error) {
	if folder.OwnerID == uuid.Nil {
		return uuid.Nil, repo.ErrMissingOwner
	}
	if folder.ID == uuid.Nil {
		folder.ID = uuid.New()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.folders {
		if r.store.folders[i].ID == folder.ID {
			return uuid.Nil, fmt.Errorf("insert folder %s: duplicate id", folder.ID)
		}
	}
	r.store.folders = append(r.store.folders, copyFolder(*folder))
	return folder.ID, nil
}

func (r *folderRepository) Delete(ctx context.Context, filter repo.Filter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := make([]models.Folder, 0, len(r.store.folders))
	var deleted int64
	for i := range r.store.folders {
		ok, err := matches(folderGetter(&r.store.folders[i]), filter)
		if err != nil {
			return 0, fmt.Errorf("delete folders: %w", err)
		}
		if ok {
			deleted++
			continue
		}
		kept = append(kept, r.store.folders[i])
	}
	r.store.folders = kept
	return deleted, nil
}

func (r *folderRepository) Update(ctx context.Context, filter repo.Filter, update repo.Update) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched int64
	for i := range r.store.folders {
		ok, err := matches(folderGetter(&r.store.folders[i]), filter)
		if err != nil {
			return 0, fmt.Errorf("update folders: %w", err)
		}
		if !ok {
			continue
		}
		// apply to a copy so a bad change leaves the record untouched
		next := copyFolder(r.store.folders[i])
		if err := applyUpdate(&next, update); err != nil {
			return matched, fmt.Errorf("update folder %s: %w", next.ID, err)
		}
		next.UpdatedAt = r.store.now()
		r.store.folders[i] = next
		matched++
	}
	return matched, nil
}

func applyUpdate(f *models.Folder, update repo.Update) error {
	for _, c := range update.Changes() {
		switch c.Op {
		case repo.UpdateSet:
			if err := setField(f, c.Field, c.Value); err != nil {
				return err
			}
		case repo.UpdatePush, repo.UpdatePull:
			id, ok := c.Value.(uuid.UUID)
			if !ok {
				return fmt.Errorf("set field %q expects a uuid, got %T", c.Field, c.Value)
			}
			set, err := idSet(f, c.Field)
			if err != nil {
				return err
			}
			if c.Op == repo.UpdatePush {
				*set = addID(*set, id)
			} else {
				*set = removeID(*set, id)
			}
		default:
			return fmt.Errorf("unsupported update operator %d", c.Op)
		}
	}
	return nil
}

func setField(f *models.Folder, field repo.Field, value any) error {
	switch field {
	case repo.FieldName:
		name, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %q expects a string, got %T", field, value)
		}
		f.Name = name
	case repo.FieldKind:
		switch k := value.(type) {
		case models.FolderKind:
			f.Kind = k
		case string:
			f.Kind = models.FolderKind(k)
		default:
			return fmt.Errorf("field %q expects a folder kind, got %T", field, value)
		}
	case repo.FieldParentID:
		switch p := value.(type) {
		case nil:
			f.ParentID = nil
		case uuid.UUID:
			f.ParentID = &p
		case *uuid.UUID:
			if p == nil {
				f.ParentID = nil
			} else {
				id := *p
				f.ParentID = &id
			}
		default:
			return fmt.Errorf("field %q expects a uuid, got %T", field, value)
		}
	default:
		return fmt.Errorf("field %q cannot be set", field)
	}
	return nil
}

func idSet(f *models.Folder, field repo.Field) (*[]uuid.UUID, error) {
	switch field {
	case repo.FieldChildFileIDs:
		return &f.ChildFileIDs, nil
	case repo.FieldChildFolderIDs:
		return &f.ChildFolderIDs, nil
	}
	return nil, fmt.Errorf("field %q is not a set", field)
}

func addID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func copyFile(f models.File) models.File {
	if f.ParentID != nil {
		p := *f.ParentID
		f.ParentID = &p
	}
	return f
}

func copyFolder(f models.Folder) models.Folder {
	if f.ParentID != nil {
		p := *f.ParentID
		f.ParentID = &p
	}
	f.ChildFileIDs = append([]uuid.UUID{}, f.ChildFileIDs...)
	f.ChildFolderIDs = append([]uuid.UUID{}, f.ChildFolderIDs...)
	return f
}
