package storage

import (
	"context"

	models "cloudstorage/internal/domain/models/storage"

	"github.com/google/uuid"
)

// FileRepository is the file half of the entity store.
// Every method takes an owner-scoped Filter; a filter without owner fails with ErrMissingOwner.
type FileRepository interface {
	// Find returns all matching files, in insertion order where the store has one
	Find(ctx context.Context, filter Filter) ([]models.File, error)

	// Insert stores a new file and returns its id. A nil ID is assigned before the write.
	Insert(ctx context.Context, file *models.File) (uuid.UUID, error)

	// Delete removes all matching files and returns how many were removed
	Delete(ctx context.Context, filter Filter) (int64, error)
}

// FolderRepository is the folder half of the entity store
type FolderRepository interface {
	Find(ctx context.Context, filter Filter) ([]models.Folder, error)

	// Insert stores a new folder record with its child id sets as one write
	Insert(ctx context.Context, folder *models.Folder) (uuid.UUID, error)

	Delete(ctx context.Context, filter Filter) (int64, error)

	// Update applies a partial update to all matching folders and returns the matched count
	Update(ctx context.Context, filter Filter, update Update) (int64, error)
}
