package storage

import (
	"context"

	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"

	"github.com/google/uuid"
)

// TreeService creates and cascade-deletes folder subtrees
type TreeService interface {
	// CreateTree persists desc under parentID (nil = top level) and returns the new folder.
	// A failure part way leaves already written entities in place.
	CreateTree(ctx context.Context, ownerID uuid.UUID, desc *models.TreeDescription, parentID *uuid.UUID) (*models.Folder, error)

	// DeleteSubtree removes each folder with everything below it. Unknown ids are skipped.
	// Returns the owner's Root folders afterwards.
	DeleteSubtree(ctx context.Context, ownerID uuid.UUID, folderIDs []uuid.UUID) ([]models.Folder, error)

	// ListRootFolders returns the owner's Root folders
	ListRootFolders(ctx context.Context, ownerID uuid.UUID) ([]models.Folder, error)
}

// Scope is the pair of filters selecting the children of a folder or of the top level
type Scope struct {
	Files   repo.Filter
	Folders repo.Filter
	// Folder is the resolved folder, nil for the top level
	Folder *models.Folder
}

// ScopeResolver turns an optional folder id into a Scope
type ScopeResolver interface {
	// ResolveScope falls back to the top level when folderID is unknown or foreign
	ResolveScope(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID) (*Scope, error)
}

// DashboardService builds merged listings
type DashboardService interface {
	// Dashboard lists the files and folders of a scope ordered by creation time
	Dashboard(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID) ([]models.DashboardItem, error)

	// FolderDetails returns one folder and its listing, ErrNotFound when absent
	FolderDetails(ctx context.Context, ownerID, folderID uuid.UUID) (*models.FolderDetails, error)
}

// FileService manages single file records
type FileService interface {
	// ListFiles returns the owner's files, restricted to any of fileTypes when given
	ListFiles(ctx context.Context, ownerID uuid.UUID, fileTypes []string) ([]models.File, error)

	// UploadFile records a file under folderID (nil = top level), renaming duplicates
	UploadFile(ctx context.Context, ownerID uuid.UUID, desc *models.FileDescription, folderID *uuid.UUID) (*models.File, error)

	// DeleteFiles removes the given files and unlinks them from their folders
	DeleteFiles(ctx context.Context, ownerID uuid.UUID, fileIDs []uuid.UUID) (int64, error)
}
