package storage

import (
	"context"
	"errors"
	"fmt"

	"cloudstorage/internal/domain"
	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"
	svc "cloudstorage/internal/domain/services/storage"
	"cloudstorage/internal/logger"

	"github.com/google/uuid"
)

type scopeResolver struct {
	folderRepo repo.FolderRepository
	logger     *logger.Logger
}

// NewScopeResolver creates a new scope resolver
func NewScopeResolver(folderRepo repo.FolderRepository, log *logger.Logger) svc.ScopeResolver {
	return &scopeResolver{folderRepo: folderRepo, logger: log}
}

// TopLevelScope selects the owner's parentless files and Root folders
func TopLevelScope(ownerID uuid.UUID) *svc.Scope {
	return &svc.Scope{
		Files:   repo.OwnedBy(ownerID).IsNull(repo.FieldParentID),
		Folders: repo.OwnedBy(ownerID).Eq(repo.FieldKind, models.FolderKindRoot),
	}
}

// FolderScope selects the children listed by folder
func FolderScope(ownerID uuid.UUID, folder *models.Folder) *svc.Scope {
	return &svc.Scope{
		Files:   repo.OwnedBy(ownerID).In(repo.FieldID, folder.ChildFileIDs),
		Folders: repo.OwnedBy(ownerID).In(repo.FieldID, folder.ChildFolderIDs),
		Folder:  folder,
	}
}

func (r *scopeResolver) ResolveScope(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID) (*svc.Scope, error) {
	if folderID == nil {
		return TopLevelScope(ownerID), nil
	}

	folder, err := findFolder(ctx, r.folderRepo, ownerID, *folderID)
	switch {
	case err == nil:
		return FolderScope(ownerID, folder), nil
	case errors.Is(err, domain.ErrNotFound):
		r.logger.Debug().
			Str("owner_id", ownerID.String()).
			Str("folder_id", folderID.String()).
			Msg("scope folder not found, using top level")
		return TopLevelScope(ownerID), nil
	default:
		return nil, err
	}
}

// findFolder loads one owner-scoped folder or returns ErrNotFound
func findFolder(ctx context.Context, folders repo.FolderRepository, ownerID, id uuid.UUID) (*models.Folder, error) {
	found, err := folders.Find(ctx, repo.ByID(ownerID, id))
	if err != nil {
		return nil, fmt.Errorf("find folder %s: %w", id, err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return &found[0], nil
}
