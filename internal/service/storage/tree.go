package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloudstorage/internal/config"
	"cloudstorage/internal/domain"
	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"
	svc "cloudstorage/internal/domain/services/storage"
	"cloudstorage/internal/logger"

	"github.com/google/uuid"
)

// TreeConfig holds the tree mutation policy
type TreeConfig struct {
	// StrictConsistency rejects deletes of folders whose parent linkage is broken
	StrictConsistency bool
	MaxDepth          int
}

// DefaultTreeConfig is strict with the default depth limit
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{StrictConsistency: true, MaxDepth: config.DefaultMaxTreeDepth}
}

type treeService struct {
	fileRepo   repo.FileRepository
	folderRepo repo.FolderRepository
	mutations  *MutationRunner
	cfg        TreeConfig
	now        func() time.Time
	logger     *logger.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	fileRepo repo.FileRepository,
	folderRepo repo.FolderRepository,
	mutations *MutationRunner,
	cfg TreeConfig,
	log *logger.Logger,
) svc.TreeService {
	return &treeService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		mutations:  mutations,
		cfg:        cfg,
		now:        time.Now,
		logger:     log,
	}
}

// CreateTree walks desc depth-first. Each folder gets its id first, then its
// files and subfolders are written, then the folder itself with full child sets.
func (s *treeService) CreateTree(ctx context.Context, ownerID uuid.UUID, desc *models.TreeDescription, parentID *uuid.UUID) (*models.Folder, error) {
	if ownerID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateTree(desc, s.cfg.MaxDepth); err != nil {
		return nil, err
	}

	var created *models.Folder
	err := s.mutations.Run(ctx, ownerID, func(ctx context.Context) error {
		if parentID != nil {
			if _, err := findFolder(ctx, s.folderRepo, ownerID, *parentID); err != nil {
				return fmt.Errorf("parent folder: %w", err)
			}
		}

		folder, err := s.createFolder(ctx, ownerID, desc, parentID)
		if err != nil {
			return err
		}

		if parentID != nil {
			update := repo.Push(repo.FieldChildFolderIDs, folder.ID)
			if _, err := s.folderRepo.Update(ctx, repo.ByID(ownerID, *parentID), update); err != nil {
				return fmt.Errorf("link folder %s into %s: %w", folder.ID, *parentID, err)
			}
		}

		created = folder
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).
			Str("owner_id", ownerID.String()).
			Str("name", desc.Name).
			Msg("create tree aborted")
		return nil, err
	}

	folders, files := desc.Count()
	s.logger.Info().
		Str("id", created.ID.String()).
		Str("name", created.Name).
		Str("owner_id", ownerID.String()).
		Str("kind", string(created.Kind)).
		Int("folders", folders).
		Int("files", files).
		Msg("folder tree created")

	return created, nil
}

func (s *treeService) createFolder(ctx context.Context, ownerID uuid.UUID, desc *models.TreeDescription, parentID *uuid.UUID) (*models.Folder, error) {
	now := s.now()
	folder := &models.Folder{
		ID:             uuid.New(),
		Name:           desc.Name,
		Kind:           models.KindFor(parentID),
		ParentID:       copyID(parentID),
		OwnerID:        ownerID,
		ChildFileIDs:   make([]uuid.UUID, 0, len(desc.Files)),
		ChildFolderIDs: make([]uuid.UUID, 0, len(desc.Folders)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for i := range desc.Files {
		file, err := insertFile(ctx, s.fileRepo, ownerID, &desc.Files[i], &folder.ID, s.now())
		if err != nil {
			return nil, err
		}
		folder.ChildFileIDs = append(folder.ChildFileIDs, file.ID)
	}

	for i := range desc.Folders {
		child, err := s.createFolder(ctx, ownerID, &desc.Folders[i], &folder.ID)
		if err != nil {
			return nil, err
		}
		folder.ChildFolderIDs = append(folder.ChildFolderIDs, child.ID)
	}

	if _, err := s.folderRepo.Insert(ctx, folder); err != nil {
		return nil, fmt.Errorf("insert folder %q: %w", folder.Name, err)
	}

	s.logger.Debug().
		Str("id", folder.ID.String()).
		Str("name", folder.Name).
		Int("files", len(folder.ChildFileIDs)).
		Int("folders", len(folder.ChildFolderIDs)).
		Msg("folder persisted")

	return folder, nil
}

// DeleteSubtree deletes each requested folder post-order: subfolders, files,
// unlink from parent, the folder itself.
func (s *treeService) DeleteSubtree(ctx context.Context, ownerID uuid.UUID, folderIDs []uuid.UUID) ([]models.Folder, error) {
	if ownerID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	err := s.mutations.Run(ctx, ownerID, func(ctx context.Context) error {
		for _, id := range folderIDs {
			folder, err := findFolder(ctx, s.folderRepo, ownerID, id)
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Debug().Str("folder_id", id.String()).Msg("folder to delete not found, skipping")
				continue
			}
			if err != nil {
				return err
			}

			if s.cfg.StrictConsistency {
				if err := s.verifySubtree(ctx, ownerID, folder, true); err != nil {
					return err
				}
			}

			if err := s.deleteFolder(ctx, ownerID, folder); err != nil {
				return err
			}

			s.logger.Info().
				Str("id", folder.ID.String()).
				Str("name", folder.Name).
				Str("owner_id", ownerID.String()).
				Msg("folder subtree deleted")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ListRootFolders(ctx, ownerID)
}

// verifySubtree checks parent linkage below folder without writing anything.
// For the requested folder itself the parent must exist and list it.
func (s *treeService) verifySubtree(ctx context.Context, ownerID uuid.UUID, folder *models.Folder, top bool) error {
	if top && folder.ParentID != nil {
		parent, err := findFolder(ctx, s.folderRepo, ownerID, *folder.ParentID)
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.InvalidStateError{
				Message:      fmt.Sprintf("folder %s references missing parent %s", folder.ID, *folder.ParentID),
				ResourceType: "folder",
				ResourceID:   folder.ID.String(),
			}
		}
		if err != nil {
			return err
		}
		if !parent.HasChildFolder(folder.ID) {
			return &domain.InvalidStateError{
				Message:      fmt.Sprintf("folder %s is not listed by its parent %s", folder.ID, parent.ID),
				ResourceType: "folder",
				ResourceID:   folder.ID.String(),
			}
		}
	}

	for _, childID := range folder.ChildFolderIDs {
		child, err := findFolder(ctx, s.folderRepo, ownerID, childID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if child.ParentID == nil || *child.ParentID != folder.ID {
			return &domain.InvalidStateError{
				Message:      fmt.Sprintf("folder %s is listed by %s but has a different parent", child.ID, folder.ID),
				ResourceType: "folder",
				ResourceID:   child.ID.String(),
			}
		}
		if err := s.verifySubtree(ctx, ownerID, child, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *treeService) deleteFolder(ctx context.Context, ownerID uuid.UUID, folder *models.Folder) error {
	for _, childID := range folder.ChildFolderIDs {
		child, err := findFolder(ctx, s.folderRepo, ownerID, childID)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().
				Str("folder_id", folder.ID.String()).
				Str("child_id", childID.String()).
				Msg("dangling child folder reference")
			continue
		}
		if err != nil {
			return err
		}
		if err := s.deleteFolder(ctx, ownerID, child); err != nil {
			return err
		}
	}

	if len(folder.ChildFileIDs) > 0 {
		deleted, err := s.fileRepo.Delete(ctx, repo.OwnedBy(ownerID).In(repo.FieldID, folder.ChildFileIDs))
		if err != nil {
			return fmt.Errorf("delete files of folder %s: %w", folder.ID, err)
		}
		if deleted != int64(len(folder.ChildFileIDs)) {
			s.logger.Warn().
				Str("folder_id", folder.ID.String()).
				Int("listed", len(folder.ChildFileIDs)).
				Int64("deleted", deleted).
				Msg("dangling child file references")
		}
	}

	if folder.ParentID != nil {
		update := repo.Pull(repo.FieldChildFolderIDs, folder.ID)
		if _, err := s.folderRepo.Update(ctx, repo.ByID(ownerID, *folder.ParentID), update); err != nil {
			return fmt.Errorf("unlink folder %s from %s: %w", folder.ID, *folder.ParentID, err)
		}
	}

	if _, err := s.folderRepo.Delete(ctx, repo.ByID(ownerID, folder.ID)); err != nil {
		return fmt.Errorf("delete folder %s: %w", folder.ID, err)
	}

	s.logger.Debug().Str("id", folder.ID.String()).Str("name", folder.Name).Msg("folder deleted")
	return nil
}

func (s *treeService) ListRootFolders(ctx context.Context, ownerID uuid.UUID) ([]models.Folder, error) {
	folders, err := s.folderRepo.Find(ctx, TopLevelScope(ownerID).Folders)
	if err != nil {
		return nil, fmt.Errorf("list root folders: %w", err)
	}
	return folders, nil
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
