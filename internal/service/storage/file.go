package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloudstorage/internal/domain"
	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"
	svc "cloudstorage/internal/domain/services/storage"
	"cloudstorage/internal/logger"

	"github.com/google/uuid"
)

type fileService struct {
	fileRepo   repo.FileRepository
	folderRepo repo.FolderRepository
	mutations  *MutationRunner
	now        func() time.Time
	logger     *logger.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repo.FileRepository,
	folderRepo repo.FolderRepository,
	mutations *MutationRunner,
	log *logger.Logger,
) svc.FileService {
	return &fileService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		mutations:  mutations,
		now:        time.Now,
		logger:     log,
	}
}

func (s *fileService) ListFiles(ctx context.Context, ownerID uuid.UUID, fileTypes []string) ([]models.File, error) {
	filter := repo.OwnedBy(ownerID)

	var groups []repo.Group
	for _, t := range fileTypes {
		if t = strings.TrimSpace(t); t != "" {
			groups = append(groups, repo.Group{repo.Eq(repo.FieldFileType, t)})
		}
	}
	if len(groups) > 0 {
		filter = filter.Or(groups...)
	}

	files, err := s.fileRepo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

func (s *fileService) UploadFile(ctx context.Context, ownerID uuid.UUID, desc *models.FileDescription, folderID *uuid.UUID) (*models.File, error) {
	if ownerID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if desc == nil {
		return nil, fmt.Errorf("%w: file description is required", domain.ErrValidation)
	}
	if err := validateFileDescription(desc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var file *models.File
	err := s.mutations.Run(ctx, ownerID, func(ctx context.Context) error {
		if folderID != nil {
			if _, err := findFolder(ctx, s.folderRepo, ownerID, *folderID); err != nil {
				return err
			}
		}

		created, err := insertFile(ctx, s.fileRepo, ownerID, desc, folderID, s.now())
		if err != nil {
			return err
		}

		if folderID != nil {
			update := repo.Push(repo.FieldChildFileIDs, created.ID)
			if _, err := s.folderRepo.Update(ctx, repo.ByID(ownerID, *folderID), update); err != nil {
				return fmt.Errorf("link file %s into %s: %w", created.ID, *folderID, err)
			}
		}

		file = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("id", file.ID.String()).
		Str("name", file.Name).
		Str("owner_id", ownerID.String()).
		Msg("file uploaded")

	return file, nil
}

// DeleteFiles unlinks each matched file from its folder, then deletes them all
func (s *fileService) DeleteFiles(ctx context.Context, ownerID uuid.UUID, fileIDs []uuid.UUID) (int64, error) {
	if ownerID == uuid.Nil {
		return 0, domain.ErrUnauthenticated
	}
	if len(fileIDs) == 0 {
		return 0, nil
	}

	groups := make([]repo.Group, 0, len(fileIDs))
	for _, id := range fileIDs {
		groups = append(groups, repo.Group{repo.Eq(repo.FieldID, id)})
	}
	filter := repo.OwnedBy(ownerID).Or(groups...)

	var deleted int64
	err := s.mutations.Run(ctx, ownerID, func(ctx context.Context) error {
		files, err := s.fileRepo.Find(ctx, filter)
		if err != nil {
			return fmt.Errorf("find files: %w", err)
		}

		for _, f := range files {
			if f.ParentID == nil {
				continue
			}
			update := repo.Pull(repo.FieldChildFileIDs, f.ID)
			if _, err := s.folderRepo.Update(ctx, repo.ByID(ownerID, *f.ParentID), update); err != nil {
				return fmt.Errorf("unlink file %s from %s: %w", f.ID, *f.ParentID, err)
			}
		}

		deleted, err = s.fileRepo.Delete(ctx, filter)
		if err != nil {
			return fmt.Errorf("delete files: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Str("owner_id", ownerID.String()).
		Int("requested", len(fileIDs)).
		Int64("deleted", deleted).
		Msg("files deleted")

	return deleted, nil
}

// insertFile applies the de-dup rule and writes one file record.
// The stored name counts every existing file of the owner with the same original name.
func insertFile(
	ctx context.Context,
	files repo.FileRepository,
	ownerID uuid.UUID,
	desc *models.FileDescription,
	parentID *uuid.UUID,
	now time.Time,
) (*models.File, error) {
	duplicates, err := files.Find(ctx, repo.OwnedBy(ownerID).Eq(repo.FieldOriginalName, desc.Name))
	if err != nil {
		return nil, fmt.Errorf("check duplicates of %q: %w", desc.Name, err)
	}

	file := &models.File{
		ID:           uuid.New(),
		Name:         disambiguateName(desc.Name, len(duplicates)),
		OriginalName: desc.Name,
		FileType:     desc.FileType,
		StorageKey:   desc.StorageKey,
		Location:     desc.Location,
		Size:         desc.Size,
		OwnerID:      ownerID,
		ParentID:     copyID(parentID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := files.Insert(ctx, file); err != nil {
		return nil, fmt.Errorf("insert file %q: %w", file.Name, err)
	}
	return file, nil
}
