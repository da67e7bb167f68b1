package storage

import (
	"context"
	"fmt"

	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"
	svc "cloudstorage/internal/domain/services/storage"
	"cloudstorage/internal/logger"

	"github.com/google/uuid"
)

type dashboardService struct {
	fileRepo   repo.FileRepository
	folderRepo repo.FolderRepository
	resolver   svc.ScopeResolver
	logger     *logger.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	fileRepo repo.FileRepository,
	folderRepo repo.FolderRepository,
	resolver svc.ScopeResolver,
	log *logger.Logger,
) svc.DashboardService {
	return &dashboardService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		resolver:   resolver,
		logger:     log,
	}
}

func (s *dashboardService) Dashboard(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID) ([]models.DashboardItem, error) {
	scope, err := s.resolver.ResolveScope(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, scope)
}

func (s *dashboardService) FolderDetails(ctx context.Context, ownerID, folderID uuid.UUID) (*models.FolderDetails, error) {
	folder, err := findFolder(ctx, s.folderRepo, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	items, err := s.list(ctx, FolderScope(ownerID, folder))
	if err != nil {
		return nil, err
	}

	return &models.FolderDetails{Folder: folder, Items: items}, nil
}

func (s *dashboardService) list(ctx context.Context, scope *svc.Scope) ([]models.DashboardItem, error) {
	files, err := s.fileRepo.Find(ctx, scope.Files)
	if err != nil {
		return nil, fmt.Errorf("list scope files: %w", err)
	}
	folders, err := s.folderRepo.Find(ctx, scope.Folders)
	if err != nil {
		return nil, fmt.Errorf("list scope folders: %w", err)
	}
	return BuildListing(files, folders), nil
}
