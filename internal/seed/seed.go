// Package seed loads yaml fixtures of folder trees into the store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloudstorage/internal/domain"
	models "cloudstorage/internal/domain/models/storage"
	svc "cloudstorage/internal/domain/services/storage"
	"cloudstorage/internal/logger"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Fixture is the yaml document layout: loose files plus folder trees, all
// placed under the same parent.
type Fixture struct {
	Files   []models.FileDescription `yaml:"files"`
	Folders []models.TreeDescription `yaml:"folders"`
}

// Decode reads a fixture. Unknown keys are rejected so typos surface early.
func Decode(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return &fx, nil
		}
		return nil, fmt.Errorf("%w: decode fixture: %s", domain.ErrValidation, err.Error())
	}
	return &fx, nil
}

// LoadFile decodes the fixture at path
func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Result counts what a Seed call wrote
type Result struct {
	Folders int
	Files   int
}

// TreeSeeder writes fixtures through the storage services
type TreeSeeder struct {
	trees  svc.TreeService
	files  svc.FileService
	logger *logger.Logger
}

// NewTreeSeeder creates a new tree seeder
func NewTreeSeeder(trees svc.TreeService, files svc.FileService, log *logger.Logger) *TreeSeeder {
	return &TreeSeeder{trees: trees, files: files, logger: log}
}

// Seed writes fx for owner under parentID (nil = top level). It stops at the
// first failure; entities already written stay.
func (s *TreeSeeder) Seed(ctx context.Context, owner uuid.UUID, fx *Fixture, parentID *uuid.UUID) (Result, error) {
	var res Result

	for i := range fx.Files {
		file, err := s.files.UploadFile(ctx, owner, &fx.Files[i], parentID)
		if err != nil {
			return res, fmt.Errorf("upload %q: %w", fx.Files[i].Name, err)
		}
		res.Files++
		s.logger.Debug().Str("file_id", file.ID.String()).Str("name", file.Name).Msg("file seeded")
	}

	for i := range fx.Folders {
		tree := &fx.Folders[i]
		folder, err := s.trees.CreateTree(ctx, owner, tree, parentID)
		if err != nil {
			return res, fmt.Errorf("create tree %q: %w", tree.Name, err)
		}
		folders, files := tree.Count()
		res.Folders += folders
		res.Files += files
		s.logger.Info().
			Str("folder_id", folder.ID.String()).
			Str("name", folder.Name).
			Int("folders", folders).
			Int("files", files).
			Msg("tree seeded")
	}

	return res, nil
}

// Clean removes every Root folder subtree of owner, then all remaining files
func (s *TreeSeeder) Clean(ctx context.Context, owner uuid.UUID) error {
	roots, err := s.trees.ListRootFolders(ctx, owner)
	if err != nil {
		return err
	}
	if len(roots) > 0 {
		ids := make([]uuid.UUID, len(roots))
		for i := range roots {
			ids[i] = roots[i].ID
		}
		if _, err := s.trees.DeleteSubtree(ctx, owner, ids); err != nil {
			return fmt.Errorf("delete folders: %w", err)
		}
	}

	files, err := s.files.ListFiles(ctx, owner, nil)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(files))
	for i := range files {
		ids[i] = files[i].ID
	}
	deleted, err := s.files.DeleteFiles(ctx, owner, ids)
	if err != nil {
		return fmt.Errorf("delete files: %w", err)
	}

	s.logger.Info().Int("folders", len(roots)).Int64("files", deleted).Msg("owner data cleared")
	return nil
}
