package storage

import (
	"fmt"
	"regexp"
	"strings"

	"cloudstorage/internal/config"
	"cloudstorage/internal/domain"
	models "cloudstorage/internal/domain/models/storage"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var noSlash = regexp.MustCompile(`^[^/]+$`)

// validateTree trims names in place and checks the whole description
func validateTree(desc *models.TreeDescription, maxDepth int) error {
	if desc == nil {
		return fmt.Errorf("%w: tree description is required", domain.ErrValidation)
	}
	if maxDepth <= 0 {
		maxDepth = config.DefaultMaxTreeDepth
	}
	if depth := desc.Depth(); depth > maxDepth {
		return fmt.Errorf("%w: tree is %d levels deep, at most %d allowed", domain.ErrValidation, depth, maxDepth)
	}
	if folders, files := desc.Count(); folders+files > config.MaxTreeEntities {
		return fmt.Errorf("%w: tree has %d entries, at most %d allowed", domain.ErrValidation, folders+files, config.MaxTreeEntities)
	}
	if err := validateTreeNode(desc, desc.Name); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateTreeNode(desc *models.TreeDescription, path string) error {
	desc.Name = strings.TrimSpace(desc.Name)
	err := validation.ValidateStruct(desc,
		validation.Field(&desc.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(noSlash).Error("folder name cannot contain slashes"),
		),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for i := range desc.Files {
		if err := validateFileDescription(&desc.Files[i]); err != nil {
			return fmt.Errorf("%s/files[%d]: %w", path, i, err)
		}
	}
	for i := range desc.Folders {
		if err := validateTreeNode(&desc.Folders[i], fmt.Sprintf("%s/folders[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func validateFileDescription(desc *models.FileDescription) error {
	desc.Name = strings.TrimSpace(desc.Name)
	return validation.ValidateStruct(desc,
		validation.Field(&desc.Name,
			validation.Required,
			validation.Length(1, config.MaxFileNameLength),
			validation.Match(noSlash).Error("file name cannot contain slashes"),
		),
		validation.Field(&desc.FileType, validation.Length(0, config.MaxFileTypeLength)),
		validation.Field(&desc.Size, validation.Min(int64(0))),
	)
}
