package mongodb

import (
	"fmt"
	"time"

	models "cloudstorage/internal/domain/models/storage"

	"github.com/google/uuid"
)

// ids are stored as their canonical string form so they stay readable in the shell

type fileDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	OriginalName string    `bson:"original_name"`
	FileType     string    `bson:"file_type"`
	StorageKey   string    `bson:"storage_key"`
	Location     string    `bson:"location"`
	Size         int64     `bson:"size"`
	OwnerID      string    `bson:"owner_id"`
	ParentID     *string   `bson:"parent_id,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type folderDocument struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	Kind           string    `bson:"kind"`
	ChildFileIDs   []string  `bson:"child_file_ids"`
	ChildFolderIDs []string  `bson:"child_folder_ids"`
	OwnerID        string    `bson:"owner_id"`
	ParentID       *string   `bson:"parent_id,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toFileDocument(f *models.File) fileDocument {
	return fileDocument{
		ID:           f.ID.String(),
		Name:         f.Name,
		OriginalName: f.OriginalName,
		FileType:     f.FileType,
		StorageKey:   f.StorageKey,
		Location:     f.Location,
		Size:         f.Size,
		OwnerID:      f.OwnerID.String(),
		ParentID:     idString(f.ParentID),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func (d *fileDocument) model() (models.File, error) {
	var (
		f   models.File
		err error
	)
	if f.ID, err = uuid.Parse(d.ID); err != nil {
		return f, fmt.Errorf("file id %q: %w", d.ID, err)
	}
	if f.OwnerID, err = uuid.Parse(d.OwnerID); err != nil {
		return f, fmt.Errorf("file %s owner: %w", d.ID, err)
	}
	if f.ParentID, err = parseOptionalID(d.ParentID); err != nil {
		return f, fmt.Errorf("file %s parent: %w", d.ID, err)
	}
	f.Name = d.Name
	f.OriginalName = d.OriginalName
	f.FileType = d.FileType
	f.StorageKey = d.StorageKey
	f.Location = d.Location
	f.Size = d.Size
	f.CreatedAt = d.CreatedAt
	f.UpdatedAt = d.UpdatedAt
	return f, nil
}

func toFolderDocument(f *models.Folder) folderDocument {
	return folderDocument{
		ID:             f.ID.String(),
		Name:           f.Name,
		Kind:           string(f.Kind),
		ChildFileIDs:   idStrings(f.ChildFileIDs),
		ChildFolderIDs: idStrings(f.ChildFolderIDs),
		OwnerID:        f.OwnerID.String(),
		ParentID:       idString(f.ParentID),
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func (d *folderDocument) model() (models.Folder, error) {
	var (
		f   models.Folder
		err error
	)
	if f.ID, err = uuid.Parse(d.ID); err != nil {
		return f, fmt.Errorf("folder id %q: %w", d.ID, err)
	}
	if f.OwnerID, err = uuid.Parse(d.OwnerID); err != nil {
		return f, fmt.Errorf("folder %s owner: %w", d.ID, err)
	}
	if f.ParentID, err = parseOptionalID(d.ParentID); err != nil {
		return f, fmt.Errorf("folder %s parent: %w", d.ID, err)
	}
	if f.ChildFileIDs, err = parseIDs(d.ChildFileIDs); err != nil {
		return f, fmt.Errorf("folder %s files: %w", d.ID, err)
	}
	if f.ChildFolderIDs, err = parseIDs(d.ChildFolderIDs); err != nil {
		return f, fmt.Errorf("folder %s folders: %w", d.ID, err)
	}
	f.Name = d.Name
	f.Kind = models.FolderKind(d.Kind)
	f.CreatedAt = d.CreatedAt
	f.UpdatedAt = d.UpdatedAt
	return f, nil
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func parseOptionalID(s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseIDs(ss []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
