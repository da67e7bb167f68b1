package storage

import (
	"time"

	"github.com/google/uuid"
)

// File is a leaf entity. Only location metadata is stored, never the payload.
type File struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	OriginalName string     `json:"original_name"` // de-dup key, set once at creation
	FileType     string     `json:"file_type"`
	StorageKey   string     `json:"storage_key"`
	Location     string     `json:"location"`
	Size         int64      `json:"size"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	ParentID     *uuid.UUID `json:"parent_id"` // nil = top level
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FileDescription is the client-supplied, not yet persisted shape of a file.
type FileDescription struct {
	Name       string `json:"name" yaml:"name"`
	FileType   string `json:"file_type" yaml:"file_type"`
	StorageKey string `json:"storage_key" yaml:"storage_key"`
	Location   string `json:"location" yaml:"location"`
	Size       int64  `json:"size" yaml:"size"`
}
