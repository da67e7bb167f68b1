package storage

import (
	"time"

	"github.com/google/uuid"
)

// FolderKind tells whether a folder hangs off another folder
type FolderKind string

const (
	FolderKindRoot   FolderKind = "Root"
	FolderKindNested FolderKind = "Nested"
)

// Valid reports whether k is a known kind
func (k FolderKind) Valid() bool {
	return k == FolderKindRoot || k == FolderKindNested
}

// KindFor returns Root for a nil parent and Nested otherwise
func KindFor(parentID *uuid.UUID) FolderKind {
	if parentID == nil {
		return FolderKindRoot
	}
	return FolderKindNested
}

// Folder is the persisted record. Children are referenced by id only;
// TreeDescription is the nested input shape.
type Folder struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Kind           FolderKind  `json:"kind"`
	ChildFileIDs   []uuid.UUID `json:"files"`
	ChildFolderIDs []uuid.UUID `json:"folders"`
	OwnerID        uuid.UUID   `json:"owner_id"`
	ParentID       *uuid.UUID  `json:"parent_id"` // nil iff Kind == Root
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// HasChildFolder reports whether id is listed in the child-folder set
func (f *Folder) HasChildFolder(id uuid.UUID) bool {
	for _, child := range f.ChildFolderIDs {
		if child == id {
			return true
		}
	}
	return false
}

// FolderDetails is a folder together with its resolved listing
type FolderDetails struct {
	Folder *Folder         `json:"folder"`
	Items  []DashboardItem `json:"items"`
}
