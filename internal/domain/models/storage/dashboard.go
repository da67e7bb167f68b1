package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// ItemKind discriminates a DashboardItem
type ItemKind string

const (
	ItemKindFile   ItemKind = "file"
	ItemKindFolder ItemKind = "folder"
)

// DashboardItem is either a file or a folder, used only for merged listings.
// Exactly one of File and Folder is set.
type DashboardItem struct {
	Kind   ItemKind
	File   *File
	Folder *Folder
}

// FileItem wraps a file
func FileItem(f *File) DashboardItem {
	return DashboardItem{Kind: ItemKindFile, File: f}
}

// FolderItem wraps a folder
func FolderItem(f *Folder) DashboardItem {
	return DashboardItem{Kind: ItemKindFolder, Folder: f}
}

// CreatedAt returns the creation time of the wrapped entity
func (i DashboardItem) CreatedAt() time.Time {
	if i.Kind == ItemKindFile {
		return i.File.CreatedAt
	}
	return i.Folder.CreatedAt
}

// Name returns the display name of the wrapped entity
func (i DashboardItem) Name() string {
	if i.Kind == ItemKindFile {
		return i.File.Name
	}
	return i.Folder.Name
}

type dashboardItemJSON struct {
	Type ItemKind        `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON renders {"type": "file"|"folder", "data": {...}}
func (i DashboardItem) MarshalJSON() ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch i.Kind {
	case ItemKindFile:
		data, err = json.Marshal(i.File)
	case ItemKindFolder:
		data, err = json.Marshal(i.Folder)
	default:
		return nil, fmt.Errorf("unknown dashboard item kind %q", i.Kind)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(dashboardItemJSON{Type: i.Kind, Data: data})
}

// UnmarshalJSON is the inverse of MarshalJSON
func (i *DashboardItem) UnmarshalJSON(b []byte) error {
	var raw dashboardItemJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case ItemKindFile:
		var f File
		if err := json.Unmarshal(raw.Data, &f); err != nil {
			return err
		}
		*i = FileItem(&f)
	case ItemKindFolder:
		var f Folder
		if err := json.Unmarshal(raw.Data, &f); err != nil {
			return err
		}
		*i = FolderItem(&f)
	default:
		return fmt.Errorf("unknown dashboard item type %q", raw.Type)
	}
	return nil
}
