package storage

import (
	"slices"

	models "cloudstorage/internal/domain/models/storage"
)

// BuildListing merges files and folders into one sequence ordered by creation
// time. Equal timestamps keep enumeration order, so files come before folders.
func BuildListing(files []models.File, folders []models.Folder) []models.DashboardItem {
	items := make([]models.DashboardItem, 0, len(files)+len(folders))
	for i := range files {
		items = append(items, models.FileItem(&files[i]))
	}
	for i := range folders {
		items = append(items, models.FolderItem(&folders[i]))
	}

	slices.SortStableFunc(items, func(a, b models.DashboardItem) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	return items
}
