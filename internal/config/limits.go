package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names. The de-dup
	// suffix " (n)" can push a stored name a few characters past it.
	MaxFileNameLength = 255

	// MaxFileTypeLength bounds the free-form type tag
	MaxFileTypeLength = 127

	// DefaultMaxTreeDepth is how many folder levels one create request may carry
	DefaultMaxTreeDepth = 32

	// MaxTreeEntities caps folders plus files in one create request
	MaxTreeEntities = 10000
)
