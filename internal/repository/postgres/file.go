package postgres

import (
	"context"
	"fmt"

	"cloudstorage/internal/domain"
	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var fileSelectColumns = []string{
	"id", "name", "original_name", "file_type", "storage_key", "location",
	"size", "owner_id", "parent_id", "created_at", "updated_at",
}

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repo.FileRepository {
	return &PostgresFileRepository{pool: config.Pool}
}

// Find returns matching files oldest first
func (r *PostgresFileRepository) Find(ctx context.Context, filter repo.Filter) ([]models.File, error) {
	where, err := compileFilter(filter, fileColumns)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select(fileSelectColumns...).
		From(filesTable).
		Where(where).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find files query: %w", err)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapError("find files", err)
	}

	files, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.File, error) {
		return scanFile(row)
	})
	if err != nil {
		return nil, wrapError("scan files", err)
	}
	return files, nil
}

// Insert creates a new file
func (r *PostgresFileRepository) Insert(ctx context.Context, file *models.File) (uuid.UUID, error) {
	if file.OwnerID == uuid.Nil {
		return uuid.Nil, repo.ErrMissingOwner
	}
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}

	query, args, err := psql.Insert(filesTable).
		Columns(fileSelectColumns...).
		Values(
			file.ID,
			file.Name,
			file.OriginalName,
			file.FileType,
			file.StorageKey,
			file.Location,
			file.Size,
			file.OwnerID,
			file.ParentID,
			file.CreatedAt,
			file.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build insert file query: %w", err)
	}

	var id uuid.UUID
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if isPgDuplicateError(err) {
			return uuid.Nil, fmt.Errorf("file %s: %w", file.ID, domain.ErrInvalidState)
		}
		return uuid.Nil, wrapError("insert file", err)
	}

	return id, nil
}

// Delete removes matching files
func (r *PostgresFileRepository) Delete(ctx context.Context, filter repo.Filter) (int64, error) {
	where, err := compileFilter(filter, fileColumns)
	if err != nil {
		return 0, err
	}

	query, args, err := psql.Delete(filesTable).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete files query: %w", err)
	}

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapError("delete files", err)
	}
	return tag.RowsAffected(), nil
}

func scanFile(row pgx.Row) (models.File, error) {
	var f models.File
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.OriginalName,
		&f.FileType,
		&f.StorageKey,
		&f.Location,
		&f.Size,
		&f.OwnerID,
		&f.ParentID,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}
