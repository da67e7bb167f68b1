package postgres

import (
	"context"
	"fmt"
	"time"

	"cloudstorage/internal/domain"
	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var folderSelectColumns = []string{
	"id", "name", "kind", "child_file_ids", "child_folder_ids",
	"owner_id", "parent_id", "created_at", "updated_at",
}

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repo.FolderRepository {
	return &PostgresFolderRepository{pool: config.Pool, now: time.Now}
}

// Find returns matching folders oldest first
func (r *PostgresFolderRepository) Find(ctx context.Context, filter repo.Filter) ([]models.Folder, error) {
	where, err := compileFilter(filter, folderColumns)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select(folderSelectColumns...).
		From(foldersTable).
		Where(where).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find folders query: %w", err)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapError("find folders", err)
	}

	folders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Folder, error) {
		return scanFolder(row)
	})
	if err != nil {
		return nil, wrapError("scan folders", err)
	}
	return folders, nil
}

// Insert creates a folder with its child sets in one statement
func (r *PostgresFolderRepository) Insert(ctx context.Context, folder *models.Folder) (uuid.UUID, error) {
	if folder.OwnerID == uuid.Nil {
		return uuid.Nil, repo.ErrMissingOwner
	}
	if !folder.Kind.Valid() {
		return uuid.Nil, fmt.Errorf("%w: folder kind %q", domain.ErrValidation, folder.Kind)
	}
	if folder.ID == uuid.Nil {
		folder.ID = uuid.New()
	}

	query, args, err := psql.Insert(foldersTable).
		Columns(folderSelectColumns...).
		Values(
			folder.ID,
			folder.Name,
			string(folder.Kind),
			nonNilIDs(folder.ChildFileIDs),
			nonNilIDs(folder.ChildFolderIDs),
			folder.OwnerID,
			folder.ParentID,
			folder.CreatedAt,
			folder.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build insert folder query: %w", err)
	}

	var id uuid.UUID
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if isPgDuplicateError(err) {
			return uuid.Nil, fmt.Errorf("folder %s: %w", folder.ID, domain.ErrInvalidState)
		}
		return uuid.Nil, wrapError("insert folder", err)
	}

	return id, nil
}

// Delete removes matching folders without touching their children
func (r *PostgresFolderRepository) Delete(ctx context.Context, filter repo.Filter) (int64, error) {
	where, err := compileFilter(filter, folderColumns)
	if err != nil {
		return 0, err
	}

	query, args, err := psql.Delete(foldersTable).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete folders query: %w", err)
	}

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapError("delete folders", err)
	}
	return tag.RowsAffected(), nil
}

// Update applies a partial update; the count is the number of matched rows
func (r *PostgresFolderRepository) Update(ctx context.Context, filter repo.Filter, update repo.Update) (int64, error) {
	where, err := compileFilter(filter, folderColumns)
	if err != nil {
		return 0, err
	}

	builder, err := applyFolderUpdate(psql.Update(foldersTable), update, r.now())
	if err != nil {
		return 0, err
	}

	query, args, err := builder.Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update folders query: %w", err)
	}

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapError("update folders", err)
	}
	return tag.RowsAffected(), nil
}

func scanFolder(row pgx.Row) (models.Folder, error) {
	var (
		f    models.Folder
		kind string
	)
	err := row.Scan(
		&f.ID,
		&f.Name,
		&kind,
		&f.ChildFileIDs,
		&f.ChildFolderIDs,
		&f.OwnerID,
		&f.ParentID,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	f.Kind = models.FolderKind(kind)
	return f, err
}

// nonNilIDs keeps NOT NULL array columns from receiving NULL
func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
