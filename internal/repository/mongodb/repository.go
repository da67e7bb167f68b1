package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloudstorage/internal/domain"
	models "cloudstorage/internal/domain/models/storage"
	repo "cloudstorage/internal/domain/repositories/storage"
	"cloudstorage/internal/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	filesCollection   = "files"
	foldersCollection = "folders"
)

var oldestFirst = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

// Connect opens a client, pings it and ensures indexes on the database
func Connect(ctx context.Context, uri, database string, log *logger.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, wrapError("connect mongo", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, wrapError("ping mongo", err)
	}

	db := client.Database(database)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	log.Info().Str("database", database).Msg("mongo connected")
	return client, db, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(filesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "original_name", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "parent_id", Value: 1}}},
	})
	if err != nil {
		return wrapError("create file indexes", err)
	}

	_, err = db.Collection(foldersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "kind", Value: 1}}},
	})
	if err != nil {
		return wrapError("create folder indexes", err)
	}
	return nil
}

// FileRepository implements repo.FileRepository on the files collection
type FileRepository struct {
	coll *mongo.Collection
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *mongo.Database) repo.FileRepository {
	return &FileRepository{coll: db.Collection(filesCollection)}
}

func (r *FileRepository) Find(ctx context.Context, filter repo.Filter) ([]models.File, error) {
	query, err := compileFilter(filter, fileKeys)
	if err != nil {
		return nil, err
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(oldestFirst))
	if err != nil {
		return nil, wrapError("find files", err)
	}

	var docs []fileDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapError("decode files", err)
	}

	files := make([]models.File, 0, len(docs))
	for i := range docs {
		f, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (r *FileRepository) Insert(ctx context.Context, file *models.File) (uuid.UUID, error) {
	if file.OwnerID == uuid.Nil {
		return uuid.Nil, repo.ErrMissingOwner
	}
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}

	if _, err := r.coll.InsertOne(ctx, toFileDocument(file)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return uuid.Nil, fmt.Errorf("file %s: %w", file.ID, domain.ErrInvalidState)
		}
		return uuid.Nil, wrapError("insert file", err)
	}
	return file.ID, nil
}

func (r *FileRepository) Delete(ctx context.Context, filter repo.Filter) (int64, error) {
	query, err := compileFilter(filter, fileKeys)
	if err != nil {
		return 0, err
	}

	res, err := r.coll.DeleteMany(ctx, query)
	if err != nil {
		return 0, wrapError("delete files", err)
	}
	return res.DeletedCount, nil
}

// FolderRepository implements repo.FolderRepository on the folders collection
type FolderRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(db *mongo.Database) repo.FolderRepository {
	return &FolderRepository{coll: db.Collection(foldersCollection), now: time.Now}
}

func (r *FolderRepository) Find(ctx context.Context, filter repo.Filter) ([]models.Folder, error) {
	query, err := compileFilter(filter, folderKeys)
	if err != nil {
		return nil, err
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(oldestFirst))
	if err != nil {
		return nil, wrapError("find folders", err)
	}

	var docs []folderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapError("decode folders", err)
	}

	folders := make([]models.Folder, 0, len(docs))
	for i := range docs {
		f, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, nil
}

func (r *FolderRepository) Insert(ctx context.Context, folder *models.Folder) (uuid.UUID, error) {
	if folder.OwnerID == uuid.Nil {
		return uuid.Nil, repo.ErrMissingOwner
	}
	if folder.ID == uuid.Nil {
		folder.ID = uuid.New()
	}

	if _, err := r.coll.InsertOne(ctx, toFolderDocument(folder)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return uuid.Nil, fmt.Errorf("folder %s: %w", folder.ID, domain.ErrInvalidState)
		}
		return uuid.Nil, wrapError("insert folder", err)
	}
	return folder.ID, nil
}

func (r *FolderRepository) Delete(ctx context.Context, filter repo.Filter) (int64, error) {
	query, err := compileFilter(filter, folderKeys)
	if err != nil {
		return 0, err
	}

	res, err := r.coll.DeleteMany(ctx, query)
	if err != nil {
		return 0, wrapError("delete folders", err)
	}
	return res.DeletedCount, nil
}

func (r *FolderRepository) Update(ctx context.Context, filter repo.Filter, update repo.Update) (int64, error) {
	query, err := compileFilter(filter, folderKeys)
	if err != nil {
		return 0, err
	}
	doc, err := compileUpdate(update, r.now())
	if err != nil {
		return 0, err
	}

	res, err := r.coll.UpdateMany(ctx, query, doc)
	if err != nil {
		return 0, wrapError("update folders", err)
	}
	return res.MatchedCount, nil
}

// wrapError tags network failures and timeouts as ErrStoreUnavailable
func wrapError(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
