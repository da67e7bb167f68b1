package bootstrap

import (
	"context"
	"fmt"

	"cloudstorage/internal/auth"
	"cloudstorage/internal/config"
	svc "cloudstorage/internal/domain/services/storage"
	"cloudstorage/internal/lock"
	"cloudstorage/internal/logger"
	"cloudstorage/internal/service/storage"
)

// NewLocker builds the owner locker. The returned closer releases its connection.
func NewLocker(ctx context.Context, cfg config.Lock, log *logger.Logger) (lock.OwnerLocker, func(), error) {
	switch cfg.Driver {
	case config.LockNone:
		log.Warn().Msg("owner lock disabled, concurrent tree mutations may interleave")
		return lock.Noop{}, func() {}, nil
	case config.LockLocal:
		return lock.NewLocal(), func() {}, nil
	case config.LockRedis:
		client, err := lock.NewRedisClient(ctx, lock.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis owner lock connected")
		return lock.NewRedis(client, cfg.TTL, cfg.Retry, log), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown lock driver %q", cfg.Driver)
	}
}

// NewVerifier prefers JWKS when a URL is configured, otherwise a shared HS256 secret
func NewVerifier(cfg config.Auth, log *logger.Logger) (auth.JWTVerifier, error) {
	if cfg.JWKSURL != "" {
		return auth.NewJWKSVerifier(cfg.JWKSURL, log)
	}
	return auth.NewHMACVerifier(cfg.JWTSecret, log)
}

// Services holds the storage services
type Services struct {
	Tree      svc.TreeService
	Dashboard svc.DashboardService
	Files     svc.FileService
}

// NewServices wires the storage services over one store and locker
func NewServices(store *Store, locker lock.OwnerLocker, cfg config.Tree, log *logger.Logger) *Services {
	mutations := storage.NewMutationRunner(locker, store.TxManager)
	resolver := storage.NewScopeResolver(store.Folders, log)

	treeCfg := storage.DefaultTreeConfig()
	treeCfg.StrictConsistency = cfg.StrictConsistency
	if cfg.MaxDepth > 0 {
		treeCfg.MaxDepth = cfg.MaxDepth
	}

	return &Services{
		Tree:      storage.NewTreeService(store.Files, store.Folders, mutations, treeCfg, log),
		Dashboard: storage.NewDashboardService(store.Files, store.Folders, resolver, log),
		Files:     storage.NewFileService(store.Files, store.Folders, mutations, log),
	}
}
