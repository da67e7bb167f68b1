package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloudstorage/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "owner-lock:"

// compare-and-delete so an expired holder never frees someone else's lock
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisConfig configures the distributed locker
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // lock expiry if the holder dies
	Retry    time.Duration // poll interval while waiting
}

// Redis serializes mutations across processes sharing one redis
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	retry  time.Duration
	log    *logger.Logger
}

// NewRedisClient opens and pings a redis client
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedis creates a locker on an existing client
func NewRedis(client redis.UniversalClient, ttl, retry time.Duration, log *logger.Logger) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}
	return &Redis{client: client, ttl: ttl, retry: retry, log: log}
}

func key(owner uuid.UUID) string {
	return keyPrefix + owner.String()
}

func (r *Redis) Lock(ctx context.Context, owner uuid.UUID) (Unlock, error) {
	token := uuid.NewString()
	k := key(owner)

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, k, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", k, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return func() {
		// the caller's ctx may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, r.client, []string{k}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("key", k).Msg("release owner lock")
		}
	}, nil
}
