package localstore

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/2beens/liftlog/internal/config"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const keyPrefix = "liftlog:"

var (
	// DraftKey holds the single workout draft snapshot.
	DraftKey = Key("workout-draft")
	// AuthSessionKey holds the hosted provider session.
	AuthSessionKey = Key("auth-session")
)

var ErrNotFound = errors.New("not found")

// Store is the local key/value storage. A single writer is assumed.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(name string) string {
	return keyPrefix + name
}

// New creates the store selected by cfg.Storage.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       0, // use default DB
		})
		rdb.AddHook(redisotel.NewTracingHook())

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		log.Debugf("redis ping: %s", rdbStatus.Val())

		return NewRedisStore(rdb), nil
	case config.StorageSQLite, "":
		return NewSQLiteStore(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage: %s", cfg.Storage)
	}
}
