package config

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/lectern/pkg/adapters/file"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/adapters/redis"
	"github.com/aretw0/lectern/pkg/adapters/sqlite"
	"github.com/aretw0/lectern/pkg/persistence/middleware"
	"github.com/aretw0/lectern/pkg/ports"
)

// Backend is an opened session store. Locker is only set for shared backends.
type Backend struct {
	Store  ports.StateStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases the backend connections.
func (b *Backend) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

// OpenStore builds the store selected by cfg.Store. When encryption keys are
// configured the store is wrapped so locations are sealed at rest.
func OpenStore(ctx context.Context, cfg Server) (*Backend, error) {
	var mws []middleware.Middleware
	if len(cfg.EncryptionKeys) > 0 {
		enc, err := encryptionConfig(cfg.EncryptionKeys)
		if err != nil {
			return nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(enc))
	}

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	backend.Store = middleware.Chain(backend.Store, mws...)
	return backend, nil
}

func encryptionConfig(keys []string) (middleware.EncryptionConfig, error) {
	var enc middleware.EncryptionConfig
	for i, raw := range keys {
		key, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return enc, fmt.Errorf("invalid encryption key %d: %w", i, err)
		}
		if i == 0 {
			enc.ActiveKey = key
		} else {
			enc.FallbackKeys = append(enc.FallbackKeys, key)
		}
	}
	if err := enc.Validate(); err != nil {
		return enc, fmt.Errorf("invalid encryption keys: %w", err)
	}
	return enc, nil
}

func openBackend(ctx context.Context, cfg Server) (*Backend, error) {
	switch cfg.Store {
	case StoreMemory:
		return &Backend{Store: memory.NewStore()}, nil
	case StoreFile, "":
		return &Backend{Store: file.New(cfg.SessionDir)}, nil
	case StoreRedis:
		store := redis.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB,
			redis.WithPrefix(cfg.RedisPrefix),
			redis.WithTTL(cfg.SessionTTL),
		)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), store.Prefix()),
			close:  store.Close,
		}, nil
	case StoreSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, close: store.Close}, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}
