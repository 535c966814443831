package main

import (
	"context"
	"fmt"

	"github.com/aretw0/txtree/internal/config"
	"github.com/aretw0/txtree/pkg/adapters/file"
	"github.com/aretw0/txtree/pkg/adapters/memory"
	"github.com/aretw0/txtree/pkg/adapters/redis"
	"github.com/aretw0/txtree/pkg/ports"
	"github.com/aretw0/txtree/pkg/workspace"
)

// openStore builds the configured store. The returned close func releases
// its connections.
func openStore(ctx context.Context, cfg config.ServerConfig) (ports.SnapshotStore, []workspace.Option, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreMemory:
		return memory.NewStore(), nil, noop, nil
	case config.StoreFile:
		return file.New(cfg.FileDir), nil, noop, nil
	case config.StoreRedis:
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.RedisTTL))
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		var opts []workspace.Option
		if cfg.RedisLock {
			opts = append(opts, workspace.WithLocker(redis.NewLocker(store.Client(), redis.DefaultPrefix)))
		}
		return store, opts, store.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
