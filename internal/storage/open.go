package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/cv-maker/internal/config"
)

// Open builds the backend selected by cfg. The returned close function
// releases any connections and is never nil.
func Open(ctx context.Context, cfg config.StorageConfig) (KV, func(), error) {
	noop := func() {}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryKV(), noop, nil

	case BackendFile, "":
		kv, err := NewFileKV(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		return kv, noop, nil

	case BackendRedis:
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		client, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisKV(client, cfg.KeyPrefix), func() { _ = client.Close() }, nil

	case BackendPostgres:
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		kv, err := ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return kv, kv.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
