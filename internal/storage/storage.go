// Package storage provides the key-value persistence backends behind the
// suggestion and template stores, plus version-tagged blob helpers.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// KV is a string key-value store. Get reports found=false for an absent key.
// Durability is best effort; Set may fail (quota, network) and callers are
// expected to log and carry on.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Backend names.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// ErrNotFound is returned by ReadVersioned when the key is absent.
var ErrNotFound = errors.New("key not found")

// VersionMismatchError is returned by ReadVersioned when the stored blob
// carries a version other than the expected one.
type VersionMismatchError struct {
	Key      string
	Expected int
	Found    int
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("blob %q has version %d, expected %d", e.Key, e.Found, e.Expected)
}

// ReadVersioned loads the blob at key into dst after checking its top-level
// "version" field. dst must be a pointer to a struct that decodes the
// payload fields; the version field itself may or may not be part of it.
func ReadVersioned(ctx context.Context, kv KV, key string, version int, dst any) error {
	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found {
		return ErrNotFound
	}

	var probe struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	got := 0
	if probe.Version != nil {
		got = *probe.Version
	}
	if got != version {
		return &VersionMismatchError{Key: key, Expected: version, Found: got}
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// WriteVersioned stores payload at key as a JSON object with a top-level
// "version" field. payload must marshal to a JSON object.
func WriteVersioned(ctx context.Context, kv KV, key string, version int, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return fmt.Errorf("failed to encode %s: payload is not an object: %w", key, err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	fields["version"] = json.RawMessage(fmt.Sprintf("%d", version))

	blob, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(blob)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
