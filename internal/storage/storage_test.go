package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-maker/internal/config"
)

type payload struct {
	Items []string `json:"items"`
}

func TestVersioned_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	require.NoError(t, WriteVersioned(ctx, kv, "k", 1, payload{Items: []string{"a", "b"}}))

	raw, found, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"version":1,"items":["a","b"]}`, raw)

	var got payload
	require.NoError(t, ReadVersioned(ctx, kv, "k", 1, &got))
	assert.Equal(t, []string{"a", "b"}, got.Items)
}

func TestReadVersioned_Errors(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	var dst payload
	assert.ErrorIs(t, ReadVersioned(ctx, kv, "missing", 1, &dst), ErrNotFound)

	require.NoError(t, kv.Set(ctx, "old", `{"version":99,"items":["x"]}`))
	err := ReadVersioned(ctx, kv, "old", 1, &dst)
	var mismatch *VersionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 99, mismatch.Found)
	assert.Empty(t, dst.Items, "mismatched payload must not be decoded")

	require.NoError(t, kv.Set(ctx, "noversion", `{"items":["x"]}`))
	require.ErrorAs(t, ReadVersioned(ctx, kv, "noversion", 1, &dst), &mismatch)
	assert.Equal(t, 0, mismatch.Found)

	require.NoError(t, kv.Set(ctx, "corrupt", `{"version":`))
	err = ReadVersioned(ctx, kv, "corrupt", 1, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode corrupt")
}

func TestWriteVersioned_PropagatesWriteError(t *testing.T) {
	kv := NewMemoryKV()
	kv.FailWrites = errors.New("quota exceeded")

	err := WriteVersioned(context.Background(), kv, "k", 1, payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestWriteVersioned_RejectsNonObject(t *testing.T) {
	err := WriteVersioned(context.Background(), NewMemoryKV(), "k", 1, []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an object")
}

func TestFileKV(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	_, found, err := kv.Get(ctx, "cv-maker-templates")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "cv-maker-templates", `{"version":1}`))
	require.NoError(t, kv.Set(ctx, "cv-maker-templates", `{"version":1,"templates":[]}`))

	got, found, err := kv.Get(ctx, "cv-maker-templates")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"version":1,"templates":[]}`, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "cv-maker-templates.json", entries[0].Name())
}

func TestFileKV_SanitizesKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(kv.BasePath, "___etc_passwd.json"), kv.path("../etc/passwd"))

	tests := []struct {
		key  string
		want string
	}{
		{"cv-maker-suggestions", "cv-maker-suggestions.json"},
		{".hidden", "_hidden.json"},
		{"..", "__.json"},
		{"v1.backup", "v1.backup.json"},
		{"a b/c", "a_b_c.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fileName(tt.key), "key %q", tt.key)
	}
}

type fakeRedis struct {
	values map[string]string
	err    error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	v, ok := f.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.values[key] = value.(string)
	cmd.SetVal("OK")
	return cmd
}

func TestRedisKV(t *testing.T) {
	ctx := context.Background()
	client := &fakeRedis{values: map[string]string{}}
	kv := NewRedisKV(client, "cvmaker:")

	_, found, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "k", "v"))
	assert.Equal(t, "v", client.values["cvmaker:k"])

	got, found, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", got)
}

func TestRedisKV_Errors(t *testing.T) {
	ctx := context.Background()
	kv := NewRedisKV(&fakeRedis{values: map[string]string{}, err: errors.New("connection refused")}, "")

	_, _, err := kv.Get(ctx, "k")
	assert.ErrorContains(t, err, "connection refused")
	assert.ErrorContains(t, kv.Set(ctx, "k", "v"), "connection refused")
}

func TestPostgresKV_Integration(t *testing.T) {
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	kv, err := ConnectPostgres(ctx, databaseURL)
	require.NoError(t, err)
	defer kv.Close()

	key := "test-" + time.Now().Format("150405.000000")
	_, found, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, key, "one"))
	require.NoError(t, kv.Set(ctx, key, "two"))
	got, found, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "two", got)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, closeFn, err := Open(ctx, config.StorageConfig{Backend: BackendMemory})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &MemoryKV{}, kv)

	dir := t.TempDir()
	kv, closeFn, err = Open(ctx, config.StorageConfig{Backend: BackendFile, DataDir: dir})
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &FileKV{}, kv)
	assert.Equal(t, dir, kv.(*FileKV).BasePath)

	_, closeFn, err = Open(ctx, config.StorageConfig{Backend: "etcd"})
	require.Error(t, err)
	require.NotNil(t, closeFn)
	assert.Contains(t, err.Error(), "unknown storage backend")
}
