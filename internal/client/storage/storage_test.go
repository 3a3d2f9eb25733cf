package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/discera/discera-client/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withStateDir points the per-user config directory at a temp dir.
func withStateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestOpen_SQLiteRunsMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "client.db")

	s, err := Open(ctx, &config.Config{StoreBackend: config.StoreSQLite, StorePath: path})
	require.NoError(t, err)

	require.NoError(t, s.Metadata.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	s, err = Open(ctx, &config.Config{StoreBackend: config.StoreSQLite, StorePath: path})
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Metadata.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), &config.Config{StoreBackend: config.StoreMemory})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestOpen_FileRequiresKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")

	_, err := Open(context.Background(), &config.Config{StoreBackend: config.StoreFile, StorePath: path})
	assert.Error(t, err)

	s, err := Open(context.Background(), &config.Config{StoreBackend: config.StoreFile, StorePath: path, StoreKey: "k"})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreBackend: "floppy"})
	assert.ErrorContains(t, err, "floppy")
}

func TestOpen_SwitchingToFileBackendUsesItsOwnDefault(t *testing.T) {
	ctx := context.Background()
	withStateDir(t)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, s.Metadata.Set(ctx, "k", []byte("sqlite")))
	require.NoError(t, s.Close())
	require.FileExists(t, cfg.ResolvedStorePath())

	cfg.StoreBackend = config.StoreFile
	cfg.StoreKey = "passphrase"

	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Metadata.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Metadata.Set(ctx, "k", []byte("file")))
	assert.FileExists(t, cfg.ResolvedStorePath())
	assert.Equal(t, config.DefaultStoreFile, filepath.Base(cfg.ResolvedStorePath()))
}

func TestOpen_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	s, err := Open(ctx, &config.Config{StoreBackend: config.StoreRedis, RedisAddr: mr.Addr(), RedisKey: "discera:test"})
	require.NoError(t, err)

	require.NoError(t, s.Metadata.Set(ctx, "k", []byte("v")))
	assert.Equal(t, "v", mr.HGet("discera:test", "k"))
	assert.NoError(t, s.Close())
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), &config.Config{StoreBackend: config.StoreRedis, RedisAddr: addr})
	assert.ErrorContains(t, err, "redis ping")
}
