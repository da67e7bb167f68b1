package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func TestParse_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("AUTH_JWT_SECRET", validSecret)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "accessToken", cfg.Auth.CookieName)
	assert.Equal(t, LockLocal, cfg.Lock.Driver)
	assert.Equal(t, 30*time.Second, cfg.Lock.TTL)
	assert.True(t, cfg.Tree.StrictConsistency)
	assert.Equal(t, DefaultMaxTreeDepth, cfg.Tree.MaxDepth)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("STORAGE_DATABASE_URL", "postgres://localhost/db")
	t.Setenv("STORAGE_ATOMIC_TREE_WRITES", "true")
	t.Setenv("AUTH_JWKS_URL", "https://auth.example/.well-known/jwks.json")
	t.Setenv("LOCK_DRIVER", "redis")
	t.Setenv("LOCK_REDIS_ADDR", "redis:6379")
	t.Setenv("LOCK_TTL", "1m")
	t.Setenv("TREE_STRICT_CONSISTENCY", "false")
	t.Setenv("TREE_MAX_DEPTH", "8")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.AtomicTreeWrites)
	assert.Equal(t, LockRedis, cfg.Lock.Driver)
	assert.Equal(t, time.Minute, cfg.Lock.TTL)
	assert.False(t, cfg.Tree.StrictConsistency)
	assert.Equal(t, 8, cfg.Tree.MaxDepth)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown storage driver",
			env:  map[string]string{"STORAGE_DRIVER": "sqlite", "AUTH_JWT_SECRET": validSecret},
		},
		{
			name: "postgres without url",
			env:  map[string]string{"STORAGE_DRIVER": "postgres", "AUTH_JWT_SECRET": validSecret},
		},
		{
			name: "mongo without uri",
			env:  map[string]string{"STORAGE_DRIVER": "mongo", "AUTH_JWT_SECRET": validSecret},
		},
		{
			name: "no credentials configured",
			env:  map[string]string{"STORAGE_DRIVER": "memory"},
		},
		{
			name: "short secret",
			env:  map[string]string{"STORAGE_DRIVER": "memory", "AUTH_JWT_SECRET": "short"},
		},
		{
			name: "atomic writes need postgres",
			env: map[string]string{
				"STORAGE_DRIVER": "memory", "AUTH_JWT_SECRET": validSecret, "STORAGE_ATOMIC_TREE_WRITES": "true",
			},
		},
		{
			name: "unknown lock driver",
			env:  map[string]string{"STORAGE_DRIVER": "memory", "AUTH_JWT_SECRET": validSecret, "LOCK_DRIVER": "zk"},
		},
		{
			name: "zero depth",
			env:  map[string]string{"STORAGE_DRIVER": "memory", "AUTH_JWT_SECRET": validSecret, "TREE_MAX_DEPTH": "0"},
		},
		{
			name: "unknown environment",
			env:  map[string]string{"STORAGE_DRIVER": "memory", "AUTH_JWT_SECRET": validSecret, "ENVIRONMENT": "staging"},
		},
		{
			name: "malformed duration",
			env:  map[string]string{"STORAGE_DRIVER": "memory", "AUTH_JWT_SECRET": validSecret, "LOCK_TTL": "soon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestOpenLogFile_PrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 4 {
		f, err := OpenLogFile(dir, 2, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	files, err := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "cloudstorage-2024-01-01T00-02-00.log", filepath.Base(files[0]))
	assert.Equal(t, "cloudstorage-2024-01-01T00-03-00.log", filepath.Base(files[1]))
}

func TestLogWriters(t *testing.T) {
	cfg := &Config{}
	writers, closeFn, err := cfg.LogWriters()
	require.NoError(t, err)
	assert.Empty(t, writers)
	assert.NoError(t, closeFn())

	cfg.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.LogMaxFiles = 3
	writers, closeFn, err = cfg.LogWriters()
	require.NoError(t, err)
	require.Len(t, writers, 1)
	_, err = writers[0].Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, closeFn())

	entries, err := os.ReadDir(cfg.LogDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
