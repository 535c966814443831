package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServer_Defaults(t *testing.T) {
	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.RedisTTL)
	assert.True(t, cfg.RedisLock)
}

func TestLoadServer_FromEnv(t *testing.T) {
	t.Setenv("TXTREE_ADDR", "127.0.0.1:9000")
	t.Setenv("TXTREE_STORE", "redis")
	t.Setenv("TXTREE_REDIS_ADDR", "redis:6379")
	t.Setenv("TXTREE_REDIS_DB", "2")
	t.Setenv("TXTREE_REDIS_TTL", "1h")
	t.Setenv("TXTREE_REDIS_LOCK", "false")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.RedisTTL)
	assert.False(t, cfg.RedisLock)
}

func TestLoadServer_ParseError(t *testing.T) {
	t.Setenv("TXTREE_REDIS_DB", "not-an-int")

	_, err := LoadServer()
	assert.ErrorContains(t, err, "parse env:")
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServerConfig
		wantErr string
	}{
		{"memory", ServerConfig{Store: StoreMemory}, ""},
		{"file", ServerConfig{Store: StoreFile, FileDir: "docs"}, ""},
		{"file without dir", ServerConfig{Store: StoreFile}, "TXTREE_FILE_DIR"},
		{"redis without addr", ServerConfig{Store: StoreRedis}, "TXTREE_REDIS_ADDR"},
		{"unknown store", ServerConfig{Store: "s3"}, "unknown store"},
		{"negative ttl", ServerConfig{Store: StoreMemory, RedisTTL: -time.Second}, "TXTREE_REDIS_TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
