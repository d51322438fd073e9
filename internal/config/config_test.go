package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_DSN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/messenger")
	t.Setenv("AWS_ACCESS_KEY_ID", "key123")
	t.Setenv("S3_PUBLIC_BASE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/messenger", cfg.Database.URL)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "files", cfg.Storage.Bucket)
	assert.Equal(t, "moonly", cfg.Storage.KeyPrefix)
	assert.Equal(t, "https://cdn.poehali.dev/projects/key123/bucket", cfg.Storage.PublicBase)
	assert.Equal(t, "bcrypt", cfg.PasswordHasher)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_DSN", "postgres://fallback/db")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("S3_PUBLIC_BASE", "https://cdn.example.com/")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://fallback/db", cfg.Database.URL)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 3, cfg.Database.MaxOpenConns)
	assert.Equal(t, "https://cdn.example.com", cfg.Storage.PublicBase)
	assert.True(t, cfg.IsProduction())
}
