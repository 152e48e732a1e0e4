package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRE", "30d")
	t.Setenv("MAX_FILE_UPLOAD", "1024")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), cfg.JWTKey)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExp)
	assert.Equal(t, int64(1024), cfg.MaxFileUpload)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DBConnStr)
	assert.False(t, cfg.IsProduction())
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("X_DUR", "90m")
	assert.Equal(t, 90*time.Minute, getEnvAsDuration("X_DUR", time.Second))

	t.Setenv("X_DUR", "garbage")
	assert.Equal(t, time.Second, getEnvAsDuration("X_DUR", time.Second))
}
