package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JOB_WORKERS", "")
	t.Setenv("LLM_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.together.xyz/v1", cfg.LLMBaseURL)
	assert.Equal(t, 1024, cfg.LLMMaxTokens)
	assert.Equal(t, 2, cfg.JobWorkers)
	assert.Equal(t, 1, cfg.JobMaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.LLMTimeout)
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JOB_WORKERS", "4")
	t.Setenv("JOB_TIMEOUT", "90s")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.JobWorkers)
	assert.Equal(t, 90*time.Second, cfg.JobTimeout)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestInvalidNumberFallsBackToDefault(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JOB_WORKERS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.JobWorkers)
}

func TestProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("LLM_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestMinioRequiresCredentials(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "")

	_, err := Load()
	require.Error(t, err)
}
