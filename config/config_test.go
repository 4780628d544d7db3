package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPipelineDefaults(t *testing.T) {
	t.Setenv("BLOB_BACKEND", " S3 ")
	t.Setenv("PIPELINE_GENERATE_ATTEMPTS", "0")
	t.Setenv("PIPELINE_GENERATE_TIMEOUT", "2m")

	cfg, err := LoadPipeline()
	require.NoError(t, err)
	assert.Equal(t, "s3", cfg.BlobBackend)
	assert.Equal(t, 1, cfg.GenerateAttempts)
	assert.Equal(t, 2*time.Minute, cfg.GenerateTimeout)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "eleven_monolingual_v1", cfg.ElevenLabsModel)
	assert.Equal(t, 5*time.Minute, cfg.LockTTL)
}

func TestLoadPipelineRejectsBadDuration(t *testing.T) {
	t.Setenv("PIPELINE_LOCK_TTL", "soon")
	_, err := LoadPipeline()
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_VALUE", "x")
	assert.Equal(t, "x", getEnv("PORTFOLIO_TEST_VALUE", "y"))
	assert.Equal(t, "y", getEnv("PORTFOLIO_TEST_MISSING", "y"))
}
