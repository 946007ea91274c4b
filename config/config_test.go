package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestDirs(t *testing.T) {
	t.Helper()
	base := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(base, "logs"))
	t.Setenv("TEMP_DIR", filepath.Join(base, "tmp"))
	t.Setenv("UPLOAD_DIR", filepath.Join(base, "uploads"))
	t.Setenv("DB_PATH", filepath.Join(base, "db", "data.db"))
}

func TestLoadDefaults(t *testing.T) {
	setTestDirs(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.False(t, cfg.Debug)

	assert.Equal(t, "whisper", cfg.Media.WhisperPath)
	assert.Equal(t, "base", cfg.Media.WhisperModel)
	assert.Equal(t, 30*time.Minute, cfg.Media.ProcessTimeout)
	assert.Equal(t, 100, cfg.Media.SummaryMinChars)
	assert.Equal(t, 0.2, cfg.Media.QuoteThreshold)
	assert.Equal(t, 10, cfg.Media.QuoteCap)
	assert.Equal(t, int64(500*1024*1024), cfg.Media.MaxUploadSize)
	assert.Equal(t, 30*time.Minute, cfg.Media.MaxYouTubeDuration)

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
}

func TestLoadOverrides(t *testing.T) {
	setTestDirs(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PROCESS_TIMEOUT", "10m")
	t.Setenv("QUOTE_SCORE_THRESHOLD", "0.5")
	t.Setenv("MAX_UPLOAD_SIZE", "100")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 10*time.Minute, cfg.Media.ProcessTimeout)
	assert.Equal(t, 0.5, cfg.Media.QuoteThreshold)
	assert.Equal(t, int64(100*1024*1024), cfg.Media.MaxUploadSize)
	assert.True(t, cfg.Debug)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	setTestDirs(t)
	t.Setenv("QUOTE_CAP", "not a number")
	t.Setenv("PROCESS_TIMEOUT", "garbage")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Media.QuoteCap)
	assert.Equal(t, 30*time.Minute, cfg.Media.ProcessTimeout)
}

func TestValidateRejectsBadValues(t *testing.T) {
	setTestDirs(t)

	cfg, err := Load()
	require.NoError(t, err)

	cfg.Media.QuoteCap = 0
	assert.Error(t, cfg.Validate())

	cfg.Media.QuoteCap = 10
	cfg.ReadTimeout = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadCreatesDirectories(t *testing.T) {
	setTestDirs(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.DirExists(t, cfg.LogDir)
	assert.DirExists(t, cfg.UploadDir)
	assert.DirExists(t, filepath.Dir(cfg.Database.Path))
}
