package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "AutoShutdown", cfg.TagKey)
	assert.Equal(t, "yes", cfg.TagValue)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.False(t, cfg.SkipASGInstances)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CURFEW_TAG_KEY", "Schedule")
	t.Setenv("CURFEW_TAG_VALUE", "nightly")
	t.Setenv("CURFEW_MAX_RETRIES", "5")
	t.Setenv("CURFEW_RETRY_DELAY", "500ms")
	t.Setenv("CURFEW_SKIP_ASG_INSTANCES", "true")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "Schedule", cfg.TagKey)
	assert.Equal(t, "nightly", cfg.TagValue)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.True(t, cfg.SkipASGInstances)
}

func TestLoadFlagOverridesWin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CURFEW_TAG_KEY", "FromEnv")

	cfg, err := Load(Overrides{TagKey: "FromFlag", Region: "eu-west-1"})
	require.NoError(t, err)

	assert.Equal(t, "FromFlag", cfg.TagKey)
	assert.Equal(t, "eu-west-1", cfg.Region)
}

func TestLoadConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".curfew")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "tag_key: FromFile\nmax_retries: 7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "FromFile", cfg.TagKey)
	assert.Equal(t, 7, cfg.MaxRetries)
}

func TestLoadRegionFallsBackToAWSEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AWS_REGION", "ap-southeast-1")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "ap-southeast-1", cfg.Region)
}

func TestValidateEmptyTagKey(t *testing.T) {
	cfg := &Config{TagKey: "  ", TagValue: "yes", RetryDelay: time.Second}
	assert.ErrorContains(t, cfg.Validate(), "tag key cannot be empty")
}

func TestValidateEmptyTagValue(t *testing.T) {
	cfg := &Config{TagKey: "AutoShutdown", TagValue: "", RetryDelay: time.Second}
	assert.ErrorContains(t, cfg.Validate(), "tag value cannot be empty")
}

func TestValidateTagKeyTooLong(t *testing.T) {
	cfg := &Config{
		TagKey:     strings.Repeat("k", 129),
		TagValue:   "yes",
		RetryDelay: time.Second,
	}
	assert.ErrorContains(t, cfg.Validate(), "128")
}

func TestValidateTagValueTooLong(t *testing.T) {
	cfg := &Config{
		TagKey:     "AutoShutdown",
		TagValue:   strings.Repeat("v", 257),
		RetryDelay: time.Second,
	}
	assert.ErrorContains(t, cfg.Validate(), "256")
}

func TestValidateBoundaryLengths(t *testing.T) {
	cfg := &Config{
		TagKey:     strings.Repeat("k", 128),
		TagValue:   strings.Repeat("v", 256),
		RetryDelay: time.Second,
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRetryPolicy(t *testing.T) {
	cfg := &Config{TagKey: "a", TagValue: "b", MaxRetries: -1, RetryDelay: time.Second}
	assert.ErrorContains(t, cfg.Validate(), "max_retries")

	cfg = &Config{TagKey: "a", TagValue: "b", RetryDelay: 0}
	assert.ErrorContains(t, cfg.Validate(), "retry_delay")
}
