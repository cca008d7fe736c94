// Package config builds the invocation configuration from defaults, an
// optional config file, environment variables, and command-line flags.
// The resulting value is constructed once and passed into components;
// there is no ambient configuration state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AWS tag constraints.
const (
	maxTagKeyLen   = 128
	maxTagValueLen = 256
)

// Config holds everything one curfew invocation needs.
type Config struct {
	// TagKey and TagValue select the instances to stop.
	TagKey   string
	TagValue string

	// AWS client settings. Empty values fall through to the SDK's
	// default resolution (shared config, instance metadata).
	Profile string
	Region  string

	// Linear retry policy for the discovery and stop paths.
	MaxRetries int
	RetryDelay time.Duration

	// SkipASGInstances excludes instances enrolled in an Auto Scaling
	// group at discovery time; the group would replace them anyway.
	SkipASGInstances bool

	// SSMPrefix, when set, overrides tag key/value from Parameter Store
	// (<prefix>/tag-key, <prefix>/tag-value).
	SSMPrefix string

	// NoMetrics disables the CloudWatch publish.
	NoMetrics bool

	LogLevel string
}

// Overrides carries flag values that win over file and environment.
// Zero values mean "not set".
type Overrides struct {
	TagKey   string
	TagValue string
	Profile  string
	Region   string
}

// GetConfigPath returns the config file path (~/.curfew/config.yaml).
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".curfew", "config.yaml")
	}
	return filepath.Join(home, ".curfew", "config.yaml")
}

// Load reads configuration with precedence: defaults < config file <
// CURFEW_* environment < flag overrides. The result is validated.
func Load(overrides Overrides) (*Config, error) {
	v := viper.New()

	v.SetDefault("tag_key", "AutoShutdown")
	v.SetDefault("tag_value", "yes")
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_delay", "2s")
	v.SetDefault("skip_asg_instances", false)
	v.SetDefault("no_metrics", false)
	v.SetDefault("log_level", "info")

	v.SetConfigFile(GetConfigPath())
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CURFEW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := Config{
		TagKey:           v.GetString("tag_key"),
		TagValue:         v.GetString("tag_value"),
		Profile:          v.GetString("profile"),
		Region:           v.GetString("region"),
		MaxRetries:       v.GetInt("max_retries"),
		RetryDelay:       v.GetDuration("retry_delay"),
		SkipASGInstances: v.GetBool("skip_asg_instances"),
		SSMPrefix:        v.GetString("ssm_prefix"),
		NoMetrics:        v.GetBool("no_metrics"),
		LogLevel:         v.GetString("log_level"),
	}

	if overrides.TagKey != "" {
		cfg.TagKey = overrides.TagKey
	}
	if overrides.TagValue != "" {
		cfg.TagValue = overrides.TagValue
	}
	if overrides.Profile != "" {
		cfg.Profile = overrides.Profile
	}
	if overrides.Region != "" {
		cfg.Region = overrides.Region
	}

	// Fall back to the standard AWS environment variables last.
	if cfg.Region == "" {
		cfg.Region = os.Getenv("AWS_REGION")
		if cfg.Region == "" {
			cfg.Region = os.Getenv("AWS_DEFAULT_REGION")
		}
	}
	if cfg.Profile == "" {
		cfg.Profile = os.Getenv("AWS_PROFILE")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the tag selector and retry policy bounds.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TagKey) == "" {
		return fmt.Errorf("tag key cannot be empty")
	}
	if strings.TrimSpace(c.TagValue) == "" {
		return fmt.Errorf("tag value cannot be empty")
	}
	if len(c.TagKey) > maxTagKeyLen {
		return fmt.Errorf("tag key cannot exceed %d characters", maxTagKeyLen)
	}
	if len(c.TagValue) > maxTagValueLen {
		return fmt.Errorf("tag value cannot exceed %d characters", maxTagValueLen)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("retry_delay must be positive")
	}
	return nil
}
