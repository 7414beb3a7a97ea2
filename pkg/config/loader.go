package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader defines the interface for loading configuration
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper for configuration management
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a new ViperLoader.
// configFile: path to configuration file (optional, can be empty)
// envPrefix: prefix for environment variables (e.g., "COSMOS")
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
	}
}

// Load loads configuration with precedence: ENV > file > defaults
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	l.setDefaults(v, defaults)

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			// Only return an error when a file was explicitly requested.
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	// Environment variables override file config through explicit bindings.
	v.SetEnvPrefix(l.envPrefix)
	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (l *ViperLoader) Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Account.Endpoint) == "" {
		return fmt.Errorf("account.endpoint is required")
	}
	if !strings.HasPrefix(cfg.Account.Endpoint, "http://") && !strings.HasPrefix(cfg.Account.Endpoint, "https://") {
		return fmt.Errorf("account.endpoint must be an http(s) URI")
	}

	if cfg.Account.ConsistencyLevel != "" {
		switch cfg.Account.ConsistencyLevel {
		case ConsistencyStrong, ConsistencyBoundedStaleness, ConsistencySession,
			ConsistencyConsistentPrefix, ConsistencyEventual:
		default:
			return fmt.Errorf("account.consistency_level %q is not a valid consistency level", cfg.Account.ConsistencyLevel)
		}
	}

	if cfg.Connection.MaxConns < 0 {
		return fmt.Errorf("connection.max_conns must not be negative")
	}
	if cfg.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("ratelimit.requests_per_second must be positive when rate limiting is enabled")
		}
		if cfg.RateLimit.Burst <= 0 {
			return fmt.Errorf("ratelimit.burst must be positive when rate limiting is enabled")
		}
	}
	if cfg.CircuitBreaker.Enabled && cfg.CircuitBreaker.MaxFailures <= 0 {
		return fmt.Errorf("circuit_breaker.max_failures must be positive when the breaker is enabled")
	}
	if cfg.Tracing.Enabled {
		if cfg.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
		}
		if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1 {
			return fmt.Errorf("tracing.sample_rate must be between 0 and 1")
		}
	}

	return nil
}

// setDefaults registers default values so viper can merge file and env overrides.
func (l *ViperLoader) setDefaults(v *viper.Viper, defaults Config) {
	v.SetDefault("account.consistency_level", defaults.Account.ConsistencyLevel)
	v.SetDefault("connection.connect_timeout", defaults.Connection.ConnectTimeout)
	v.SetDefault("connection.operation_timeout", defaults.Connection.OperationTimeout)
	v.SetDefault("connection.max_conns", defaults.Connection.MaxConns)
	v.SetDefault("retry.max_attempts", defaults.Retry.MaxAttempts)
	v.SetDefault("retry.initial_backoff", defaults.Retry.InitialBackoff)
	v.SetDefault("retry.max_backoff", defaults.Retry.MaxBackoff)
	v.SetDefault("ratelimit.enabled", defaults.RateLimit.Enabled)
	v.SetDefault("ratelimit.requests_per_second", defaults.RateLimit.RequestsPerSecond)
	v.SetDefault("ratelimit.burst", defaults.RateLimit.Burst)
	v.SetDefault("circuit_breaker.enabled", defaults.CircuitBreaker.Enabled)
	v.SetDefault("circuit_breaker.max_failures", defaults.CircuitBreaker.MaxFailures)
	v.SetDefault("circuit_breaker.cooldown", defaults.CircuitBreaker.Cooldown)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
}

// bindEnvVars binds nested keys explicitly; viper's automatic env handling
// does not cover keys absent from the config file.
func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	keys := []string{
		"account.endpoint",
		"account.master_key",
		"account.consistency_level",
		"connection.connect_timeout",
		"connection.operation_timeout",
		"connection.max_conns",
		"connection.user_agent_suffix",
		"retry.max_attempts",
		"retry.initial_backoff",
		"retry.max_backoff",
		"ratelimit.enabled",
		"ratelimit.requests_per_second",
		"ratelimit.burst",
		"circuit_breaker.enabled",
		"circuit_breaker.max_failures",
		"circuit_breaker.cooldown",
		"logging.level",
		"logging.format",
		"tracing.enabled",
		"tracing.endpoint",
		"tracing.service_name",
		"tracing.sample_rate",
	}

	for _, key := range keys {
		envKey := l.envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envKey)
	}
}
