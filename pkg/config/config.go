package config

import "time"

// Consistency level constants accepted by the service.
const (
	// ConsistencyStrong reads see the latest committed write
	ConsistencyStrong = "Strong"
	// ConsistencyBoundedStaleness reads lag by a bounded window
	ConsistencyBoundedStaleness = "BoundedStaleness"
	// ConsistencySession reads observe the caller's own writes
	ConsistencySession = "Session"
	// ConsistencyConsistentPrefix reads never see out-of-order writes
	ConsistencyConsistentPrefix = "ConsistentPrefix"
	// ConsistencyEventual reads may be arbitrarily stale
	ConsistencyEventual = "Eventual"
)

// Config is the root configuration structure for the document database client.
type Config struct {
	Account        AccountConfig        `mapstructure:"account"`
	Connection     ConnectionConfig     `mapstructure:"connection"`
	Retry          RetryConfig          `mapstructure:"retry"`
	RateLimit      RateLimitConfig      `mapstructure:"ratelimit"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
}

// AccountConfig identifies the account and how to authenticate against it.
type AccountConfig struct {
	// Endpoint is the account base URI, e.g. https://myaccount.example.com:443/
	Endpoint string `mapstructure:"endpoint"`
	// MasterKey is the base64-encoded account key. Mutually exclusive with
	// token-based credentials supplied in code.
	MasterKey string `mapstructure:"master_key"`
	// ConsistencyLevel overrides the account default consistency.
	ConsistencyLevel string `mapstructure:"consistency_level"`
}

// ConnectionConfig tunes the underlying HTTP transport.
type ConnectionConfig struct {
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
	MaxConns         int           `mapstructure:"max_conns"`
	// UserAgentSuffix is appended to the client user agent string.
	UserAgentSuffix string `mapstructure:"user_agent_suffix"`
}

// RetryConfig controls retries of throttled and unavailable responses.
type RetryConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

// RateLimitConfig enables client-side request throttling ahead of the
// service's own limits.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests_per_second"`
	Burst             int  `mapstructure:"burst"`
}

// CircuitBreakerConfig shields the endpoint after repeated transport failures.
type CircuitBreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxFailures int           `mapstructure:"max_failures"`
	Cooldown    time.Duration `mapstructure:"cooldown"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TracingConfig configures the OpenTelemetry tracer provider.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		Account: AccountConfig{
			ConsistencyLevel: ConsistencySession,
		},
		Connection: ConnectionConfig{
			ConnectTimeout:   5 * time.Second,
			OperationTimeout: 30 * time.Second,
			MaxConns:         50,
		},
		Retry: RetryConfig{
			MaxAttempts:    5,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     3 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 100,
			Burst:             200,
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:     false,
			MaxFailures: 5,
			Cooldown:    30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "cosmos-client",
			SampleRate:  0.1,
		},
	}
}
