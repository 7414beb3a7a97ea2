// Package cosmos is a client for a Cosmos-style document database service.
// Resource facades (Databases, Containers, Items, scripts, Users,
// Permissions) translate typed calls into path-based feed and item
// operations against a shared request-dispatch component.
package cosmos

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/devjourney/cosmos/pkg/auth"
	"github.com/devjourney/cosmos/pkg/config"
	"github.com/devjourney/cosmos/pkg/observability/logger"
	"github.com/devjourney/cosmos/pkg/observability/metrics"
	"github.com/devjourney/cosmos/pkg/resilience"
	"github.com/devjourney/cosmos/pkg/version"
)

// Client is the entry point to one database account.
type Client struct {
	ctx    *clientContext
	logger logger.Logger
}

// Option customizes client construction beyond what config carries.
type Option func(*clientOptions)

type clientOptions struct {
	credential auth.Credential
	metrics    *metrics.ClientMetrics
	httpClient *http.Client
	tracing    bool
}

// WithCredential overrides the master-key credential derived from config,
// e.g. with a bearer token credential.
func WithCredential(cred auth.Credential) Option {
	return func(o *clientOptions) { o.credential = cred }
}

// WithMetrics attaches a metrics set; without it client metrics are dropped.
func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithHTTPClient substitutes the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithTracing enables an OpenTelemetry client span per operation. The
// caller owns tracer provider setup (see pkg/observability/tracing).
func WithTracing() Option {
	return func(o *clientOptions) { o.tracing = true }
}

// Cosa fa: valida la configurazione e prepara il client HTTP verso l'account.
// Cosa NON fa: non contatta il servizio; la prima richiesta avviene on demand.
// Esempio minimo: client, err := cosmos.NewClient(cfg, log)
func NewClient(cfg config.Config, log logger.Logger, opts ...Option) (*Client, error) {
	if log == nil {
		log = logger.Nop()
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Account.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("account endpoint is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid account endpoint: %w", err)
	}

	options := clientOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	credential := options.credential
	if credential == nil {
		if cfg.Account.MasterKey == "" {
			return nil, fmt.Errorf("either a master key or a credential is required")
		}
		var err error
		credential, err = auth.NewMasterKeyCredential(cfg.Account.MasterKey)
		if err != nil {
			return nil, err
		}
	}

	conn := cfg.Connection
	if conn.MaxConns <= 0 {
		conn.MaxConns = 50
	}
	if conn.OperationTimeout <= 0 {
		conn.OperationTimeout = 30 * time.Second
	}
	if conn.ConnectTimeout <= 0 {
		conn.ConnectTimeout = 5 * time.Second
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: conn.ConnectTimeout}).DialContext,
				MaxIdleConns:        conn.MaxConns,
				MaxIdleConnsPerHost: conn.MaxConns,
				MaxConnsPerHost:     conn.MaxConns,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	retryPolicy := resilience.RetryPolicy{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		InitialBackoff: cfg.Retry.InitialBackoff,
		MaxBackoff:     cfg.Retry.MaxBackoff,
	}
	if retryPolicy.MaxAttempts <= 0 {
		retryPolicy = resilience.DefaultRetryPolicy()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit.Enabled {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	}

	var breaker *resilience.CircuitBreaker
	if cfg.CircuitBreaker.Enabled {
		breaker = resilience.NewCircuitBreaker(
			cfg.CircuitBreaker.MaxFailures,
			cfg.CircuitBreaker.Cooldown,
			isBreakerFailure,
		)
	}

	cc := &clientContext{
		endpoint:    endpoint,
		httpClient:  httpClient,
		credential:  credential,
		logger:      log,
		metrics:     options.metrics,
		consistency: cfg.Account.ConsistencyLevel,
		userAgent:   version.UserAgent(conn.UserAgentSuffix),
		timeout:     conn.OperationTimeout,
		retry:       retryPolicy,
		limiter:     limiter,
		breaker:     breaker,
		sessions:    newSessionStore(),
		tracing:     options.tracing,
	}

	log.Info("document database client ready",
		"endpoint", endpoint,
		"consistency_level", cfg.Account.ConsistencyLevel,
		"max_conns", conn.MaxConns,
		"operation_timeout", conn.OperationTimeout,
	)

	return &Client{ctx: cc, logger: log}, nil
}

// Databases returns the database collection facade.
func (c *Client) Databases() *Databases {
	return &Databases{client: c.ctx}
}

// Database returns a handle to a database by id without a network call.
func (c *Client) Database(id string) *Database {
	return &Database{client: c.ctx, id: id, link: childLink("", resourceTypeDatabase, id)}
}

// ReadAccount reads the account properties from the service root.
func (c *Client) ReadAccount(ctx context.Context) (AccountResponse, error) {
	var props AccountProperties
	resp, err := c.ctx.do(ctx, requestSpec{
		verb:         http.MethodGet,
		path:         "/",
		resourceType: resourceTypeAccount,
		resourceLink: "",
		operation:    "read",
	})
	if err != nil {
		return AccountResponse{}, err
	}

	rr, err := decodeResource(resp, &props)
	if err != nil {
		return AccountResponse{}, err
	}
	return AccountResponse{ResourceResponse: rr, Properties: &props}, nil
}

// HealthCheck verifies account reachability; it satisfies the health
// package's Checkable interface.
func (c *Client) HealthCheck(ctx context.Context) error {
	hcCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if _, err := c.ReadAccount(hcCtx); err != nil {
		c.logger.Error("account health check failed", "error", err)
		return fmt.Errorf("account health check failed: %w", err)
	}
	return nil
}

// Endpoint returns the normalized account endpoint.
func (c *Client) Endpoint() string {
	return c.ctx.endpoint
}

// Close marks the client closed and releases idle connections. Every
// operation dispatched afterwards fails, including those issued through
// handles obtained earlier.
func (c *Client) Close() error {
	c.ctx.close()
	if transport, ok := c.ctx.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
	return nil
}

// AccountResponse is the result of ReadAccount.
type AccountResponse struct {
	ResourceResponse
	Properties *AccountProperties
}

// isBreakerFailure counts only transport errors and server faults toward the
// circuit breaker; application-level statuses must not trip it.
func isBreakerFailure(err error) bool {
	if err == nil {
		return false
	}
	var serviceErr *Error
	if !errors.As(err, &serviceErr) {
		return true
	}
	return serviceErr.Status >= http.StatusInternalServerError
}
