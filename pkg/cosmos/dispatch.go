package cosmos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devjourney/cosmos/pkg/auth"
	"github.com/devjourney/cosmos/pkg/observability/logger"
	"github.com/devjourney/cosmos/pkg/observability/metrics"
	"github.com/devjourney/cosmos/pkg/observability/tracing"
	"github.com/devjourney/cosmos/pkg/resilience"
	"golang.org/x/time/rate"
)

// activityIDContextKey matches the key the logger package reads activity IDs
// from, so per-request log lines correlate with service diagnostics.
const activityIDContextKey = "activity_id"

// clientContext is the shared request-dispatch component every facade
// delegates to. It owns the transport, credential, retry and throttling
// behavior, and the session token store; facades only describe resources.
type clientContext struct {
	endpoint    string
	httpClient  *http.Client
	credential  auth.Credential
	logger      logger.Logger
	metrics     *metrics.ClientMetrics
	consistency string
	userAgent   string
	timeout     time.Duration

	retry    resilience.RetryPolicy
	limiter  *rate.Limiter
	breaker  *resilience.CircuitBreaker
	sessions *sessionStore
	tracing  bool

	closeMu sync.RWMutex
	closed  bool
}

// close marks the context closed. Every subsequent dispatch fails.
func (c *clientContext) close() {
	c.closeMu.Lock()
	c.closed = true
	c.closeMu.Unlock()
}

// live reports whether the context still accepts requests.
func (c *clientContext) live() error {
	c.closeMu.RLock()
	defer c.closeMu.RUnlock()
	if c.closed {
		return fmt.Errorf("client is closed")
	}
	return nil
}

// requestSpec describes one wire request. resourceLink is the canonical
// address used for signing and session scoping; path is the URI path, which
// differs from the link on feed operations.
type requestSpec struct {
	verb         string
	path         string
	resourceType string
	resourceLink string
	operation    string
	body         []byte
	headers      requestHeaders
	isQuery      bool
	statement    string
}

// requestHeaders are the per-call header knobs facades may set.
type requestHeaders struct {
	partitionKey     PartitionKey
	ifMatch          string
	consistencyLevel string
	sessionToken     string
	maxItemCount     int
	continuation     string
	crossPartition   bool
	isUpsert         bool
}

// responseData is a fully drained wire response.
type responseData struct {
	status int
	header http.Header
	body   []byte
}

// do issues a request with timeout, rate limiting, circuit breaking, and
// retries applied in that order. Non-2xx responses come back as *Error.
func (c *clientContext) do(ctx context.Context, req requestSpec) (*responseData, error) {
	if err := c.live(); err != nil {
		return nil, err
	}

	opCtx, cancel := resilience.OperationContext(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	spanCtx := opCtx
	var span *operationSpan
	if c.tracing {
		s := startSpan(opCtx, req)
		span = &s
		spanCtx = s.ctx
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(spanCtx); err != nil {
			if span != nil {
				span.end(err)
			}
			return nil, err
		}
	}

	var resp *responseData
	attempt := 0
	err := c.retry.Execute(spanCtx, func(ctx context.Context) error {
		if attempt > 0 {
			status := 0
			if resp != nil {
				status = resp.status
			}
			c.metrics.ObserveRetry(req.resourceType, status)
		}
		attempt++

		var attemptErr error
		breakerErr := c.executeThroughBreaker(func() error {
			resp, attemptErr = c.doOnce(ctx, req)
			return attemptErr
		})
		if breakerErr != nil {
			return breakerErr
		}
		return attemptErr
	})

	charge := 0.0
	status := 0
	if resp != nil && err == nil {
		status = resp.status
		if v := resp.header.Get(headerRequestCharge); v != "" {
			charge, _ = strconv.ParseFloat(v, 64)
		}
	} else {
		var serviceErr *Error
		if errors.As(err, &serviceErr) {
			status = serviceErr.Status
		}
	}
	c.metrics.ObserveRequest(req.resourceType, req.operation, status, time.Since(start), charge)

	if span != nil {
		span.end(err)
	}

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// executeThroughBreaker routes the attempt through the circuit breaker when
// one is configured.
func (c *clientContext) executeThroughBreaker(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.Execute(fn)
}

// doOnce performs a single signed HTTP exchange.
func (c *clientContext) doOnce(ctx context.Context, req requestSpec) (*responseData, error) {
	activityID := uuid.New().String()
	ctx = context.WithValue(ctx, activityIDContextKey, activityID) //nolint:staticcheck

	var bodyReader io.Reader
	if req.body != nil {
		bodyReader = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.verb, c.endpoint+req.path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	now := time.Now().UTC()
	authHeader, err := c.credential.AuthorizationHeader(ctx, req.verb, req.resourceType, req.resourceLink, now)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize request: %w", err)
	}

	h := httpReq.Header
	h.Set(headerVersion, apiVersion)
	h.Set(headerDate, now.Format(auth.HTTPDateLayout))
	h.Set(headerAuthorization, authHeader)
	h.Set(headerActivityID, activityID)
	h.Set(headerUserAgent, c.userAgent)

	if req.body != nil {
		if req.isQuery {
			h.Set(headerContentType, contentTypeQuery)
		} else {
			h.Set(headerContentType, contentTypeJSON)
		}
	}
	if req.isQuery {
		h.Set(headerIsQuery, "true")
	}

	c.applyConsistencyHeaders(h, req)
	if err := applyOptionHeaders(h, req.headers); err != nil {
		return nil, err
	}

	log := c.logger.WithContext(ctx)
	log.Debug("dispatching request",
		"verb", req.verb,
		"resource_type", req.resourceType,
		"resource_link", req.resourceLink,
		"operation", req.operation,
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		serviceErr := newServiceError(httpResp.StatusCode, body, httpResp.Header)
		log.Debug("request failed",
			"status", httpResp.StatusCode,
			"code", serviceErr.Code,
		)
		return nil, serviceErr
	}

	// Writes advance the session; reads may too after a failover.
	if token := httpResp.Header.Get(headerSessionToken); token != "" {
		c.sessions.set(req.resourceLink, token)
	}

	return &responseData{
		status: httpResp.StatusCode,
		header: httpResp.Header,
		body:   body,
	}, nil
}

// applyConsistencyHeaders attaches the consistency level and session token.
// An explicit per-call token wins over the tracked session.
func (c *clientContext) applyConsistencyHeaders(h http.Header, req requestSpec) {
	level := req.headers.consistencyLevel
	if level == "" {
		level = c.consistency
	}
	if level != "" {
		h.Set(headerConsistencyLevel, level)
	}

	token := req.headers.sessionToken
	if token == "" && level == consistencySession {
		token = c.sessions.get(req.resourceLink)
	}
	if token != "" {
		h.Set(headerSessionToken, token)
	}
}

// applyOptionHeaders attaches the per-call header knobs.
func applyOptionHeaders(h http.Header, opts requestHeaders) error {
	if opts.partitionKey.IsSet() {
		value, err := opts.partitionKey.headerValue()
		if err != nil {
			return err
		}
		h.Set(headerPartitionKey, value)
	}
	if opts.ifMatch != "" {
		h.Set(headerIfMatch, opts.ifMatch)
	}
	if opts.maxItemCount > 0 {
		h.Set(headerMaxItemCount, strconv.Itoa(opts.maxItemCount))
	}
	if opts.continuation != "" {
		h.Set(headerContinuation, opts.continuation)
	}
	if opts.crossPartition {
		h.Set(headerCrossPartition, "true")
	}
	if opts.isUpsert {
		h.Set(headerIsUpsert, "true")
	}
	return nil
}

// create POSTs a definition into the parent feed and decodes the stored
// resource into out.
func (c *clientContext) create(ctx context.Context, parentLink, resourceType, operation string, body any, headers requestHeaders, out any) (ResourceResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return ResourceResponse{}, fmt.Errorf("failed to marshal %s definition: %w", resourceType, err)
	}

	resp, err := c.do(ctx, requestSpec{
		verb:         http.MethodPost,
		path:         feedPath(parentLink, resourceType),
		resourceType: resourceType,
		resourceLink: parentLink,
		operation:    operation,
		body:         payload,
		headers:      headers,
	})
	if err != nil {
		return ResourceResponse{}, err
	}
	return decodeResource(resp, out)
}

// read GETs a resource by link.
func (c *clientContext) read(ctx context.Context, link, resourceType string, headers requestHeaders, out any) (ResourceResponse, error) {
	resp, err := c.do(ctx, requestSpec{
		verb:         http.MethodGet,
		path:         "/" + link,
		resourceType: resourceType,
		resourceLink: link,
		operation:    "read",
		headers:      headers,
	})
	if err != nil {
		return ResourceResponse{}, err
	}
	return decodeResource(resp, out)
}

// replace PUTs a full definition over an existing resource.
func (c *clientContext) replace(ctx context.Context, link, resourceType string, body any, headers requestHeaders, out any) (ResourceResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return ResourceResponse{}, fmt.Errorf("failed to marshal %s definition: %w", resourceType, err)
	}

	resp, err := c.do(ctx, requestSpec{
		verb:         http.MethodPut,
		path:         "/" + link,
		resourceType: resourceType,
		resourceLink: link,
		operation:    "replace",
		body:         payload,
		headers:      headers,
	})
	if err != nil {
		return ResourceResponse{}, err
	}
	return decodeResource(resp, out)
}

// deleteResource DELETEs a resource by link and forgets its session scope.
func (c *clientContext) deleteResource(ctx context.Context, link, resourceType string, headers requestHeaders) (ResourceResponse, error) {
	resp, err := c.do(ctx, requestSpec{
		verb:         http.MethodDelete,
		path:         "/" + link,
		resourceType: resourceType,
		resourceLink: link,
		operation:    "delete",
		headers:      headers,
	})
	if err != nil {
		return ResourceResponse{}, err
	}

	c.sessions.drop(link)
	return newResourceResponse(resp.status, resp.header), nil
}

// feedPage fetches one raw page of a feed. A non-nil query POSTs a query
// feed; nil reads the plain feed.
func (c *clientContext) feedPage(ctx context.Context, parentLink, resourceType string, query *SQLQuerySpec, headers requestHeaders) (*responseData, error) {
	spec := requestSpec{
		verb:         http.MethodGet,
		path:         feedPath(parentLink, resourceType),
		resourceType: resourceType,
		resourceLink: parentLink,
		operation:    "read_feed",
		headers:      headers,
	}
	if query != nil {
		payload, err := json.Marshal(query)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal query: %w", err)
		}
		spec.verb = http.MethodPost
		spec.body = payload
		spec.isQuery = true
		spec.operation = "query"
		spec.statement = query.Query
	}
	return c.do(ctx, spec)
}

// execute POSTs a stored procedure invocation with its argument array.
func (c *clientContext) execute(ctx context.Context, link string, args []any, headers requestHeaders) (json.RawMessage, ResourceResponse, error) {
	if args == nil {
		args = []any{}
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, ResourceResponse{}, fmt.Errorf("failed to marshal procedure arguments: %w", err)
	}

	resp, err := c.do(ctx, requestSpec{
		verb:         http.MethodPost,
		path:         "/" + link,
		resourceType: resourceTypeStoredProcedure,
		resourceLink: link,
		operation:    "execute",
		body:         payload,
		headers:      headers,
	})
	if err != nil {
		return nil, ResourceResponse{}, err
	}
	return json.RawMessage(resp.body), newResourceResponse(resp.status, resp.header), nil
}

// decodeResource unmarshals a point-operation response body.
func decodeResource(resp *responseData, out any) (ResourceResponse, error) {
	rr := newResourceResponse(resp.status, resp.header)
	if out == nil || len(resp.body) == 0 {
		return rr, nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return rr, fmt.Errorf("failed to decode response body: %w", err)
	}
	return rr, nil
}

// operationSpan pairs a started span with its derived context. end records
// the operation outcome before closing the span.
type operationSpan struct {
	ctx context.Context
	end func(err error)
}

// spanOperations maps dispatch operation names to their span constants.
var spanOperations = map[string]tracing.SpanOperation{
	"read":      tracing.SpanOperationRead,
	"create":    tracing.SpanOperationCreate,
	"upsert":    tracing.SpanOperationUpsert,
	"replace":   tracing.SpanOperationReplace,
	"delete":    tracing.SpanOperationDelete,
	"query":     tracing.SpanOperationQuery,
	"read_feed": tracing.SpanOperationReadFeed,
	"execute":   tracing.SpanOperationExecute,
}

func spanOperationFor(operation string) tracing.SpanOperation {
	if op, ok := spanOperations[operation]; ok {
		return op
	}
	return tracing.SpanOperation("db." + operation)
}

// startSpan opens a client span for the request. Only called when tracing
// was enabled on the client.
func startSpan(ctx context.Context, req requestSpec) operationSpan {
	opts := []tracing.OperationSpanOption{
		tracing.WithResourceLink(req.resourceLink),
		tracing.WithResourceType(req.resourceType),
	}
	if req.statement != "" {
		opts = append(opts, tracing.WithStatement(req.statement))
	}
	spanCtx, span := tracing.StartOperationSpan(ctx, spanOperationFor(req.operation), opts...)
	return operationSpan{
		ctx: spanCtx,
		end: func(err error) {
			if err != nil {
				tracing.RecordError(span, err)
			} else {
				tracing.RecordSuccess(span)
			}
			span.End()
		},
	}
}
