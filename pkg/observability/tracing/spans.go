package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanOperation represents a traced client operation type.
type SpanOperation string

// Span operation constants for the document database surface.
const (
	// SpanOperationRead represents a point read of a resource
	SpanOperationRead SpanOperation = "db.read"
	// SpanOperationCreate represents a resource create
	SpanOperationCreate SpanOperation = "db.create"
	// SpanOperationUpsert represents a resource upsert
	SpanOperationUpsert SpanOperation = "db.upsert"
	// SpanOperationReplace represents a resource replace
	SpanOperationReplace SpanOperation = "db.replace"
	// SpanOperationDelete represents a resource delete
	SpanOperationDelete SpanOperation = "db.delete"
	// SpanOperationQuery represents a query feed
	SpanOperationQuery SpanOperation = "db.query"
	// SpanOperationReadFeed represents a plain feed read
	SpanOperationReadFeed SpanOperation = "db.read_feed"
	// SpanOperationExecute represents a stored procedure execution
	SpanOperationExecute SpanOperation = "db.execute"
)

// StartOperationSpan creates a span for one client operation against a
// resource link. The span kind is always client.
func StartOperationSpan(ctx context.Context, operation SpanOperation, opts ...OperationSpanOption) (context.Context, trace.Span) {
	tracer := otel.Tracer("cosmos")

	spanOpts := &operationSpanOptions{
		attributes: []attribute.KeyValue{
			attribute.String("db.system", "cosmosdb"),
			attribute.String("db.operation", string(operation)),
		},
	}

	for _, opt := range opts {
		opt(spanOpts)
	}

	spanName := string(operation)
	if spanOpts.link != "" {
		spanName = fmt.Sprintf("%s %s", operation, spanOpts.link)
	}

	ctx, span := tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(spanOpts.attributes...)

	return ctx, span
}

// OperationSpanOption configures an operation span.
type OperationSpanOption func(*operationSpanOptions)

type operationSpanOptions struct {
	link       string
	attributes []attribute.KeyValue
}

// WithResourceLink sets the addressed resource link.
func WithResourceLink(link string) OperationSpanOption {
	return func(opts *operationSpanOptions) {
		opts.link = link
		opts.attributes = append(opts.attributes, attribute.String("db.cosmosdb.resource_link", link))
	}
}

// WithResourceType sets the resource type discriminator (dbs, colls, docs, ...).
func WithResourceType(resourceType string) OperationSpanOption {
	return func(opts *operationSpanOptions) {
		opts.attributes = append(opts.attributes, attribute.String("db.cosmosdb.resource_type", resourceType))
	}
}

// WithStatement records the query text on a query span.
func WithStatement(statement string) OperationSpanOption {
	return func(opts *operationSpanOptions) {
		opts.attributes = append(opts.attributes, attribute.String("db.statement", statement))
	}
}

// WithActivityID records the request activity ID for correlation.
func WithActivityID(activityID string) OperationSpanOption {
	return func(opts *operationSpanOptions) {
		opts.attributes = append(opts.attributes, attribute.String("db.cosmosdb.activity_id", activityID))
	}
}

// WithRequestCharge records the consumed request units.
func WithRequestCharge(charge float64) OperationSpanOption {
	return func(opts *operationSpanOptions) {
		opts.attributes = append(opts.attributes, attribute.Float64("db.cosmosdb.request_charge", charge))
	}
}

// RecordError records an error in the span and sets the span status to error.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// RecordSuccess sets the span status to OK.
func RecordSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}
