package tracing

import (
	"context"
	"errors"
	"testing"
)

func TestNewTracerProvider_DisabledIsNoop(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), TracerConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp.Tracer("cosmos") == nil {
		t.Fatal("expected tracer from disabled provider")
	}
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}

func TestNewTracerProvider_Validation(t *testing.T) {
	cases := []TracerConfig{
		{Enabled: true, Endpoint: "localhost:4317", SampleRate: 0.5},                        // missing service name
		{Enabled: true, ServiceName: "svc", SampleRate: 0.5},                                // missing endpoint
		{Enabled: true, ServiceName: "svc", Endpoint: "localhost:4317", SampleRate: 1.5},    // bad sample rate
		{Enabled: true, ServiceName: "svc", Endpoint: "localhost:4317", SampleRate: -0.001}, // bad sample rate
	}
	for i, cfg := range cases {
		if _, err := NewTracerProvider(context.Background(), cfg); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestStartOperationSpan_AttributesAndStatus(t *testing.T) {
	ctx, span := StartOperationSpan(context.Background(), SpanOperationQuery,
		WithResourceLink("dbs/tasks/colls/items"),
		WithResourceType("docs"),
		WithStatement("SELECT * FROM c"),
	)
	if ctx == nil {
		t.Fatal("expected context from span start")
	}

	RecordError(span, errors.New("boom"))
	RecordSuccess(span)
	span.End()
}
