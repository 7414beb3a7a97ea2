package cosmos

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/devjourney/cosmos/pkg/observability/tracing"
)

func TestSpanOperationMapping(t *testing.T) {
	tests := []struct {
		operation string
		want      tracing.SpanOperation
	}{
		{"read", tracing.SpanOperationRead},
		{"create", tracing.SpanOperationCreate},
		{"upsert", tracing.SpanOperationUpsert},
		{"replace", tracing.SpanOperationReplace},
		{"delete", tracing.SpanOperationDelete},
		{"query", tracing.SpanOperationQuery},
		{"read_feed", tracing.SpanOperationReadFeed},
		{"execute", tracing.SpanOperationExecute},
		{"custom", tracing.SpanOperation("db.custom")},
	}
	for _, tt := range tests {
		if got := spanOperationFor(tt.operation); got != tt.want {
			t.Errorf("spanOperationFor(%q) = %q, want %q", tt.operation, got, tt.want)
		}
	}
}

// TestDispatch_SpanOutcome verifies every traced operation ends its span
// with the operation outcome recorded.
func TestDispatch_SpanOutcome(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"id":"account1"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NotFound","message":"missing"}`))
	}), WithTracing())

	if _, err := client.ReadAccount(context.Background()); err != nil {
		t.Fatalf("ReadAccount() failed: %v", err)
	}
	if _, err := client.Database("db1").Read(context.Background()); err == nil {
		t.Fatal("Read() of missing database succeeded")
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}

	success := spans[0]
	if success.Status().Code != codes.Ok {
		t.Errorf("successful operation span status = %v, want Ok", success.Status().Code)
	}
	if success.Name() != string(tracing.SpanOperationRead) {
		t.Errorf("account span name = %q", success.Name())
	}

	failure := spans[1]
	if failure.Status().Code != codes.Error {
		t.Errorf("failed operation span status = %v, want Error", failure.Status().Code)
	}
	if failure.Status().Description == "" {
		t.Error("failed operation span carries no error description")
	}
}
