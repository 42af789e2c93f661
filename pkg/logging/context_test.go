package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestContextFields_Empty(t *testing.T) {
	assert.Nil(t, ContextFields(context.Background()))
	assert.Nil(t, ContextFields(nil))
}

func TestContextFields_OTELTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSyncer(exporter),
	)
	tracer := provider.Tracer("test")

	ctx, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	fields := ContextFields(ctx)

	sc := span.SpanContext()
	assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
	assert.Equal(t, sc.SpanID().String(), fields["span_id"])
	assert.Equal(t, true, fields["trace_sampled"])
}

func TestContextFields_NotSampled(t *testing.T) {
	provider := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.NeverSample()))
	ctx, span := provider.Tracer("test").Start(context.Background(), "dropped")
	defer span.End()

	fields := ContextFields(ctx)

	assert.NotEmpty(t, fields["trace_id"])
	_, sampled := fields["trace_sampled"]
	assert.False(t, sampled)
}

func TestContextFields_SessionAndRequest(t *testing.T) {
	ctx := WithSessionID(context.Background(), "sess_123")
	ctx = WithRequestID(ctx, "req_456")

	fields := ContextFields(ctx)

	assert.Equal(t, map[string]any{"session.id": "sess_123", "request.id": "req_456"}, fields)
}

func TestContextFields_ExplicitFieldsWin(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req_456")
	ctx = WithFields(ctx, map[string]any{"request.id": "override", "user": "u1"})
	ctx = WithFields(ctx, map[string]any{"user": "u2"})

	fields := ContextFields(ctx)

	assert.Equal(t, "override", fields["request.id"])
	assert.Equal(t, "u2", fields["user"])
}

func TestWithFields_DoesNotRetainCallerMap(t *testing.T) {
	in := map[string]any{"k": "v"}
	ctx := WithFields(context.Background(), in)
	in["k"] = "changed"

	assert.Equal(t, "v", FieldsFromContext(ctx)["k"])
}

func TestLogger_InContext(t *testing.T) {
	env := newTestManager(t)
	l := env.m.GetLogger("svc")
	ctx := WithLogger(context.Background(), l)

	assert.Same(t, l, FromContext(ctx))
}

func TestLogger_FromContextMissing(t *testing.T) {
	retrieved := FromContext(context.Background())

	require.NotNil(t, retrieved)
	assert.Equal(t, RootName, retrieved.Name())
}

func TestWithSessionID_Valid(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
	}{
		{"simple", "sess_123"},
		{"with hyphens", "sess-abc-123"},
		{"alphanumeric", "sessABC123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithSessionID(context.Background(), tt.sessionID)
			assert.Equal(t, tt.sessionID, SessionIDFromContext(ctx))
		})
	}
}

func TestWithSessionID_EmptyPanics(t *testing.T) {
	assert.PanicsWithValue(t, "logging: sessionID cannot be empty", func() {
		WithSessionID(context.Background(), "")
	})
}

func TestWithID_InvalidPanics(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"with spaces", "id 123"},
		{"with slash", "id/123"},
		{"with special chars", "id@123"},
		{"with dots", "id.123"},
		{"too long", strings.Repeat("a", 129)},
		{"invalid utf8", "id\xff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, func() { WithSessionID(context.Background(), tt.id) })
			assert.Panics(t, func() { WithRequestID(context.Background(), tt.id) })
		})
	}
}

func TestWithRequestID_MaxLength(t *testing.T) {
	id := strings.Repeat("r", 128)
	ctx := WithRequestID(context.Background(), id)
	assert.Equal(t, id, RequestIDFromContext(ctx))
}
