package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"storefront/pkg/logger"
)

func TestGetTraceIDWithoutSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestAddSpanUsesInjectedTracer(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx := InjectTracing(context.Background(), tp.Tracer("test"))
	ctx, span := AddSpan(ctx, "checkout")
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	assert.Equal(t, span.SpanContext().TraceID().String(), GetTraceID(ctx))
}

func TestInitTracingWithoutHost(t *testing.T) {
	tp, shutdown, err := InitTracing(logger.NewNop(), Config{ServiceName: "storefront-test", Probability: 1})
	require.NoError(t, err)
	require.NotNil(t, tp)
	require.NoError(t, shutdown(context.Background()))
}
