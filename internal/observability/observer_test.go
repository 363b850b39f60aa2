package observability_test

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/cypher-agent/internal/mcpclient"
	"github.com/neo4j/cypher-agent/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func TestToolObserver_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")
	_, mp := newTestMeter()

	observer, err := observability.NewToolObserver(mp.Meter("test"), tracer)
	require.NoError(t, err)

	_, finish := observer.StartInvocation(context.Background(), "cyver", "validate_cypher_syntax")
	finish(nil)

	_, finish = observer.StartInvocation(context.Background(), "cyver", "schema_validator")
	finish(&mcpclient.ToolError{Kind: mcpclient.ErrToolUnsupported, Client: "cyver", Tool: "schema_validator"})

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "tool.invoke", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("tool_name", "validate_cypher_syntax"))

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Contains(t, spans[1].Attributes(), attribute.String("error_kind", mcpclient.ErrToolUnsupported.Error()))
	assert.Contains(t, spans[1].Attributes(), attribute.Bool("success", false))
}

func TestToolObserver_RecordsMetrics(t *testing.T) {
	reader, mp := newTestMeter()
	observer, err := observability.NewToolObserver(mp.Meter("test"), noop.NewTracerProvider().Tracer("test"))
	require.NoError(t, err)

	for range 3 {
		_, finish := observer.StartInvocation(context.Background(), "cyver", "validate_cypher_syntax")
		finish(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ctx, finish := observer.StartInvocation(ctx, "mcp-neo4j-cypher", "get_neo4j_schema")
	cancel()
	finish(errors.New("context canceled"))
	require.Error(t, ctx.Err())

	invocations := findMetric(t, reader, "cypher_agent.tool.invocations")
	require.NotNil(t, invocations)
	sum, ok := invocations.Data.(metricdata.Sum[int64])
	require.True(t, ok, "got %T", invocations.Data)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(4), total)

	latency := findMetric(t, reader, "cypher_agent.tool.latency")
	require.NotNil(t, latency)
	_, ok = latency.Data.(metricdata.Histogram[float64])
	assert.True(t, ok, "got %T", latency.Data)
}

func TestSetup_WithoutEndpoint(t *testing.T) {
	observer, shutdown, err := observability.Setup(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, observer)
	assert.NoError(t, shutdown(context.Background()))
}
