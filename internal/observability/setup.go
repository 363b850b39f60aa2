// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package observability

import (
	"context"
	"fmt"

	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const instrumentationName = "github.com/neo4j/cypher-agent/mcpclient"

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(context.Context) error

// Setup installs an OTLP/HTTP trace exporter as the global tracer provider
// when endpoint is set, and returns an observer bound to the global providers.
func Setup(ctx context.Context, endpoint string) (*ToolObserver, ShutdownFunc, error) {
	shutdown := ShutdownFunc(func(context.Context) error { return nil })

	if endpoint != "" {
		exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
		if err != nil {
			return nil, nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
		}
		provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
		otelapi.SetTracerProvider(provider)
		shutdown = provider.Shutdown
	}

	observer, err := NewToolObserver(
		otelapi.GetMeterProvider().Meter(instrumentationName),
		otelapi.GetTracerProvider().Tracer(instrumentationName),
	)
	if err != nil {
		_ = shutdown(ctx)
		return nil, nil, fmt.Errorf("initializing tool observability: %w", err)
	}
	return observer, shutdown, nil
}
