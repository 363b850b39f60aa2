// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

// Package observability records MCP tool invocations into OpenTelemetry.
package observability

import (
	"context"
	"time"

	"github.com/neo4j/cypher-agent/internal/mcpclient"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ToolObserver wraps every tool invocation in a span and records a counter
// and a latency histogram.
type ToolObserver struct {
	tracer trace.Tracer

	invocations metric.Int64Counter
	latency     metric.Float64Histogram
}

var _ mcpclient.Observer = (*ToolObserver)(nil)

// NewToolObserver creates a tool observer bound to the provided meter/tracer.
func NewToolObserver(meter metric.Meter, tracer trace.Tracer) (*ToolObserver, error) {
	invocations, err := meter.Int64Counter(
		"cypher_agent.tool.invocations",
		metric.WithDescription("Number of MCP tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"cypher_agent.tool.latency",
		metric.WithDescription("MCP tool latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &ToolObserver{
		tracer:      tracer,
		invocations: invocations,
		latency:     latency,
	}, nil
}

// StartInvocation opens a "tool.invoke" span. The returned function ends it
// and records the metrics.
func (o *ToolObserver) StartInvocation(ctx context.Context, client, tool string) (context.Context, func(error)) {
	attrs := []attribute.KeyValue{
		attribute.String("mcp.client", client),
		attribute.String("tool_name", tool),
	}

	var span trace.Span
	if o.tracer != nil {
		ctx, span = o.tracer.Start(ctx, "tool.invoke", trace.WithAttributes(attrs...), trace.WithSpanKind(trace.SpanKindClient))
	}
	start := time.Now()

	return ctx, func(err error) {
		outcome := append(attrs, attribute.Bool("success", err == nil))
		if kind := mcpclient.KindOf(err); kind != nil {
			outcome = append(outcome, attribute.String("error_kind", kind.Error()))
		}

		// the invocation context may already be cancelled
		recordCtx := context.WithoutCancel(ctx)
		options := metric.WithAttributes(outcome...)
		o.invocations.Add(recordCtx, 1, options)
		o.latency.Record(recordCtx, time.Since(start).Seconds(), options)

		if span == nil {
			return
		}
		span.SetAttributes(outcome[len(attrs):]...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
