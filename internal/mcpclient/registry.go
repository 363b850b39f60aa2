// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

// Package mcpclient resolves MCP tool clients and tools by name, invokes tools
// and unwraps the text envelopes they answer with.
package mcpclient

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks github.com/neo4j/cypher-agent/internal/mcpclient ToolClient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolClient is one connected MCP server as seen by the agent.
type ToolClient interface {
	// Name is the identity used for lookups, normally the server-reported name.
	Name() string
	// ListTools returns the tools the server currently advertises.
	ListTools(ctx context.Context) ([]mcp.Tool, error)
	// CallTool invokes a tool with a JSON-encoded argument object.
	CallTool(ctx context.Context, name string, arguments json.RawMessage) (*mcp.CallToolResult, error)
}

// Registry is a read-only view over the connected clients.
// It is built once before any request and never mutated afterwards.
type Registry struct {
	clients []ToolClient
}

// NewRegistry creates a registry over clients, keeping their order.
func NewRegistry(clients ...ToolClient) *Registry {
	return &Registry{clients: append([]ToolClient(nil), clients...)}
}

// Clients returns the connected clients in registration order.
func (r *Registry) Clients() []ToolClient {
	return append([]ToolClient(nil), r.clients...)
}

// FindClient returns the first client whose name equals name.
func (r *Registry) FindClient(name string) (ToolClient, bool) {
	for _, c := range r.clients {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// FindTool returns the first tool on c whose name equals name.
// The error is non-nil only when the tool list could not be fetched.
func (r *Registry) FindTool(ctx context.Context, c ToolClient, name string) (mcp.Tool, bool, error) {
	tools, err := c.ListTools(ctx)
	if err != nil {
		return mcp.Tool{}, false, newToolError(ErrToolInvocationFailed, c.Name(), name, fmt.Errorf("listing tools: %w", err))
	}
	for _, t := range tools {
		if t.Name == name {
			return t, true, nil
		}
	}
	return mcp.Tool{}, false, nil
}

// Resolve finds the named client and tool, failing with ErrToolNotAvailable or
// ErrToolUnsupported.
func (r *Registry) Resolve(ctx context.Context, clientName, toolName string) (ToolClient, mcp.Tool, error) {
	c, ok := r.FindClient(clientName)
	if !ok {
		return nil, mcp.Tool{}, newToolError(ErrToolNotAvailable, clientName, toolName, nil)
	}
	tool, ok, err := r.FindTool(ctx, c, toolName)
	if err != nil {
		return nil, mcp.Tool{}, err
	}
	if !ok {
		return nil, mcp.Tool{}, newToolError(ErrToolUnsupported, clientName, toolName, nil)
	}
	return c, tool, nil
}
