// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package mcpclient

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/cypher-agent/internal/config"
	"github.com/neo4j/cypher-agent/internal/logger"
)

// ClientInfo identifies the agent during the MCP handshake.
var ClientInfo = mcp.Implementation{
	Name:    "cypher-agent",
	Version: "dev",
}

// Connection adapts an initialized mcp-go client to ToolClient.
type Connection struct {
	client     *client.Client
	name       string
	serverInfo mcp.Implementation
}

var _ ToolClient = (*Connection)(nil)

// Name returns the lookup name of the connection.
func (c *Connection) Name() string {
	return c.name
}

// ServerInfo returns what the server reported during initialization.
func (c *Connection) ServerInfo() mcp.Implementation {
	return c.serverInfo
}

// ListTools pages through tools/list.
func (c *Connection) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	var tools []mcp.Tool
	request := mcp.ListToolsRequest{}
	for {
		result, err := c.client.ListTools(ctx, request)
		if err != nil {
			return nil, err
		}
		tools = append(tools, result.Tools...)
		if result.NextCursor == "" {
			return tools, nil
		}
		request.Params.Cursor = result.NextCursor
	}
}

// CallTool sends tools/call with the argument object passed through untouched.
func (c *Connection) CallTool(ctx context.Context, name string, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = arguments
	return c.client.CallTool(ctx, request)
}

// Close shuts the underlying transport down.
func (c *Connection) Close() error {
	return c.client.Close()
}

// Attach initializes an already constructed client and wraps it.
// An empty name means the server-reported name is used for lookups.
func Attach(ctx context.Context, c *client.Client, name string) (*Connection, error) {
	result, err := c.Initialize(ctx, initializeRequest())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MCP client: %w", err)
	}
	if name == "" {
		name = result.ServerInfo.Name
	}
	if name == "" {
		return nil, errors.New("server reported no name and none was configured")
	}
	return &Connection{client: c, name: name, serverInfo: result.ServerInfo}, nil
}

// Dial starts or connects to the MCP server described by cfg and initializes it.
func Dial(ctx context.Context, cfg config.ClientConfig, log *logger.Service) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		c   *client.Client
		err error
	)
	if cfg.IsStdio() {
		// the subprocess inherits our environment plus the configured overrides
		c, err = client.NewStdioMCPClient(cfg.Command, append(os.Environ(), cfg.EnvList()...), cfg.Args...)
		if err != nil {
			return nil, fmt.Errorf("failed to start MCP server %q: %w", cfg.Label(), err)
		}
		captureServerLog(c, cfg.Label(), log)
	} else {
		c, err = client.NewStreamableHttpClient(cfg.URL, transport.WithHTTPHeaders(cfg.Headers))
		if err != nil {
			return nil, fmt.Errorf("failed to create MCP client for %q: %w", cfg.Label(), err)
		}
		if err := c.Start(ctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to start MCP client for %q: %w", cfg.Label(), err)
		}
	}

	conn, err := Attach(ctx, c, cfg.Name)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("client %q: %w", cfg.Label(), err)
	}
	log.Info("connected to MCP server",
		"client", conn.Name(),
		"server", conn.serverInfo.Name,
		"server_version", conn.serverInfo.Version,
	)
	return conn, nil
}

// Connect dials every configured client. On failure the connections opened
// so far are closed.
func Connect(ctx context.Context, cfgs []config.ClientConfig, log *logger.Service) ([]*Connection, error) {
	conns := make([]*Connection, 0, len(cfgs))
	for _, cfg := range cfgs {
		conn, err := Dial(ctx, cfg, log)
		if err != nil {
			CloseAll(conns, log)
			return nil, err
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

// CloseAll closes conns, logging failures.
func CloseAll(conns []*Connection, log *logger.Service) {
	for _, conn := range conns {
		if err := conn.Close(); err != nil {
			log.Warn("failed to close MCP client", "client", conn.Name(), "error", err)
		}
	}
}

// AsToolClients converts connections for NewRegistry.
func AsToolClients(conns []*Connection) []ToolClient {
	clients := make([]ToolClient, len(conns))
	for i, conn := range conns {
		clients[i] = conn
	}
	return clients
}

func initializeRequest() mcp.InitializeRequest {
	request := mcp.InitializeRequest{}
	request.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	request.Params.ClientInfo = ClientInfo
	return request
}

// captureServerLog forwards a stdio server's stderr into our log.
func captureServerLog(c *client.Client, label string, log *logger.Service) {
	stderr, ok := client.GetStderr(c)
	if !ok {
		return
	}
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			log.Debug("mcp server output", "client", label, "line", scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			log.Debug("stopped reading MCP server output", "client", label, "error", err)
		}
	}()
}
