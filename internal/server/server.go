// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

// Package server exposes the Cypher agent pipeline as an MCP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/neo4j/cypher-agent/internal/config"
	"github.com/neo4j/cypher-agent/internal/logger"
	"github.com/neo4j/cypher-agent/internal/tools"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	serverName = "cypher-agent"

	httpReadTimeout       = 10 * time.Second
	httpWriteTimeout      = 120 * time.Second // covers a full ask-graph round trip
	httpIdleTimeout       = 60 * time.Second
	httpReadHeaderTimeout = 5 * time.Second
)

// AgentServer represents the MCP server instance
type AgentServer struct {
	MCPServer       *server.MCPServer
	httpServer      *http.Server
	httpServerReady chan struct{}
	config          *config.Config
	deps            *tools.ToolDependencies
	log             *logger.Service
	version         string
}

// NewAgentServer creates a new MCP server instance.
// The config parameter is expected to be already validated.
func NewAgentServer(version string, cfg *config.Config, deps *tools.ToolDependencies) *AgentServer {
	log := deps.Log
	if log == nil {
		log = logger.Discard()
		deps.Log = log
	}

	s := &AgentServer{
		config:          cfg,
		deps:            deps,
		log:             log,
		version:         version,
		httpServerReady: make(chan struct{}),
	}

	hooks := &server.Hooks{}
	hooks.AddAfterSetLevel(s.onAfterSetLevelHook)

	s.MCPServer = server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithHooks(hooks),
		server.WithInstructions("This server turns natural-language questions into Cypher for a Neo4j graph. "+
			"Use get-schema to inspect the graph, generate-cypher to draft a statement, validate-cypher to check it "+
			"and ask-graph to do all of it in one call."),
	)
	return s
}

// Start registers the tools and serves on the configured transport until ctx
// is cancelled or the transport fails.
func (s *AgentServer) Start(ctx context.Context) error {
	s.log.Info("Starting Cypher agent MCP server", "transport", s.config.TransportMode, "version", s.version)

	if err := s.RegisterTools(); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	if s.deps.AnalyticsService != nil {
		s.deps.AnalyticsService.EmitEvent(s.deps.AnalyticsService.NewStartupEvent("serve"))
	}

	switch s.config.TransportMode {
	case config.TransportModeHTTP:
		return s.startHTTP(ctx)
	case config.TransportModeStdio:
		s.log.Info("Started Cypher agent MCP server. Now listening for input...")
		stdio := server.NewStdioServer(s.MCPServer)
		stdio.SetErrorLogger(slog.NewLogLogger(s.log.Handler(), slog.LevelError))
		return stdio.Listen(ctx, os.Stdin, os.Stdout)
	default:
		return fmt.Errorf("unsupported transport mode: %s", s.config.TransportMode)
	}
}

func (s *AgentServer) startHTTP(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.HTTPHost, s.config.HTTPPort)

	streamable := server.NewStreamableHTTPServer(
		s.MCPServer,
		server.WithEndpointPath(s.config.HTTPPath),
		server.WithStateLess(true),
	)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(s.chainMiddleware(streamable), "mcp.http"),
		ReadTimeout:       httpReadTimeout,
		WriteTimeout:      httpWriteTimeout,
		IdleTimeout:       httpIdleTimeout,
		ReadHeaderTimeout: httpReadHeaderTimeout,
	}
	close(s.httpServerReady)

	if s.config.HTTPAuthToken == "" {
		s.log.Warn("HTTP auth token is not set, tools/call requests are accepted without authentication")
	}
	s.log.Info("Started Cypher agent MCP HTTP server", "address", addr, "path", s.config.HTTPPath, "tls", s.config.TLSEnabled())

	errCh := make(chan error, 1)
	go func() {
		if s.config.TLSEnabled() {
			errCh <- s.httpServer.ListenAndServeTLS(s.config.HTTPTLSCertFile, s.config.HTTPTLSKeyFile)
			return
		}
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Stop(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// Stop gracefully stops the HTTP server. It is a no-op in stdio mode.
func (s *AgentServer) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("Stopping Cypher agent MCP server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
