// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cli

import (
	"context"
	"fmt"

	"github.com/neo4j/cypher-agent/internal/agent"
	"github.com/neo4j/cypher-agent/internal/analytics"
	"github.com/neo4j/cypher-agent/internal/config"
	"github.com/neo4j/cypher-agent/internal/database"
	"github.com/neo4j/cypher-agent/internal/llm"
	"github.com/neo4j/cypher-agent/internal/logger"
	"github.com/neo4j/cypher-agent/internal/mcpclient"
	"github.com/neo4j/cypher-agent/internal/observability"
	"github.com/spf13/cobra"
)

// connectClients dials the configured MCP servers. Replaced in tests.
var connectClients = func(ctx context.Context, cfgs []config.ClientConfig, log *logger.Service) ([]mcpclient.ToolClient, func(), error) {
	conns, err := mcpclient.Connect(ctx, cfgs, log)
	if err != nil {
		return nil, nil, err
	}
	return mcpclient.AsToolClients(conns), func() { mcpclient.CloseAll(conns, log) }, nil
}

// newModel builds the language model client. Replaced in tests.
var newModel = func(cfg *config.Config) (llm.Model, error) {
	model, err := llm.New(cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMModel)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// openDatabase connects to Neo4j for the answer step. Replaced in tests.
var openDatabase = func(ctx context.Context, cfg *config.Config) (database.Service, error) {
	service, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := service.VerifyConnectivity(ctx); err != nil {
		_ = service.Close(ctx)
		return nil, err
	}
	return service, nil
}

// requirement tells setup what a command needs besides the MCP clients.
type requirement int

const (
	needClients requirement = iota
	needModel
	modelIfConfigured // serve exposes generation tools only when a model can be built
)

// runtime is everything a command needs, built from the configuration.
type runtime struct {
	cfg       *config.Config
	log       *logger.Service
	registry  *mcpclient.Registry
	pipeline  *agent.Pipeline
	analytics analytics.Service
	closers   []func(context.Context)
}

func setup(cmd *cobra.Command, opts *rootOptions, req requirement) (_ *runtime, err error) {
	cfg, err := config.LoadConfig(opts.overrides())
	if err != nil {
		return nil, exitError(exitFailure, "Failed to load configuration: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	ctx := cmd.Context()

	rt := &runtime{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			rt.close(ctx)
		}
	}()

	var model llm.Model
	if req == needModel || req == modelIfConfigured {
		invalid := cfg.ValidateModel()
		switch {
		case invalid != nil && req == needModel:
			return nil, fmt.Errorf("invalid language model configuration: %w", invalid)
		case invalid != nil:
			log.Warn("Language model is not configured", "error", invalid)
		default:
			if model, err = newModel(cfg); err != nil {
				return nil, fmt.Errorf("failed to create language model: %w", err)
			}
		}
	}

	rt.analytics = analytics.Disabled()
	if cfg.Telemetry {
		client, err := analytics.New(cfg.TelemetryToken, cfg.TelemetryEndpoint, nil, log)
		if err != nil {
			return nil, err
		}
		rt.analytics = client
		rt.analytics.EmitEvent(rt.analytics.NewOSInfoEvent(cfg.Neo4jURI))
	}

	observer, shutdown, err := observability.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, func(ctx context.Context) {
		if err := shutdown(ctx); err != nil {
			log.Warn("Failed to flush telemetry", "error", err)
		}
	})

	clientConfigs, err := config.LoadClients(cfg.ClientsFile)
	if err != nil {
		return nil, err
	}
	clients, closeClients, err := connectClients(ctx, clientConfigs, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect MCP clients: %w", err)
	}
	rt.closers = append(rt.closers, func(context.Context) { closeClients() })

	rt.registry = mcpclient.NewRegistry(clients...)
	invoker := mcpclient.NewInvoker(rt.registry,
		mcpclient.WithTimeout(cfg.ToolTimeout),
		mcpclient.WithObserver(observer),
		mcpclient.WithLogger(log),
	)

	pipelineOpts := []agent.Option{agent.WithLogger(log)}
	if model != nil {
		pipelineOpts = append(pipelineOpts, agent.WithModel(model))
	}
	if cfg.ExecuteQueries && model != nil {
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
		}
		rt.closers = append(rt.closers, func(ctx context.Context) {
			if err := db.Close(ctx); err != nil {
				log.Warn("Failed to close Neo4j driver", "error", err)
			}
		})
		pipelineOpts = append(pipelineOpts, agent.WithQueryRunner(db))
	}
	rt.pipeline = agent.New(invoker, cfg.Tools, pipelineOpts...)
	return rt, nil
}

// close releases resources in reverse order of acquisition.
func (rt *runtime) close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i](ctx)
	}
	rt.closers = nil
}

// fail turns err into the command's exit error. cobra prints it, so it is
// only traced at debug level here.
func (rt *runtime) fail(message string, err error) error {
	attrs := []any{"error", err}
	if kind := mcpclient.KindOf(err); kind != nil {
		attrs = append(attrs, "kind", kind.Error())
	}
	rt.log.Debug(message, attrs...)
	return exitError(exitFailure, "%s: %v", message, err)
}
