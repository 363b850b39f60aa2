// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package mcpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/cypher-agent/internal/logger"
)

// DefaultTimeout applies when no timeout option is given.
const DefaultTimeout = 30 * time.Second

// Observer is notified around every invocation. The returned function is
// called once with the invocation outcome.
type Observer interface {
	StartInvocation(ctx context.Context, client, tool string) (context.Context, func(err error))
}

type noopObserver struct{}

func (noopObserver) StartInvocation(ctx context.Context, _, _ string) (context.Context, func(error)) {
	return ctx, func(error) {}
}

// Invoker resolves tools through a Registry and calls them.
type Invoker struct {
	registry *Registry
	timeout  time.Duration
	observer Observer
	log      *logger.Service
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithTimeout bounds each invocation, tool resolution included.
func WithTimeout(d time.Duration) Option {
	return func(i *Invoker) {
		if d > 0 {
			i.timeout = d
		}
	}
}

// WithObserver installs an invocation observer.
func WithObserver(o Observer) Option {
	return func(i *Invoker) {
		if o != nil {
			i.observer = o
		}
	}
}

// WithLogger sets the logger used for debug traces of each call.
func WithLogger(log *logger.Service) Option {
	return func(i *Invoker) {
		if log != nil {
			i.log = log
		}
	}
}

// NewInvoker creates an invoker over registry.
func NewInvoker(registry *Registry, opts ...Option) *Invoker {
	i := &Invoker{
		registry: registry,
		timeout:  DefaultTimeout,
		observer: noopObserver{},
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Registry returns the registry the invoker resolves against.
func (i *Invoker) Registry() *Registry {
	return i.registry
}

// Invoke encodes args as a JSON object and calls the tool.
func (i *Invoker) Invoke(ctx context.Context, clientName, toolName string, args any) (string, error) {
	b, err := i.Bind(clientName)
	if err != nil {
		return "", err
	}
	return b.Invoke(ctx, toolName, args)
}

// Call invokes toolName on clientName with a JSON argument object and returns
// the raw response envelope: the JSON encoding of the result's content list.
func (i *Invoker) Call(ctx context.Context, clientName, toolName, argsJSON string) (string, error) {
	if err := checkObject([]byte(argsJSON)); err != nil {
		return "", newToolError(ErrToolInvocationFailed, clientName, toolName, err)
	}
	b, err := i.Bind(clientName)
	if err != nil {
		return "", err
	}
	return b.Call(ctx, toolName, argsJSON)
}

// Bind resolves clientName once. The returned Bound invokes several tools on
// the same client without looking it up again.
func (i *Invoker) Bind(clientName string) (*Bound, error) {
	c, ok := i.registry.FindClient(clientName)
	if !ok {
		return nil, newToolError(ErrToolNotAvailable, clientName, "", nil)
	}
	return &Bound{invoker: i, client: c}, nil
}

// Bound is an Invoker pinned to one resolved client.
type Bound struct {
	invoker *Invoker
	client  ToolClient
}

// Client returns the resolved client.
func (b *Bound) Client() ToolClient {
	return b.client
}

// Invoke encodes args as a JSON object and calls toolName.
func (b *Bound) Invoke(ctx context.Context, toolName string, args any) (string, error) {
	argsJSON, err := EncodeArguments(args)
	if err != nil {
		return "", newToolError(ErrToolInvocationFailed, b.client.Name(), toolName, err)
	}
	return b.Call(ctx, toolName, argsJSON)
}

// Call invokes toolName with a JSON argument object.
func (b *Bound) Call(ctx context.Context, toolName, argsJSON string) (string, error) {
	name := b.client.Name()
	if err := checkObject([]byte(argsJSON)); err != nil {
		return "", newToolError(ErrToolInvocationFailed, name, toolName, err)
	}

	i := b.invoker
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	ctx, finish := i.observer.StartInvocation(ctx, name, toolName)
	start := time.Now()
	raw, err := b.call(ctx, toolName, json.RawMessage(argsJSON))
	finish(err)

	if err != nil {
		i.log.Debug("tool invocation failed", "client", name, "tool", toolName, "error", err, "duration", time.Since(start))
		return "", err
	}
	i.log.Debug("tool invoked", "client", name, "tool", toolName, "duration", time.Since(start))
	return raw, nil
}

func (b *Bound) call(ctx context.Context, toolName string, args json.RawMessage) (string, error) {
	name := b.client.Name()
	_, ok, err := b.invoker.registry.FindTool(ctx, b.client, toolName)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", newToolError(ErrToolUnsupported, name, toolName, nil)
	}

	result, err := b.client.CallTool(ctx, toolName, args)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("no response within %s: %w", b.invoker.timeout, err)
		}
		return "", newToolError(ErrToolInvocationFailed, name, toolName, err)
	}
	if result == nil {
		return "", newToolError(ErrToolInvocationFailed, name, toolName, errors.New("no result returned"))
	}
	if result.IsError {
		return "", newToolError(ErrToolInvocationFailed, name, toolName, fmt.Errorf("tool reported an error: %s", firstText(result)))
	}

	content := result.Content
	if content == nil {
		content = []mcp.Content{}
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return "", newToolError(ErrToolInvocationFailed, name, toolName, fmt.Errorf("encoding tool result: %w", err))
	}
	return string(raw), nil
}

func firstText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := mcp.AsTextContent(c); ok {
			return text.Text
		}
	}
	return "no details"
}
