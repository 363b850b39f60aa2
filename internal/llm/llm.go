// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

// Package llm adapts iris chat providers to the single capability the agent
// needs: turning a prompt into a structured object.
package llm

//go:generate mockgen -destination=mocks/mock_model.go -package=mocks github.com/neo4j/cypher-agent/internal/llm Model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	iriscore "github.com/petal-labs/iris/core"
	"github.com/petal-labs/iris/providers"

	// Register the providers selectable through configuration.
	_ "github.com/petal-labs/iris/providers/anthropic"
	_ "github.com/petal-labs/iris/providers/ollama"
	_ "github.com/petal-labs/iris/providers/openai"
)

var (
	ErrEmptyCompletion    = errors.New("language model returned an empty completion")
	ErrObjectDecodeFailed = errors.New("language model output is not the requested JSON object")
)

// Model completes a single prompt.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderModel is a Model backed by an iris provider.
type ProviderModel struct {
	provider     iriscore.Provider
	model        iriscore.ModelID
	instructions string
}

var _ Model = (*ProviderModel)(nil)

// NewProviderModel wraps an existing provider.
func NewProviderModel(provider iriscore.Provider, model string) *ProviderModel {
	return &ProviderModel{
		provider:     provider,
		model:        iriscore.ModelID(model),
		instructions: "Answer with a single JSON object and nothing else.",
	}
}

// New creates a Model for the named iris provider.
func New(providerName, apiKey, model string) (*ProviderModel, error) {
	provider, err := providers.Create(providerName, apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating provider %q: %w", providerName, err)
	}
	return NewProviderModel(provider, model), nil
}

// ProviderID returns the id of the underlying provider.
func (m *ProviderModel) ProviderID() string {
	return m.provider.ID()
}

// Complete sends prompt as the only user message.
func (m *ProviderModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.provider.Chat(ctx, &iriscore.ChatRequest{
		Model: m.model,
		Messages: []iriscore.Message{
			{Role: iriscore.RoleUser, Content: prompt},
		},
		Instructions: m.instructions,
	})
	if err != nil {
		return "", fmt.Errorf("provider chat failed: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyCompletion
	}
	return resp.Output, nil
}

// CreateObject completes prompt and decodes the answer as JSON into a T.
// A single fenced code block around the object is tolerated.
func CreateObject[T any](ctx context.Context, model Model, prompt string) (T, error) {
	var out T
	text, err := model.Complete(ctx, prompt)
	if err != nil {
		return out, err
	}
	payload := extractObject(text)
	if payload == "" {
		return out, ErrEmptyCompletion
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrObjectDecodeFailed, err)
	}
	return out, nil
}

func extractObject(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			// drop the language tag
			text = text[nl+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		return strings.TrimSpace(text)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	// prose around the object
	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first >= 0 && last > first {
		return text[first : last+1]
	}
	return text
}
