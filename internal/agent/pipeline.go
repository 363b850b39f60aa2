// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

// Package agent turns a question into a Cypher statement and validates it
// with remote MCP tools.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/cypher-agent/internal/config"
	"github.com/neo4j/cypher-agent/internal/database"
	"github.com/neo4j/cypher-agent/internal/llm"
	"github.com/neo4j/cypher-agent/internal/logger"
	"github.com/neo4j/cypher-agent/internal/mcpclient"
)

// Reasons reported in Answer.SkippedReason.
const (
	SkipNotValid    = "statement did not pass validation"
	SkipNoExecution = "query execution is not enabled"
	SkipNotReadOnly = "statement is not read-only"
)

var ErrModelNotConfigured = errors.New("no language model configured")

const generationPrompt = `Build a cypher query to answer the user's query.
# User query
%s

Use this database schema:
# Schema
%s

Return the cypher as a plain string with no markup or triple-quotes.
Answer with a JSON object of the form {"cypher": "<the cypher>", "params": {}} where params holds the values of any query parameters the cypher uses.`

// QueryRunner executes validated read-only statements.
type QueryRunner interface {
	database.QueryExecutor
	database.RecordFormatter
}

// Pipeline sequences schema fetch, generation, validation and the optional
// execution of a question. It holds no per-request state.
type Pipeline struct {
	invoker *mcpclient.Invoker
	model   llm.Model
	names   config.ToolNames
	runner  QueryRunner
	log     *logger.Service
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithModel sets the language model used by Generate.
func WithModel(m llm.Model) Option {
	return func(p *Pipeline) { p.model = m }
}

// WithQueryRunner enables execution of valid read-only statements.
func WithQueryRunner(r QueryRunner) Option {
	return func(p *Pipeline) { p.runner = r }
}

// WithLogger sets the pipeline logger.
func WithLogger(log *logger.Service) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a pipeline resolving tools through invoker under names.
func New(invoker *mcpclient.Invoker, names config.ToolNames, opts ...Option) *Pipeline {
	p := &Pipeline{
		invoker: invoker,
		names:   names,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HasModel reports whether Generate can run.
func (p *Pipeline) HasModel() bool {
	return p.model != nil
}

// CanExecute reports whether Answer may run valid statements.
func (p *Pipeline) CanExecute() bool {
	return p.runner != nil
}

// FetchSchema asks the schema tool for the database schema and returns its
// text payload verbatim.
func (p *Pipeline) FetchSchema(ctx context.Context) (string, error) {
	client, tool := p.names.SchemaClient, p.names.SchemaTool
	raw, err := p.invoker.Invoke(ctx, client, tool, nil)
	if err != nil {
		return "", err
	}
	schema, err := mcpclient.Unwrap(raw)
	if err != nil {
		return "", mcpclient.Annotate(client, tool, err)
	}
	p.log.Debug("fetched schema", "client", client, "tool", tool, "bytes", len(schema))
	return schema, nil
}

// Generate asks the model for a statement answering question against schema.
// The statement itself is not checked here.
func (p *Pipeline) Generate(ctx context.Context, question, schema string) (QueryRequest, error) {
	if p.model == nil {
		return QueryRequest{}, ErrModelNotConfigured
	}
	request, err := llm.CreateObject[QueryRequest](ctx, p.model, BuildPrompt(question, schema))
	if err != nil {
		return QueryRequest{}, fmt.Errorf("generating cypher: %w", err)
	}
	if request.Params == nil {
		request.Params = Params{}
	}
	p.log.Debug("generated cypher", "cypher", request.Cypher)
	return request, nil
}

// BuildPrompt renders the generation prompt.
func BuildPrompt(question, schema string) string {
	return fmt.Sprintf(generationPrompt, question, schema)
}

// Validate runs the syntax check and, only when it passes, the schema and
// properties checks. All of them go to the one validation client. Any failure
// fails the whole report.
func (p *Pipeline) Validate(ctx context.Context, request QueryRequest) (*ValidationReport, error) {
	bound, err := p.invoker.Bind(p.names.ValidationClient)
	if err != nil {
		return nil, err
	}

	syntax, err := p.check(ctx, bound, p.names.SyntaxTool, request.Cypher)
	if err != nil {
		return nil, err
	}
	report := &ValidationReport{Syntax: syntax}
	if !syntax.Passed() {
		p.log.Debug("syntax check did not pass", "cypher", request.Cypher)
		return report, nil
	}

	schema, err := p.check(ctx, bound, p.names.SchemaCheckTool, request.Cypher)
	if err != nil {
		return nil, err
	}
	properties, err := p.check(ctx, bound, p.names.PropertiesTool, request.Cypher)
	if err != nil {
		return nil, err
	}
	report.Schema = schema
	report.Properties = properties
	p.log.Debug("validated cypher", "valid", report.Valid())
	return report, nil
}

func (p *Pipeline) check(ctx context.Context, bound *mcpclient.Bound, tool, cypher string) (*ValidationResult, error) {
	raw, err := bound.Invoke(ctx, tool, map[string]string{"query": cypher})
	if err != nil {
		return nil, err
	}
	var result ValidationResult
	if err := mcpclient.UnwrapInto(raw, &result); err != nil {
		return nil, mcpclient.Annotate(bound.Client().Name(), tool, err)
	}
	return &result, nil
}

// Ask fetches the schema, generates a statement for question and validates it.
func (p *Pipeline) Ask(ctx context.Context, question string) (QueryRequest, *ValidationReport, error) {
	schema, err := p.FetchSchema(ctx)
	if err != nil {
		return QueryRequest{}, nil, err
	}
	request, err := p.Generate(ctx, question, schema)
	if err != nil {
		return QueryRequest{}, nil, err
	}
	report, err := p.Validate(ctx, request)
	if err != nil {
		return request, nil, err
	}
	return request, report, nil
}

// Answer runs Ask and, when the report is valid and execution is enabled,
// executes the statement if EXPLAIN classifies it as read-only.
func (p *Pipeline) Answer(ctx context.Context, question string) (*Answer, error) {
	requestID := uuid.NewString()
	log := p.log.With("request_id", requestID)

	request, report, err := p.Ask(ctx, question)
	if err != nil {
		return nil, err
	}
	answer := &Answer{
		RequestID: requestID,
		Question:  question,
		Request:   request,
		Report:    report,
	}

	switch {
	case !report.Valid():
		answer.SkippedReason = SkipNotValid
	case p.runner == nil:
		answer.SkippedReason = SkipNoExecution
	default:
		if err := p.execute(ctx, answer); err != nil {
			return nil, err
		}
	}
	log.Debug("answered question", "executed", answer.Executed, "skipped_reason", answer.SkippedReason)
	return answer, nil
}

func (p *Pipeline) execute(ctx context.Context, answer *Answer) error {
	cypher, params := answer.Request.Cypher, answer.Request.Params

	queryType, err := p.runner.GetQueryType(ctx, cypher, params)
	if err != nil {
		return fmt.Errorf("classifying statement: %w", err)
	}
	if !database.IsReadOnly(queryType) {
		answer.SkippedReason = SkipNotReadOnly
		return nil
	}

	records, err := p.runner.ExecuteReadQuery(ctx, cypher, params)
	if err != nil {
		return err
	}
	recordsJSON, err := p.runner.Neo4jRecordsToJSON(records)
	if err != nil {
		return err
	}
	answer.RecordsJSON = recordsJSON
	answer.Executed = true
	return nil
}
