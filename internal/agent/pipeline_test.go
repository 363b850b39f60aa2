package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/cypher-agent/internal/agent"
	"github.com/neo4j/cypher-agent/internal/config"
	dbmocks "github.com/neo4j/cypher-agent/internal/database/mocks"
	llmmocks "github.com/neo4j/cypher-agent/internal/llm/mocks"
	"github.com/neo4j/cypher-agent/internal/mcpclient"
	"github.com/neo4j/cypher-agent/internal/mcpclient/mocks"
	"github.com/neo4j/neo4j-go-driver/v6/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	syntaxResultValid   = `{"validation_type":"syntax","query":"MATCH (n) RETURN n","is_valid":true,"score":1.0,"metadata":[]}`
	syntaxResultInvalid = `{"validation_type":"syntax","query":"MATCH (n RETURN n","is_valid":false,"score":0.0,"metadata":[{"error":"Invalid input 'RETURN'"}]}`
	schemaResultValid   = `{"validation_type":"schema","query":"MATCH (n) RETURN n","is_valid":true,"score":0.9,"metadata":[],"extra":"ignored"}`
	propsResultValid    = `{"validation_type":"properties","query":"MATCH (n) RETURN n","is_valid":true,"score":1.0,"metadata":[]}`
	propsResultInvalid  = `{"validation_type":"properties","query":"MATCH (n) RETURN n","is_valid":false,"metadata":[{"property":"age"}]}`
)

var validationTools = []string{"validate_cypher_syntax", "schema_validator", "validate_cypher_properties"}

func newClient(ctrl *gomock.Controller, name string, tools ...string) *mocks.MockToolClient {
	c := mocks.NewMockToolClient(ctrl)
	c.EXPECT().Name().Return(name).AnyTimes()
	descriptors := make([]mcp.Tool, 0, len(tools))
	for _, tool := range tools {
		descriptors = append(descriptors, mcp.NewTool(tool))
	}
	c.EXPECT().ListTools(gomock.Any()).Return(descriptors, nil).AnyTimes()
	return c
}

func queryArgument(t *testing.T, args json.RawMessage) string {
	t.Helper()
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(args, &decoded))
	require.Len(t, decoded, 1)
	return decoded["query"]
}

func newPipeline(clients []mcpclient.ToolClient, opts ...agent.Option) *agent.Pipeline {
	invoker := mcpclient.NewInvoker(mcpclient.NewRegistry(clients...))
	return agent.New(invoker, config.DefaultToolNames(), opts...)
}

func TestFetchSchema(t *testing.T) {
	ctx := context.Background()
	schemaText := `{"Person":{"type":"node","count":3,"properties":{"name":{"type":"STRING"}}}}`

	t.Run("returns the text payload verbatim", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		neo := newClient(ctrl, "mcp-neo4j-cypher", "read_neo4j_cypher", "get_neo4j_schema")
		neo.EXPECT().
			CallTool(gomock.Any(), "get_neo4j_schema", json.RawMessage(`{}`)).
			Return(mcp.NewToolResultText(schemaText), nil)

		schema, err := newPipeline([]mcpclient.ToolClient{neo}).FetchSchema(ctx)
		require.NoError(t, err)
		assert.Equal(t, schemaText, schema)
	})

	t.Run("schema client missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cyver := newClient(ctrl, "cyver", validationTools...)

		_, err := newPipeline([]mcpclient.ToolClient{cyver}).FetchSchema(ctx)
		assert.ErrorIs(t, err, mcpclient.ErrToolNotAvailable)
	})

	t.Run("schema tool missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		neo := newClient(ctrl, "mcp-neo4j-cypher", "read_neo4j_cypher")

		_, err := newPipeline([]mcpclient.ToolClient{neo}).FetchSchema(ctx)
		assert.ErrorIs(t, err, mcpclient.ErrToolUnsupported)
	})

	t.Run("empty envelope", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		neo := newClient(ctrl, "mcp-neo4j-cypher", "get_neo4j_schema")
		neo.EXPECT().
			CallTool(gomock.Any(), "get_neo4j_schema", gomock.Any()).
			Return(&mcp.CallToolResult{Content: []mcp.Content{}}, nil)

		_, err := newPipeline([]mcpclient.ToolClient{neo}).FetchSchema(ctx)
		assert.ErrorIs(t, err, mcpclient.ErrEmptyToolResponse)

		var toolErr *mcpclient.ToolError
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, "mcp-neo4j-cypher", toolErr.Client)
		assert.Equal(t, "get_neo4j_schema", toolErr.Tool)
	})
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	question := `Which movies did "Keanu Reeves" act in?`
	schema := `{"Movie":{"type":"node"},"ACTED_IN":{"type":"relationship"}}`

	t.Run("decodes the model output", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		model := llmmocks.NewMockModel(ctrl)
		model.EXPECT().
			Complete(gomock.Any(), agent.BuildPrompt(question, schema)).
			Return(`{"cypher":"MATCH (p:Person {name: $name})-[:ACTED_IN]->(m:Movie) RETURN m.title","params":{"name":"Keanu Reeves"}}`, nil)

		request, err := newPipeline(nil, agent.WithModel(model)).Generate(ctx, question, schema)
		require.NoError(t, err)
		assert.Equal(t, "MATCH (p:Person {name: $name})-[:ACTED_IN]->(m:Movie) RETURN m.title", request.Cypher)
		assert.Equal(t, agent.Params{"name": "Keanu Reeves"}, request.Params)
	})

	t.Run("missing params become an empty map", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		model := llmmocks.NewMockModel(ctrl)
		model.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(`{"cypher":"MATCH (m:Movie) RETURN count(m)"}`, nil)

		request, err := newPipeline(nil, agent.WithModel(model)).Generate(ctx, question, schema)
		require.NoError(t, err)
		assert.NotNil(t, request.Params)
		assert.Empty(t, request.Params)
	})

	t.Run("model failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		model := llmmocks.NewMockModel(ctrl)
		model.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", errors.New("quota exceeded"))

		_, err := newPipeline(nil, agent.WithModel(model)).Generate(ctx, question, schema)
		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("no model", func(t *testing.T) {
		_, err := newPipeline(nil).Generate(ctx, question, schema)
		assert.ErrorIs(t, err, agent.ErrModelNotConfigured)
	})
}

func TestBuildPrompt_EmbedsInputsVerbatim(t *testing.T) {
	question := "How many {nodes} are there?\n%s"
	schema := `{"Person":{"properties":{"name":"STRING"}}}`

	prompt := agent.BuildPrompt(question, schema)
	assert.Contains(t, prompt, "# User query\n"+question+"\n")
	assert.Contains(t, prompt, "# Schema\n"+schema+"\n")
	assert.Contains(t, prompt, `"cypher"`)
	assert.Contains(t, prompt, `"params"`)
}

func TestValidate_SyntaxInvalidStopsAfterOneCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	cyver := newClient(ctrl, "cyver", validationTools...)
	cyver.EXPECT().
		CallTool(gomock.Any(), "validate_cypher_syntax", gomock.Any()).
		Return(mcp.NewToolResultText(syntaxResultInvalid), nil).
		Times(1)

	report, err := newPipeline([]mcpclient.ToolClient{cyver}).Validate(context.Background(), agent.QueryRequest{Cypher: "MATCH (n RETURN n"})
	require.NoError(t, err)

	require.NotNil(t, report.Syntax)
	assert.False(t, report.Syntax.Passed())
	assert.Equal(t, []map[string]any{{"error": "Invalid input 'RETURN'"}}, report.Syntax.Metadata)
	assert.Nil(t, report.Schema)
	assert.Nil(t, report.Properties)
	assert.False(t, report.Valid())
}

func TestValidate_MissingIsValidCountsAsNotPassed(t *testing.T) {
	ctrl := gomock.NewController(t)
	cyver := newClient(ctrl, "cyver", validationTools...)
	cyver.EXPECT().
		CallTool(gomock.Any(), "validate_cypher_syntax", gomock.Any()).
		Return(mcp.NewToolResultText(`{"validation_type":"syntax","query":"RETURN 1"}`), nil).
		Times(1)

	report, err := newPipeline([]mcpclient.ToolClient{cyver}).Validate(context.Background(), agent.QueryRequest{Cypher: "RETURN 1"})
	require.NoError(t, err)
	assert.Nil(t, report.Syntax.IsValid)
	assert.Nil(t, report.Syntax.Score)
	assert.Nil(t, report.Schema)
	assert.Nil(t, report.Properties)
}

func TestValidate_SyntaxValidRunsAllThree(t *testing.T) {
	ctrl := gomock.NewController(t)
	cyver := newClient(ctrl, "cyver", validationTools...)
	gomock.InOrder(
		cyver.EXPECT().
			CallTool(gomock.Any(), "validate_cypher_syntax", gomock.Any()).
			Return(mcp.NewToolResultText(syntaxResultValid), nil),
		cyver.EXPECT().
			CallTool(gomock.Any(), "schema_validator", gomock.Any()).
			Return(mcp.NewToolResultText(schemaResultValid), nil),
		cyver.EXPECT().
			CallTool(gomock.Any(), "validate_cypher_properties", gomock.Any()).
			Return(mcp.NewToolResultText(propsResultInvalid), nil),
	)

	report, err := newPipeline([]mcpclient.ToolClient{cyver}).Validate(context.Background(), agent.QueryRequest{Cypher: "MATCH (n) RETURN n"})
	require.NoError(t, err)

	require.NotNil(t, report.Syntax)
	require.NotNil(t, report.Schema)
	require.NotNil(t, report.Properties)

	assert.Equal(t, "syntax", report.Syntax.ValidationType)
	assert.Equal(t, "MATCH (n) RETURN n", report.Syntax.Query)
	require.NotNil(t, report.Syntax.Score)
	assert.InDelta(t, 1.0, *report.Syntax.Score, 1e-9)

	assert.Equal(t, "schema", report.Schema.ValidationType)
	assert.True(t, report.Schema.Passed())
	assert.False(t, report.Properties.Passed())
	assert.False(t, report.Valid())
}

func TestValidate_FullyValid(t *testing.T) {
	ctrl := gomock.NewController(t)
	cyver := newClient(ctrl, "cyver", validationTools...)
	results := map[string]string{
		"validate_cypher_syntax":     syntaxResultValid,
		"schema_validator":           schemaResultValid,
		"validate_cypher_properties": propsResultValid,
	}
	cyver.EXPECT().
		CallTool(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tool string, _ json.RawMessage) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(results[tool]), nil
		}).
		Times(3)

	report, err := newPipeline([]mcpclient.ToolClient{cyver}).Validate(context.Background(), agent.QueryRequest{Cypher: "MATCH (n) RETURN n"})
	require.NoError(t, err)
	assert.True(t, report.Valid())
}

func TestValidate_EscapesTheStatement(t *testing.T) {
	statement := `MATCH (m:Movie) WHERE m.title = "The \"Matrix\"" AND m.path = 'C:\movies' RETURN m`

	ctrl := gomock.NewController(t)
	cyver := newClient(ctrl, "cyver", validationTools...)
	cyver.EXPECT().
		CallTool(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args json.RawMessage) (*mcp.CallToolResult, error) {
			assert.Equal(t, statement, queryArgument(t, args))
			return mcp.NewToolResultText(syntaxResultValid), nil
		}).
		Times(3)

	_, err := newPipeline([]mcpclient.ToolClient{cyver}).Validate(context.Background(), agent.QueryRequest{Cypher: statement})
	require.NoError(t, err)
}

func TestValidate_Failures(t *testing.T) {
	ctx := context.Background()
	request := agent.QueryRequest{Cypher: "MATCH (n) RETURN n"}

	t.Run("validation client missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		neo := newClient(ctrl, "mcp-neo4j-cypher", "get_neo4j_schema")

		report, err := newPipeline([]mcpclient.ToolClient{neo}).Validate(ctx, request)
		assert.ErrorIs(t, err, mcpclient.ErrToolNotAvailable)
		assert.Nil(t, report)
	})

	t.Run("properties tool missing fails the whole report", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cyver := newClient(ctrl, "cyver", "validate_cypher_syntax", "schema_validator")
		cyver.EXPECT().
			CallTool(gomock.Any(), "validate_cypher_syntax", gomock.Any()).
			Return(mcp.NewToolResultText(syntaxResultValid), nil)
		cyver.EXPECT().
			CallTool(gomock.Any(), "schema_validator", gomock.Any()).
			Return(mcp.NewToolResultText(schemaResultValid), nil)

		report, err := newPipeline([]mcpclient.ToolClient{cyver}).Validate(ctx, request)
		assert.ErrorIs(t, err, mcpclient.ErrToolUnsupported)
		assert.Nil(t, report)
	})

	t.Run("undecodable schema result", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cyver := newClient(ctrl, "cyver", validationTools...)
		cyver.EXPECT().
			CallTool(gomock.Any(), "validate_cypher_syntax", gomock.Any()).
			Return(mcp.NewToolResultText(syntaxResultValid), nil)
		cyver.EXPECT().
			CallTool(gomock.Any(), "schema_validator", gomock.Any()).
			Return(mcp.NewToolResultText("schema looks fine"), nil)

		report, err := newPipeline([]mcpclient.ToolClient{cyver}).Validate(ctx, request)
		assert.ErrorIs(t, err, mcpclient.ErrStructuredPayloadDecodeFailed)
		assert.Nil(t, report)

		var toolErr *mcpclient.ToolError
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, "schema_validator", toolErr.Tool)
	})

	t.Run("syntax tool reports an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cyver := newClient(ctrl, "cyver", validationTools...)
		cyver.EXPECT().
			CallTool(gomock.Any(), "validate_cypher_syntax", gomock.Any()).
			Return(mcp.NewToolResultError("parser unavailable"), nil)

		_, err := newPipeline([]mcpclient.ToolClient{cyver}).Validate(ctx, request)
		assert.ErrorIs(t, err, mcpclient.ErrToolInvocationFailed)
	})
}

type answerFixture struct {
	neo    *mocks.MockToolClient
	cyver  *mocks.MockToolClient
	model  *llmmocks.MockModel
	runner *dbmocks.MockService
}

func newAnswerFixture(t *testing.T, syntaxResult string) *answerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &answerFixture{
		neo:    newClient(ctrl, "mcp-neo4j-cypher", "get_neo4j_schema"),
		cyver:  newClient(ctrl, "cyver", validationTools...),
		model:  llmmocks.NewMockModel(ctrl),
		runner: dbmocks.NewMockService(ctrl),
	}
	f.neo.EXPECT().
		CallTool(gomock.Any(), "get_neo4j_schema", gomock.Any()).
		Return(mcp.NewToolResultText(`{"Movie":{"type":"node"}}`), nil)
	f.model.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(`{"cypher":"MATCH (m:Movie) RETURN count(m) AS movies","params":{}}`, nil)

	results := map[string]string{
		"validate_cypher_syntax":     syntaxResult,
		"schema_validator":           schemaResultValid,
		"validate_cypher_properties": propsResultValid,
	}
	f.cyver.EXPECT().
		CallTool(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tool string, _ json.RawMessage) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(results[tool]), nil
		}).
		AnyTimes()
	return f
}

func (f *answerFixture) pipeline(withRunner bool) *agent.Pipeline {
	opts := []agent.Option{agent.WithModel(f.model)}
	if withRunner {
		opts = append(opts, agent.WithQueryRunner(f.runner))
	}
	return newPipeline([]mcpclient.ToolClient{f.neo, f.cyver}, opts...)
}

func TestAnswer(t *testing.T) {
	ctx := context.Background()
	const cypher = "MATCH (m:Movie) RETURN count(m) AS movies"

	t.Run("executes a valid read-only statement", func(t *testing.T) {
		f := newAnswerFixture(t, syntaxResultValid)
		records := []*neo4j.Record{{Keys: []string{"movies"}, Values: []any{int64(38)}}}
		f.runner.EXPECT().GetQueryType(gomock.Any(), cypher, gomock.Any()).Return(neo4j.StatementTypeReadOnly, nil)
		f.runner.EXPECT().ExecuteReadQuery(gomock.Any(), cypher, gomock.Any()).Return(records, nil)
		f.runner.EXPECT().Neo4jRecordsToJSON(records).Return(`[{"movies":38}]`, nil)

		answer, err := f.pipeline(true).Answer(ctx, "How many movies are there?")
		require.NoError(t, err)
		assert.True(t, answer.Executed)
		assert.Empty(t, answer.SkippedReason)
		assert.Equal(t, `[{"movies":38}]`, answer.RecordsJSON)
		assert.Equal(t, "How many movies are there?", answer.Question)
		assert.Equal(t, cypher, answer.Request.Cypher)
		assert.True(t, answer.Report.Valid())
		assert.NotEmpty(t, answer.RequestID)
	})

	t.Run("does not execute a write statement", func(t *testing.T) {
		f := newAnswerFixture(t, syntaxResultValid)
		f.runner.EXPECT().GetQueryType(gomock.Any(), cypher, gomock.Any()).Return(neo4j.StatementTypeWriteOnly, nil)

		answer, err := f.pipeline(true).Answer(ctx, "How many movies are there?")
		require.NoError(t, err)
		assert.False(t, answer.Executed)
		assert.Equal(t, agent.SkipNotReadOnly, answer.SkippedReason)
	})

	t.Run("skips an invalid statement", func(t *testing.T) {
		f := newAnswerFixture(t, syntaxResultInvalid)

		answer, err := f.pipeline(true).Answer(ctx, "How many movies are there?")
		require.NoError(t, err)
		assert.False(t, answer.Executed)
		assert.Equal(t, agent.SkipNotValid, answer.SkippedReason)
		assert.Nil(t, answer.Report.Schema)
	})

	t.Run("skips without a runner", func(t *testing.T) {
		f := newAnswerFixture(t, syntaxResultValid)

		answer, err := f.pipeline(false).Answer(ctx, "How many movies are there?")
		require.NoError(t, err)
		assert.False(t, answer.Executed)
		assert.Equal(t, agent.SkipNoExecution, answer.SkippedReason)
	})

	t.Run("classification failure", func(t *testing.T) {
		f := newAnswerFixture(t, syntaxResultValid)
		f.runner.EXPECT().GetQueryType(gomock.Any(), cypher, gomock.Any()).
			Return(neo4j.StatementTypeUnknown, errors.New("Neo.ClientError.Statement.SyntaxError"))

		_, err := f.pipeline(true).Answer(ctx, "How many movies are there?")
		assert.ErrorContains(t, err, "classifying statement")
	})
}
