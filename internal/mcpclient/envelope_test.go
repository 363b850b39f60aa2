package mcpclient_test

import (
	"encoding/json"
	"testing"

	"github.com/neo4j/cypher-agent/internal/mcpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeOf(t *testing.T, texts ...string) string {
	t.Helper()
	elements := make([]map[string]any, 0, len(texts))
	for _, text := range texts {
		elements = append(elements, map[string]any{"type": "text", "text": text})
	}
	raw, err := json.Marshal(elements)
	require.NoError(t, err)
	return string(raw)
}

func TestUnwrap_ReturnsTextVerbatim(t *testing.T) {
	texts := []string{
		"",
		"plain schema text",
		`{"Person":{"type":"node","properties":{"name":{"type":"STRING"}}}}`,
		"line one\nline two\t\"quoted\" \\ backslash",
		"unicode: Łódź ☃ 日本",
		"   leading and trailing whitespace   ",
	}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			got, err := mcpclient.Unwrap(envelopeOf(t, text))
			require.NoError(t, err)
			assert.Equal(t, text, got)
		})
	}
}

func TestUnwrap_TakesFirstElement(t *testing.T) {
	got, err := mcpclient.Unwrap(envelopeOf(t, "first", "second"))
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestUnwrap_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "empty array", raw: `[]`, want: mcpclient.ErrEmptyToolResponse},
		{name: "empty array with whitespace", raw: " [ ] ", want: mcpclient.ErrEmptyToolResponse},
		{name: "object instead of array", raw: `{"text":"x"}`, want: mcpclient.ErrMalformedToolResponse},
		{name: "string instead of array", raw: `"x"`, want: mcpclient.ErrMalformedToolResponse},
		{name: "null", raw: `null`, want: mcpclient.ErrMalformedToolResponse},
		{name: "not json", raw: `schema here`, want: mcpclient.ErrMalformedToolResponse},
		{name: "empty input", raw: ``, want: mcpclient.ErrMalformedToolResponse},
		{name: "array of numbers", raw: `[1,2]`, want: mcpclient.ErrMalformedToolResponse},
		{name: "array with null element", raw: `[null]`, want: mcpclient.ErrMalformedToolResponse},
		{name: "truncated array", raw: `[{"text":"x"}`, want: mcpclient.ErrMalformedToolResponse},
		{name: "element without text", raw: `[{"type":"image","data":"..."}]`, want: mcpclient.ErrMissingTextField},
		{name: "text is a number", raw: `[{"text":42}]`, want: mcpclient.ErrMissingTextField},
		{name: "text is null", raw: `[{"text":null}]`, want: mcpclient.ErrMissingTextField},
		{name: "text is an object", raw: `[{"text":{"a":1}}]`, want: mcpclient.ErrMissingTextField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mcpclient.Unwrap(tt.raw)
			assert.Empty(t, got)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.want, mcpclient.KindOf(err))
		})
	}
}

type checkResult struct {
	ValidationType string           `json:"validation_type"`
	Query          string           `json:"query"`
	IsValid        *bool            `json:"is_valid"`
	Score          *float64         `json:"score"`
	Metadata       []map[string]any `json:"metadata"`
}

func TestUnwrapInto(t *testing.T) {
	t.Run("decodes payload and ignores unknown fields", func(t *testing.T) {
		payload := `{"validation_type":"syntax","query":"MATCH (n) RETURN n","is_valid":true,"score":1.0,"metadata":[],"engine":"antlr","elapsed_ms":3}`

		var got checkResult
		require.NoError(t, mcpclient.UnwrapInto(envelopeOf(t, payload), &got))

		assert.Equal(t, "syntax", got.ValidationType)
		assert.Equal(t, "MATCH (n) RETURN n", got.Query)
		require.NotNil(t, got.IsValid)
		assert.True(t, *got.IsValid)
		require.NotNil(t, got.Score)
		assert.InDelta(t, 1.0, *got.Score, 1e-9)
		assert.Empty(t, got.Metadata)
	})

	t.Run("payload that is not json", func(t *testing.T) {
		var got checkResult
		err := mcpclient.UnwrapInto(envelopeOf(t, "Syntax OK"), &got)
		assert.ErrorIs(t, err, mcpclient.ErrStructuredPayloadDecodeFailed)
	})

	t.Run("envelope errors pass through", func(t *testing.T) {
		var got checkResult
		err := mcpclient.UnwrapInto(`[]`, &got)
		assert.ErrorIs(t, err, mcpclient.ErrEmptyToolResponse)
	})
}

func TestEncodeArguments(t *testing.T) {
	t.Run("cypher with quotes and backslashes round-trips", func(t *testing.T) {
		statements := []string{
			`MATCH (p:Person {name: "O'Neil"}) RETURN p`,
			`MATCH (n) WHERE n.path = "C:\\data\\graph" RETURN n`,
			`RETURN "a \"nested\" quote", '\\', "\n"`,
			`MATCH (n) WHERE n.age > 3 AND n.score < 5 RETURN n & <tag>`,
			`"}, "injected": "value`,
		}
		for _, stmt := range statements {
			encoded, err := mcpclient.EncodeArguments(map[string]string{"query": stmt})
			require.NoError(t, err)

			var decoded map[string]string
			require.NoError(t, json.Unmarshal([]byte(encoded), &decoded))
			assert.Equal(t, map[string]string{"query": stmt}, decoded)
		}
	})

	t.Run("nil encodes as empty object", func(t *testing.T) {
		encoded, err := mcpclient.EncodeArguments(nil)
		require.NoError(t, err)
		assert.Equal(t, "{}", encoded)
	})

	t.Run("struct arguments", func(t *testing.T) {
		encoded, err := mcpclient.EncodeArguments(struct {
			Query string `json:"query"`
		}{Query: "RETURN 1"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"query":"RETURN 1"}`, encoded)
	})

	t.Run("non-object arguments are rejected", func(t *testing.T) {
		_, err := mcpclient.EncodeArguments([]string{"MATCH (n) RETURN n"})
		assert.Error(t, err)
	})
}
