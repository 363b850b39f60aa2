package analytics_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/neo4j/cypher-agent/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockHTTPClient struct {
	PostFunc func(url, contentType string, body io.Reader) (*http.Response, error)
}

func (m *MockHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	if m.PostFunc != nil {
		return m.PostFunc(url, contentType, body)
	}
	return nil, nil
}

func okResponse() *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("1")),
	}
}

func TestAnalytics(t *testing.T) {
	t.Run("EmitEvent should send event if enabled", func(t *testing.T) {
		var sent []map[string]any
		mockClient := &MockHTTPClient{
			PostFunc: func(url, contentType string, body io.Reader) (*http.Response, error) {
				assert.Equal(t, "http://localhost/track", url)
				assert.Contains(t, contentType, "application/json")
				require.NoError(t, json.NewDecoder(body).Decode(&sent))
				return okResponse(), nil
			},
		}

		service, err := analytics.New("test_token", "http://localhost/", mockClient, nil)
		require.NoError(t, err)
		assert.True(t, service.Enabled())

		service.EmitEvent(service.NewToolsEvent("validate-cypher"))

		require.Len(t, sent, 1)
		assert.Equal(t, "CYPHER_AGENT_TOOL_USED", sent[0]["event"])
		props, ok := sent[0]["properties"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "test_token", props["token"])
		assert.Equal(t, "validate-cypher", props["tools_used"])
		assert.NotEmpty(t, props["distinct_id"])
		assert.NotEmpty(t, props["$insert_id"])
	})

	t.Run("disabled service never posts", func(t *testing.T) {
		service := analytics.Disabled()
		assert.False(t, service.Enabled())
		service.EmitEvent(service.NewStartupEvent("ask"))
	})

	t.Run("send failures are swallowed", func(t *testing.T) {
		calls := 0
		mockClient := &MockHTTPClient{
			PostFunc: func(string, string, io.Reader) (*http.Response, error) {
				calls++
				if calls == 1 {
					return nil, errors.New("dial tcp: connection refused")
				}
				return &http.Response{
					StatusCode: http.StatusBadRequest,
					Body:       io.NopCloser(strings.NewReader("bad token")),
				}, nil
			},
		}
		service, err := analytics.New("test_token", "http://localhost", mockClient, nil)
		require.NoError(t, err)

		assert.NotPanics(t, func() {
			service.EmitEvent(service.NewStartupEvent("serve"))
			service.EmitEvent(service.NewStartupEvent("serve"))
		})
		assert.Equal(t, 2, calls)
	})
}

func TestEvents(t *testing.T) {
	service, err := analytics.New("tok", "http://localhost", &MockHTTPClient{}, nil)
	require.NoError(t, err)

	t.Run("insert ids are unique", func(t *testing.T) {
		first := encodeProperties(t, service.NewStartupEvent("ask"))
		second := encodeProperties(t, service.NewStartupEvent("ask"))
		assert.Equal(t, first["distinct_id"], second["distinct_id"])
		assert.NotEqual(t, first["$insert_id"], second["$insert_id"])
		assert.Equal(t, "ask", first["command"])
	})

	t.Run("os info detects aura", func(t *testing.T) {
		aura := encodeProperties(t, service.NewOSInfoEvent("neo4j+s://abcd1234.databases.neo4j.io"))
		local := encodeProperties(t, service.NewOSInfoEvent("bolt://localhost:7687"))
		assert.Equal(t, true, aura["aura"])
		assert.Equal(t, false, local["aura"])
		assert.NotEmpty(t, local["os"])
	})

	t.Run("validation outcome", func(t *testing.T) {
		event := service.NewValidationEvent(false, 1)
		assert.Equal(t, "CYPHER_AGENT_VALIDATION", event.Event)
		props := encodeProperties(t, event)
		assert.Equal(t, false, props["valid"])
		assert.InDelta(t, 1, props["checks_run"], 0)
	})
}

func encodeProperties(t *testing.T, event analytics.TrackEvent) map[string]any {
	t.Helper()
	b, err := json.Marshal(event.Properties)
	require.NoError(t, err)
	var props map[string]any
	require.NoError(t, json.Unmarshal(b, &props))
	return props
}
