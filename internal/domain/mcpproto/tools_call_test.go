package mcpproto

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynmcp/internal/domain/xds"
)

func TestBuildURIFromPattern(t *testing.T) {
	uri := buildURIFromPattern("/v1/items/{iid}",
		map[string]any{"iid": "42"},
		map[string]any{"iid": "42"})
	assert.Equal(t, "/v1/items/42?iid=42", uri)
}

func TestBuildURIFromPatternUnmatchedPlaceholder(t *testing.T) {
	uri := buildURIFromPattern("/v1/items/{iid}/sub/{other}",
		map[string]any{"iid": "42"},
		nil)
	assert.Equal(t, "/v1/items/42/sub/{other}", uri)
}

func TestBuildURIFromPatternEmptyQuery(t *testing.T) {
	uri := buildURIFromPattern("/v1/items", nil, map[string]any{})
	assert.Equal(t, "/v1/items", uri)
}

func TestBuildURIFromPatternMultipleQueryArgs(t *testing.T) {
	uri := buildURIFromPattern("/v1/items", nil,
		map[string]any{"b": "2", "a": "1"})
	assert.Equal(t, "/v1/items?a=1&b=2", uri)
}

func TestExtractRequiredArgs(t *testing.T) {
	required := map[string]any{"iid": map[string]any{"type": "string"}}

	_, err := extractRequiredArgs(required, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing arguments")

	_, err = extractRequiredArgs(required, "not an object")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected object")

	_, err = extractRequiredArgs(required, map[string]any{"other": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required parameter: iid")

	got, err := extractRequiredArgs(required, map[string]any{"iid": "42", "extra": "y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"iid": "42"}, got)
}

func callToolRaw(t *testing.T, id int64, name string, args map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	require.NoError(t, err)
	return raw
}

func TestToolCallSuccess(t *testing.T) {
	var gotPath string
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		fmt.Fprint(w, "ok")
	}))
	defer stub.Close()

	cache := xds.NewMcpCache()
	cache.InsertTDS("T3", xds.TDS{
		ID:   "T3",
		Name: "echo",
		Ext: xds.TDSExt{
			Domain:         stub.URL,
			Method:         "GET",
			Path:           "/v1/items/{iid}",
			RequiredParams: map[string]any{"iid": map[string]any{"type": "string"}},
		},
	})

	registry := newTestRegistry()
	raw := callToolRaw(t, 3, "echo", map[string]any{
		"path":  map[string]any{"iid": "42"},
		"query": map[string]any{"iid": "42"},
	})

	result, dynErr := registry.Execute(context.Background(), raw, newTestRequestx(cache))
	require.Nil(t, dynErr)
	assert.Equal(t, "/v1/items/42?iid=42", gotPath)

	resp, ok := result.Response.(ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.False(t, resp.Result.IsError)
	require.Len(t, resp.Result.Content, 1)
	assert.Equal(t, "text", resp.Result.Content[0].Type)
	assert.Equal(t, "ok", resp.Result.Content[0].Text)
}

func TestToolCallUpstreamErrorStatus(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "boom")
	}))
	defer stub.Close()

	cache := xds.NewMcpCache()
	cache.InsertTDS("T1", xds.TDS{
		ID:   "T1",
		Name: "flaky",
		Ext:  xds.TDSExt{Domain: stub.URL, Method: "GET", Path: "/x"},
	})

	registry := newTestRegistry()
	raw := callToolRaw(t, 1, "flaky", map[string]any{
		"path":  map[string]any{},
		"query": map[string]any{},
	})

	result, dynErr := registry.Execute(context.Background(), raw, newTestRequestx(cache))
	require.Nil(t, dynErr)

	resp := result.Response.(ToolCallResponse)
	assert.True(t, resp.Result.IsError)
	assert.Equal(t, "boom", resp.Result.Content[0].Text)
}

func TestToolCallForwardsJSONBody(t *testing.T) {
	var gotContentType string
	var gotBody map[string]any
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, "created")
	}))
	defer stub.Close()

	cache := xds.NewMcpCache()
	cache.InsertTDS("T1", xds.TDS{
		ID:   "T1",
		Name: "create",
		Ext:  xds.TDSExt{Domain: stub.URL, Method: "POST", Path: "/v1/items"},
	})

	registry := newTestRegistry()
	raw := callToolRaw(t, 9, "create", map[string]any{
		"path":  map[string]any{},
		"query": map[string]any{},
		"body":  map[string]any{"title": "hello"},
	})

	result, dynErr := registry.Execute(context.Background(), raw, newTestRequestx(cache))
	require.Nil(t, dynErr)
	assert.Contains(t, gotContentType, "application/json")
	assert.Equal(t, map[string]any{"title": "hello"}, gotBody)
	assert.False(t, result.Response.(ToolCallResponse).Result.IsError)
}

func TestToolCallUnknownTool(t *testing.T) {
	registry := newTestRegistry()
	raw := callToolRaw(t, 1, "ghost", map[string]any{
		"path":  map[string]any{},
		"query": map[string]any{},
	})

	_, dynErr := registry.Execute(context.Background(), raw, newTestRequestx(xds.NewMcpCache()))
	require.NotNil(t, dynErr)
	assert.Equal(t, KindExecutionError, dynErr.Kind)
	assert.Equal(t, 500, dynErr.Status())
	assert.Contains(t, dynErr.Error(), "TDS not found for name: ghost")
}

func TestToolCallMissingRequiredQueryParam(t *testing.T) {
	cache := xds.NewMcpCache()
	cache.InsertTDS("T1", xds.TDS{
		ID:   "T1",
		Name: "strict",
		Ext: xds.TDSExt{
			Domain:         "http://unused",
			Method:         "GET",
			Path:           "/v1/items/{iid}",
			RequiredParams: map[string]any{"iid": map[string]any{"type": "string"}},
		},
	})

	registry := newTestRegistry()
	// required key present in path but absent from query
	raw := callToolRaw(t, 1, "strict", map[string]any{
		"path":  map[string]any{"iid": "42"},
		"query": map[string]any{},
	})

	_, dynErr := registry.Execute(context.Background(), raw, newTestRequestx(cache))
	require.NotNil(t, dynErr)
	assert.Equal(t, KindExecutionError, dynErr.Kind)
	assert.Contains(t, dynErr.Error(), "missing required parameter: iid")
}
