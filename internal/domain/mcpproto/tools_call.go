package mcpproto

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"dynmcp/internal/infrastructure/metrics"
	"dynmcp/internal/infrastructure/outbound"
)

type ToolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type ToolCallRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int64          `json:"id"`
	Method  string         `json:"method"`
	Params  ToolCallParams `json:"params"`
}

type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ToolCallResult struct {
	IsError bool          `json:"isError"`
	Content []ToolContent `json:"content"`
}

type ToolCallResponse struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int64          `json:"id"`
	Result  ToolCallResult `json:"result"`
}

// callToolHandler translates an MCP tool invocation into an outbound REST
// call: it resolves the TDS by name, validates the required parameters against
// the path and query argument objects, renders the URL from the path template
// and invokes the shared outbound client. The remote body is returned verbatim
// as text content; non-2xx statuses set isError without failing the dispatch.
type callToolHandler struct {
	http *outbound.Client
}

func (h *callToolHandler) Cast(raw json.RawMessage) (any, error) {
	var req ToolCallRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *callToolHandler) Call(ctx context.Context, req any, reqx *Requestx) (any, Responsex, error) {
	r := req.(*ToolCallRequest)

	// 1. find tds by name
	tds, ok := reqx.Cache.GetTDSByName(r.Params.Name)
	if !ok {
		return nil, Responsex{}, fmt.Errorf("TDS not found for name: %s", r.Params.Name)
	}
	ext := tds.Ext

	// 2. build request url
	pathArgs, err := extractRequiredArgs(ext.RequiredParams, r.Params.Arguments["path"])
	if err != nil {
		return nil, Responsex{}, err
	}
	queryArgs, err := extractRequiredArgs(ext.RequiredParams, r.Params.Arguments["query"])
	if err != nil {
		return nil, Responsex{}, err
	}
	url := ext.Domain + buildURIFromPattern(ext.Path, pathArgs, queryArgs)

	// 3. call API
	body := r.Params.Arguments["body"]
	log.Debug().
		Str("tool", r.Params.Name).
		Str("method", ext.Method).
		Str("url", url).
		Msg("tools/call outbound request")

	start := time.Now()
	status, respBody, err := h.http.Request(ctx, ext.Method, url, nil, body)
	metrics.ToolCallDuration.WithLabelValues(r.Params.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues(r.Params.Name, "error").Inc()
		return nil, Responsex{}, fmt.Errorf("tool call %s failed: %w", r.Params.Name, err)
	}
	isError := status < 200 || status > 299
	if isError {
		metrics.ToolCallsTotal.WithLabelValues(r.Params.Name, "upstream_error").Inc()
	} else {
		metrics.ToolCallsTotal.WithLabelValues(r.Params.Name, "ok").Inc()
	}
	log.Debug().Int("status", status).Str("tool", r.Params.Name).Msg("tools/call outbound response")

	// 4. tool call result
	resp := ToolCallResponse{
		JSONRPC: r.JSONRPC,
		ID:      r.ID,
		Result: ToolCallResult{
			IsError: isError,
			Content: []ToolContent{{Type: "text", Text: respBody}},
		},
	}
	return resp, DefaultResponsex(), nil
}

// extractRequiredArgs checks that every required parameter is present in the
// given argument object and returns the extracted values.
func extractRequiredArgs(required map[string]any, args any) (map[string]any, error) {
	if args == nil {
		return nil, fmt.Errorf("missing arguments")
	}
	argsMap, ok := args.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object for arguments")
	}
	extracted := make(map[string]any, len(required))
	for key := range required {
		value, ok := argsMap[key]
		if !ok {
			return nil, fmt.Errorf("missing required parameter: %s", key)
		}
		extracted[key] = value
	}
	return extracted, nil
}

// buildURIFromPattern substitutes {name} placeholders from pathArgs and
// appends the query string. Placeholders without a matching argument are left
// literal; an empty query map produces no trailing '?'. Values are joined
// as-is, without percent-encoding.
func buildURIFromPattern(pattern string, pathArgs, queryArgs map[string]any) string {
	uri := pattern
	for key, value := range pathArgs {
		uri = strings.ReplaceAll(uri, "{"+key+"}", stringValue(value))
	}
	if len(queryArgs) == 0 {
		return uri
	}
	keys := make([]string, 0, len(queryArgs))
	for key := range queryArgs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+stringValue(queryArgs[key]))
	}
	return uri + "?" + strings.Join(parts, "&")
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
