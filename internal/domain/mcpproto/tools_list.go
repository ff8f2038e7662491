package mcpproto

import (
	"context"
	"encoding/json"

	"dynmcp/internal/domain/xds"
)

type ListToolsRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
}

// Tool is the MCP-facing materialization of a TDS record.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

type ListToolsResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  ListToolsResult `json:"result"`
}

func toolFromTDS(t xds.TDS) Tool {
	return Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
	}
}

// listToolsHandler returns the TDS records referenced by the request's IDS, in
// tool_ids order, silently dropping unresolved ids.
type listToolsHandler struct{}

func (h *listToolsHandler) Cast(raw json.RawMessage) (any, error) {
	var req ListToolsRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *listToolsHandler) Call(_ context.Context, req any, reqx *Requestx) (any, Responsex, error) {
	r := req.(*ListToolsRequest)

	records := reqx.Cache.ListTDSForIDS(reqx.IDSID)
	tools := make([]Tool, 0, len(records))
	for _, t := range records {
		tools = append(tools, toolFromTDS(t))
	}

	resp := ListToolsResponse{
		JSONRPC: JSONRPCVersion,
		ID:      r.ID,
		Result:  ListToolsResult{Tools: tools},
	}
	return resp, DefaultResponsex(), nil
}
