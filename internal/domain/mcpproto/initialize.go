package mcpproto

import (
	"context"
	"encoding/json"
)

type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ClientCapabilities struct {
	Resources map[string]any `json:"resources"`
	Tools     map[string]any `json:"tools"`
	Prompts   map[string]any `json:"prompts"`
}

type InitializeParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      ClientInfo         `json:"clientInfo"`
}

type InitializeRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      int64            `json:"id"`
	Method  string           `json:"method"`
	Params  InitializeParams `json:"params"`
}

type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

type ServerCapabilities struct {
	Tools   *ToolsCapability `json:"tools"`
	Logging map[string]any   `json:"logging"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

type InitializeResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      int64            `json:"id"`
	Result  InitializeResult `json:"result"`
}

// initializeHandler echoes the client's protocol version and advertises the
// fixed server identity. It has no side effects on the cache; session minting
// for stateful transports happens in the transport adapter.
type initializeHandler struct{}

func (h *initializeHandler) Cast(raw json.RawMessage) (any, error) {
	var req InitializeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *initializeHandler) Call(_ context.Context, req any, _ *Requestx) (any, Responsex, error) {
	r := req.(*InitializeRequest)
	resp := InitializeResponse{
		JSONRPC: JSONRPCVersion,
		ID:      r.ID,
		Result: InitializeResult{
			ProtocolVersion: r.Params.ProtocolVersion,
			Capabilities: ServerCapabilities{
				Tools:   &ToolsCapability{ListChanged: false},
				Logging: map[string]any{},
			},
			ServerInfo: ServerInfo{
				Name:    ServerName,
				Version: ServerVersion,
			},
		},
	}
	return resp, DefaultResponsex(), nil
}
