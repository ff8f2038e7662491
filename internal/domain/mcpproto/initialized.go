package mcpproto

import (
	"context"
	"encoding/json"
)

type NotificationsInitializedRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
}

// initializedHandler acknowledges the client's initialized notification with
// an empty body and HTTP 202.
type initializedHandler struct{}

func (h *initializedHandler) Cast(raw json.RawMessage) (any, error) {
	var req NotificationsInitializedRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *initializedHandler) Call(_ context.Context, _ any, _ *Requestx) (any, Responsex, error) {
	return nil, AcceptedResponsex(), nil
}
