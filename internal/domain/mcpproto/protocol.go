package mcpproto

import (
	"context"
	"encoding/json"
	"strconv"

	"dynmcp/internal/domain/xds"
	"dynmcp/internal/infrastructure/metrics"
	"dynmcp/internal/infrastructure/outbound"
)

// Requestx carries per-request context into handlers.
type Requestx struct {
	Cache *xds.McpCache
	IDSID string
}

// Responsex is the metadata a handler attaches to its response: the intended
// HTTP status, the session id minted for initialize on stateful transports,
// and the echoed protocol method.
type Responsex struct {
	HTTPStatus int
	SessionID  string
	Method     string
}

func DefaultResponsex() Responsex {
	return Responsex{HTTPStatus: 200}
}

func AcceptedResponsex() Responsex {
	return Responsex{HTTPStatus: 202}
}

// Handler is one protocol method implementation. Cast deserializes the raw
// JSON-RPC envelope into the handler's request type; Call runs the business
// logic. The dispatcher never sees handler-specific types.
type Handler interface {
	Cast(raw json.RawMessage) (any, error)
	Call(ctx context.Context, req any, reqx *Requestx) (any, Responsex, error)
}

// Result is the outcome of a successful dispatch.
type Result struct {
	Response any
	Respx    Responsex
}

// Registry maps protocol method names to handlers. It is populated once at
// construction and read-only afterwards.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry(http *outbound.Client) *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.handlers[MethodInitialize] = &initializeHandler{}
	r.handlers[MethodNotificationsInitialized] = &initializedHandler{}
	r.handlers[MethodToolsList] = &listToolsHandler{}
	r.handlers[MethodToolsCall] = &callToolHandler{http: http}
	return r
}

// Execute dispatches one raw JSON-RPC envelope through the registry.
func (r *Registry) Execute(ctx context.Context, raw json.RawMessage, reqx *Requestx) (*Result, *DynExecuteError) {
	var probe struct {
		Method *string `json:"method"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Method == nil || *probe.Method == "" {
		metrics.RequestsTotal.WithLabelValues("unknown", "400").Inc()
		return nil, ErrMissingMethod()
	}
	method := *probe.Method

	handler, ok := r.handlers[method]
	if !ok {
		metrics.RequestsTotal.WithLabelValues(method, "404").Inc()
		return nil, ErrUnsupportedMethod(method)
	}

	req, err := handler.Cast(raw)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "400").Inc()
		return nil, ErrInvalidRequest(err)
	}

	response, respx, err := handler.Call(ctx, req, reqx)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "500").Inc()
		return nil, ErrExecution(err)
	}
	respx.Method = method
	metrics.RequestsTotal.WithLabelValues(method, strconv.Itoa(respx.HTTPStatus)).Inc()
	return &Result{Response: response, Respx: respx}, nil
}

// Supports reports whether a handler is registered for the method.
func (r *Registry) Supports(method string) bool {
	_, ok := r.handlers[method]
	return ok
}
