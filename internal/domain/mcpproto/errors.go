package mcpproto

import (
	"fmt"
	"net/http"
)

// Kind classifies a dispatch failure and maps it to an HTTP status.
type Kind int

const (
	KindIdsNotFound Kind = iota
	KindMissingMcpSessionId
	KindMissingMethod
	KindUnsupportedMethod
	KindInvalidRequest
	KindExecutionError
)

// DynExecuteError is the typed error surface of the dispatcher. Handlers
// return plain errors; the dispatcher wraps them as ExecutionError and the
// transport adapter translates kinds into the HTTP error envelope.
type DynExecuteError struct {
	Kind  Kind
	Cause error

	method string
}

func (e *DynExecuteError) Error() string {
	switch e.Kind {
	case KindIdsNotFound:
		return "IDS not found"
	case KindMissingMcpSessionId:
		return "missing 'Mcp-Session-Id' field in headers"
	case KindMissingMethod:
		return "missing 'method' field in request"
	case KindUnsupportedMethod:
		return fmt.Sprintf("unsupported method: %s", e.method)
	case KindInvalidRequest:
		return "invalid request format"
	case KindExecutionError:
		return fmt.Sprintf("execution error: %v", e.Cause)
	}
	return "unknown error"
}

func (e *DynExecuteError) Unwrap() error { return e.Cause }

// Status maps the error kind to its HTTP status.
func (e *DynExecuteError) Status() int {
	switch e.Kind {
	case KindIdsNotFound, KindMissingMcpSessionId, KindUnsupportedMethod:
		return http.StatusNotFound
	case KindMissingMethod, KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func ErrIdsNotFound() *DynExecuteError {
	return &DynExecuteError{Kind: KindIdsNotFound}
}

func ErrMissingMcpSessionId() *DynExecuteError {
	return &DynExecuteError{Kind: KindMissingMcpSessionId}
}

func ErrMissingMethod() *DynExecuteError {
	return &DynExecuteError{Kind: KindMissingMethod}
}

func ErrUnsupportedMethod(method string) *DynExecuteError {
	return &DynExecuteError{Kind: KindUnsupportedMethod, method: method}
}

func ErrInvalidRequest(cause error) *DynExecuteError {
	return &DynExecuteError{Kind: KindInvalidRequest, Cause: cause}
}

func ErrExecution(cause error) *DynExecuteError {
	return &DynExecuteError{Kind: KindExecutionError, Cause: cause}
}
