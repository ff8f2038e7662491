package mcp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"dynmcp/internal/domain/broadcast"
	"dynmcp/internal/domain/mcpproto"
	"dynmcp/internal/domain/session"
	"dynmcp/internal/domain/xds"
	"dynmcp/internal/interfaces/httpserver/middlewares"
	"dynmcp/internal/interfaces/httpserver/responses"
)

const (
	headerSessionID       = "Mcp-Session-Id"
	headerProtocolVersion = "Mcp-Protocol-Version"
	headerProtocolMethod  = "Dynmcp-Protocol-Method"
	headerProtocolType    = "Dynmcp-Protocol-Type"
)

var heartbeatInterval = 10 * time.Second

// MCPRoute is the MCP transport adapter: it decodes the JSON-RPC envelope,
// dispatches through the protocol registry and packages the reply per the
// IDS's declared transport variant.
type MCPRoute struct {
	cache    *xds.McpCache
	registry *mcpproto.Registry
	sessions *session.Manager
	bus      *broadcast.Bus
}

func NewMCPRoute(
	cache *xds.McpCache,
	registry *mcpproto.Registry,
	sessions *session.Manager,
	bus *broadcast.Bus,
) *MCPRoute {
	return &MCPRoute{
		cache:    cache,
		registry: registry,
		sessions: sessions,
		bus:      bus,
	}
}

func (route *MCPRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/mcp/:ids_id", route.handlePost)
	router.GET("/mcp/:ids_id", route.handleStream)
}

func (route *MCPRoute) handlePost(c *gin.Context) {
	idsID := c.Param("ids_id")

	ids, ok := route.cache.GetIDS(idsID)
	if !ok {
		dynErr := mcpproto.ErrIdsNotFound()
		responses.Error(c, dynErr.Status(), dynErr)
		return
	}

	metadata, err := ids.ParseMetadata()
	if err != nil {
		responses.Internal(c, err)
		return
	}
	protoType := metadata.ProtoType

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		responses.BadRequest(c, err)
		return
	}

	reqx := &mcpproto.Requestx{Cache: route.cache, IDSID: idsID}
	result, dynErr := route.registry.Execute(c.Request.Context(), body, reqx)
	if dynErr != nil {
		responses.Error(c, dynErr.Status(), dynErr)
		return
	}

	inboundSession := c.GetHeader(headerSessionID)
	if result.Respx.Method != mcpproto.MethodInitialize &&
		protoType == xds.ProtoStreamableStateless && inboundSession == "" {
		dynErr := mcpproto.ErrMissingMcpSessionId()
		responses.Error(c, dynErr.Status(), dynErr)
		return
	}

	if result.Respx.Method == mcpproto.MethodInitialize &&
		protoType == xds.ProtoStreamableStateful {
		result.Respx.SessionID = uuid.NewString()
		route.sessions.Put(result.Respx.SessionID, session.Session{IDSID: idsID})
	} else if inboundSession != "" {
		route.sessions.Get(inboundSession)
	}

	sessionValue := result.Respx.SessionID
	if sessionValue == "" {
		sessionValue = inboundSession
	}

	// gin's c.Header drops empty values; Mcp-Session-Id is always set, even blank.
	c.Writer.Header().Set(headerSessionID, sessionValue)
	c.Header(headerProtocolVersion, mcpproto.HeaderProtocolVersion)
	c.Header(headerProtocolMethod, result.Respx.Method)
	c.Header(headerProtocolType, protoType)

	if protoType == xds.ProtoStreamableStateless {
		if result.Response == nil {
			c.Status(result.Respx.HTTPStatus)
			return
		}
		c.JSON(result.Respx.HTTPStatus, result.Response)
		return
	}
	route.onceSSE(c, result.Response)
}

// onceSSE emits exactly one SSE data frame containing the JSON-RPC response,
// then closes.
func (route *MCPRoute) onceSSE(c *gin.Context, data any) {
	flusher, ok := middlewares.PrepareSSE(c)
	if !ok {
		responses.Internal(c, fmt.Errorf("streaming unsupported by writer"))
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte("null")
	}
	c.Status(http.StatusOK)
	fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
	flusher.Flush()
}

// handleStream serves the long-lived SSE channel for server-initiated
// notifications, filtered by the URL's IDS id and merged with a heartbeat.
func (route *MCPRoute) handleStream(c *gin.Context) {
	idsID := c.Param("ids_id")

	flusher, ok := middlewares.PrepareSSE(c)
	if !ok {
		responses.Internal(c, fmt.Errorf("streaming unsupported by writer"))
		return
	}
	c.Status(http.StatusOK)
	flusher.Flush()

	sub := route.bus.Subscribe()
	defer sub.Close()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sub.C:
			if n := sub.Dropped(); n > 0 {
				log.Error().Str("ids_id", idsID).Int64("missed", n).Msg("subscriber lagged, broadcast messages missed")
			}
			if msg.IDSID != idsID {
				continue
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", msg.Message)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, "event: ping\ndata: keep-alive\n\n")
			flusher.Flush()
		}
	}
}
