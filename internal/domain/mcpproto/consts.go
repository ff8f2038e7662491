package mcpproto

// Protocol constants advertised by the gateway.
const (
	JSONRPCVersion = "2.0"
	ServerName     = "mcprust"
	ServerVersion  = "1.0.0"

	// HeaderProtocolVersion is the fixed value of the Mcp-Protocol-Version
	// response header.
	HeaderProtocolVersion = "2025-06-18"
)

// Supported protocol methods.
const (
	MethodInitialize               = "initialize"
	MethodNotificationsInitialized = "notifications/initialized"
	MethodToolsList                = "tools/list"
	MethodToolsCall                = "tools/call"
)
