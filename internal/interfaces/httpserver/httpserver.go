package httpserver

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dynmcp/internal/config"
	"dynmcp/internal/interfaces/httpserver/middlewares"
	"dynmcp/internal/interfaces/httpserver/responses"
	"dynmcp/internal/interfaces/httpserver/routes/admin"
	"dynmcp/internal/interfaces/httpserver/routes/mcp"
)

type HTTPServer struct {
	router     *gin.Engine
	config     *config.Config
	mcpRoute   *mcp.MCPRoute
	adminRoute *admin.AdminRoute
}

func NewHTTPServer(
	cfg *config.Config,
	mcpRoute *mcp.MCPRoute,
	adminRoute *admin.AdminRoute,
) *HTTPServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.CORS())

	return &HTTPServer{
		router:     router,
		config:     cfg,
		mcpRoute:   mcpRoute,
		adminRoute: adminRoute,
	}
}

func (s *HTTPServer) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		responses.Success(c, "OK")
	})

	s.router.GET("/readyz", func(c *gin.Context) {
		responses.Success(c, "ready")
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.mcpRoute.RegisterRouter(s.router)

	adminGroup := s.router.Group("/admin")
	adminGroup.Use(middlewares.APIKeyAuth(s.config.App.APIKey))
	s.adminRoute.RegisterRouter(adminGroup)
}

func (s *HTTPServer) Run() error {
	s.setupRoutes()
	addr := fmt.Sprintf("%s:%d", s.config.App.Host, s.config.App.Port)
	return s.router.Run(addr)
}
