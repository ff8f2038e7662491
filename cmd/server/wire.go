//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"dynmcp/internal/config"
	"dynmcp/internal/domain/datasource"
	"dynmcp/internal/domain/mcpproto"
	"dynmcp/internal/domain/xds"
	"dynmcp/internal/interfaces/httpserver"
	"dynmcp/internal/interfaces/httpserver/routes/admin"
	"dynmcp/internal/interfaces/httpserver/routes/mcp"
)

func CreateApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	wire.Build(
		provideBackingStore,
		provideOutboundClient,
		provideSessionManager,
		provideBroadcastBus,
		xds.NewMcpCache,
		datasource.New,
		mcpproto.NewRegistry,
		mcp.NewMCPRoute,
		admin.NewAdminRoute,
		httpserver.NewHTTPServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
