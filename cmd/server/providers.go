package main

import (
	"dynmcp/internal/config"
	"dynmcp/internal/domain/broadcast"
	"dynmcp/internal/domain/session"
	"dynmcp/internal/infrastructure/outbound"
	"dynmcp/internal/infrastructure/store"
)

func provideBackingStore(cfg *config.Config) (store.BackingStore, error) {
	return store.New(cfg)
}

func provideOutboundClient(cfg *config.Config) *outbound.Client {
	return outbound.NewClient(cfg.Outbound.Timeout.Std())
}

func provideSessionManager(cfg *config.Config) *session.Manager {
	return session.NewManager(cfg.Session.Capacity, cfg.Session.TTL.Std())
}

func provideBroadcastBus(cfg *config.Config) *broadcast.Bus {
	return broadcast.NewBus(cfg.Broadcast.Capacity)
}
