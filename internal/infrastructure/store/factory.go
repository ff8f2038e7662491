package store

import (
	"fmt"

	"dynmcp/internal/config"
)

// New builds the driver selected by app.data_source.
func New(cfg *config.Config) (BackingStore, error) {
	switch cfg.App.DataSource {
	case "etcd":
		return NewEtcdStore(cfg.DataSource.Etcd)
	case "mysql":
		return NewMySQLStore(cfg.DataSource.MySQL)
	case "redis":
		return NewRedisStore(cfg.DataSource.Redis)
	default:
		return nil, fmt.Errorf("unknown data source type: %s", cfg.App.DataSource)
	}
}
