package config

import (
	pkgconfig "github.com/Skotchmaster/bookshelf/pkg/config"
	"github.com/Skotchmaster/bookshelf/pkg/store"
)

const (
	ServiceName = "auth"
	DefaultPort = 8081
)

func Load() pkgconfig.Config {
	cfg := pkgconfig.Load(ServiceName, DefaultPort)

	pkgconfig.MustOneOf(cfg.StoreDriver, "STORE_DRIVER", store.DriverFile, store.DriverSQLite, store.DriverPostgres)
	if cfg.StoreDriver != store.DriverFile {
		pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	}
	pkgconfig.MustNonEmptyBytes(cfg.TokenSecret, "JWT_SECRET")

	return cfg
}
