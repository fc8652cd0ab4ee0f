package config

import (
	pkgconfig "github.com/Skotchmaster/bookshelf/pkg/config"
	"github.com/Skotchmaster/bookshelf/pkg/store"
)

const (
	ServiceName = "review"
	DefaultPort = 8083
)

func Load() pkgconfig.Config {
	cfg := pkgconfig.Load(ServiceName, DefaultPort)

	pkgconfig.MustNonEmpty(cfg.AuthHTTPURL, "AUTH_URL")
	pkgconfig.MustOneOf(cfg.StoreDriver, "STORE_DRIVER", store.DriverFile, store.DriverSQLite, store.DriverPostgres)
	if cfg.StoreDriver != store.DriverFile {
		pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	}
	pkgconfig.MustNonEmptyBytes(cfg.TokenSecret, "JWT_SECRET")

	return cfg
}
