package config

import (
	pkgconfig "github.com/Skotchmaster/bookshelf/pkg/config"
	"github.com/Skotchmaster/bookshelf/services/catalog/internal/repo"
	"github.com/Skotchmaster/bookshelf/services/catalog/internal/util"
)

const (
	ServiceName = "catalog"
	DefaultPort = 8082
)

type Config struct {
	pkgconfig.Config

	OpenLibraryURL string
	Limit          int
}

func Load() Config {
	return Config{
		Config:         pkgconfig.Load(ServiceName, DefaultPort),
		OpenLibraryURL: pkgconfig.EnvDefault("OPENLIBRARY_URL", repo.DefaultBaseURL),
		Limit:          util.ClampLimit(pkgconfig.EnvIntDefault("CATALOG_LIMIT", util.DefaultLimit), util.DefaultLimit),
	}
}
