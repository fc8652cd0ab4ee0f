package config

import (
	"log"
	"os"

	pkgconfig "github.com/Skotchmaster/bookshelf/pkg/config"
)

type Config struct {
	ListenAddr   string
	LogLevel     string
	AuthURL      string
	CatalogURL   string
	ReviewURL    string
	TokenSecret  []byte
	TokenStrict  bool
	CSRF         bool
	CookieSecure bool
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func Load() *Config {
	cfg := &Config{
		ListenAddr:   pkgconfig.EnvDefault("GATEWAY_ADDR", ":8080"),
		LogLevel:     pkgconfig.EnvDefault("LOG_LEVEL", "info"),
		AuthURL:      must(os.Getenv("AUTH_URL"), "AUTH_URL"),
		CatalogURL:   must(os.Getenv("CATALOG_URL"), "CATALOG_URL"),
		ReviewURL:    must(os.Getenv("REVIEW_URL"), "REVIEW_URL"),
		TokenSecret:  []byte(pkgconfig.EnvDefault("JWT_SECRET", pkgconfig.DefaultTokenSecret)),
		TokenStrict:  pkgconfig.EnvBoolDefault("TOKEN_STRICT", false),
		CSRF:         pkgconfig.EnvBoolDefault("GATEWAY_CSRF", false),
		CookieSecure: pkgconfig.EnvBoolDefault("CSRF_COOKIE_SECURE", false),
	}
	return cfg
}
