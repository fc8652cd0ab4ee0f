package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultTokenSecret = "your-secret-key-for-jwt-signing"

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	StoreDriver    string
	StoreDir       string
	DatabaseURL    string
	PostgresDriver string

	TokenSecret  []byte
	TokenStrict  bool
	// CookieSecure marks the access cookie Secure; only for TLS deployments.
	CookieSecure bool

	AuthHTTPURL string

	KafkaBrokers []string
}

// LoadDotEnv reads .env files if present. Missing files are not an error.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			log.Printf("notice: %s not loaded: %v, using process environment", p, err)
		}
	}
}

func Load(serviceName string, defaultPort int) Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", serviceName),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		ServerPort: EnvIntDefault("SERVER_PORT", defaultPort),

		StoreDriver:    strings.ToLower(EnvDefault("STORE_DRIVER", "file")),
		StoreDir:       EnvDefault("STORE_DIR", "data"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		PostgresDriver: strings.ToLower(EnvDefault("STORE_PG_DRIVER", "pgx")),

		TokenSecret:  []byte(EnvDefault("JWT_SECRET", DefaultTokenSecret)),
		TokenStrict:  EnvBoolDefault("TOKEN_STRICT", false),
		CookieSecure: EnvBoolDefault("COOKIE_SECURE", false),

		AuthHTTPURL: os.Getenv("AUTH_URL"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
