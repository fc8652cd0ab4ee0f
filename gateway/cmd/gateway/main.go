package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshelf/gateway/internal/config"
	"github.com/Skotchmaster/bookshelf/gateway/internal/httpserver"
	pkgconfig "github.com/Skotchmaster/bookshelf/pkg/config"
	"github.com/Skotchmaster/bookshelf/pkg/logging"
	"github.com/Skotchmaster/bookshelf/pkg/tokens"
)

func main() {
	pkgconfig.LoadDotEnv()
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "gateway")

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	if err := httpserver.Register(e, &httpserver.Deps{
		AuthURL:    cfg.AuthURL,
		CatalogURL: cfg.CatalogURL,
		ReviewURL:  cfg.ReviewURL,
		Tokens:     tokens.NewService(cfg.TokenSecret, cfg.TokenStrict),
		Logger:     logger,

		CSRF:         cfg.CSRF,
		CookieSecure: cfg.CookieSecure,
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
