package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/bookshelf/pkg/authclient"
	pkgconfig "github.com/Skotchmaster/bookshelf/pkg/config"
	"github.com/Skotchmaster/bookshelf/pkg/events"
	"github.com/Skotchmaster/bookshelf/pkg/logging"
	loggingmw "github.com/Skotchmaster/bookshelf/pkg/middleware/logging"
	"github.com/Skotchmaster/bookshelf/pkg/store"
	"github.com/Skotchmaster/bookshelf/pkg/tokens"
	"github.com/Skotchmaster/bookshelf/services/review/internal/config"
	"github.com/Skotchmaster/bookshelf/services/review/internal/httpserver"
	"github.com/Skotchmaster/bookshelf/services/review/internal/repo"
	"github.com/Skotchmaster/bookshelf/services/review/internal/service"
)

func main() {
	pkgconfig.LoadDotEnv()
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	backend, err := store.Open(initCtx, store.OptionsFromConfig(cfg))
	cancel()
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}
	defer backend.Close()

	publisher := events.New(cfg.KafkaBrokers)
	defer publisher.Close()

	reviewHTTP := &httpserver.ReviewHTTP{
		Svc: &service.ReviewService{
			Repo:   repo.NewReviewRepo(backend),
			Tokens: tokens.NewService(cfg.TokenSecret, cfg.TokenStrict),
			Users:  authclient.NewClient(cfg.AuthHTTPURL),
			Events: publisher,
		},
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{ReviewHandler: reviewHTTP})

	go func() {
		logger.Info("server_starting", "port", cfg.ServerPort, "store", cfg.StoreDriver)
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("server_stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo_shutdown_failed", "error", err)
	}
}
