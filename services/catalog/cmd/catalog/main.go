package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	pkgconfig "github.com/Skotchmaster/bookshelf/pkg/config"
	"github.com/Skotchmaster/bookshelf/pkg/logging"
	loggingmw "github.com/Skotchmaster/bookshelf/pkg/middleware/logging"

	catalogcfg "github.com/Skotchmaster/bookshelf/services/catalog/internal/config"
	"github.com/Skotchmaster/bookshelf/services/catalog/internal/httpserver"
	"github.com/Skotchmaster/bookshelf/services/catalog/internal/repo"
	"github.com/Skotchmaster/bookshelf/services/catalog/internal/service"
)

func main() {
	pkgconfig.LoadDotEnv("services/catalog/.env")

	cfg := catalogcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	svc := &service.CatalogService{
		Repo:  repo.NewOpenLibraryRepo(cfg.OpenLibraryURL),
		Limit: cfg.Limit,
	}
	handler := &httpserver.CatalogHTTP{Svc: svc}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{CatalogHandler: handler})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("catalog listening on %s (upstream %s)", srv.Addr, cfg.OpenLibraryURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	log.Println("catalog stopped")
}
