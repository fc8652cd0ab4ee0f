package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshelf/gateway/internal/middleware"
	authmw "github.com/Skotchmaster/bookshelf/pkg/middleware/auth"
	"github.com/Skotchmaster/bookshelf/pkg/middleware/csrf"
	"github.com/Skotchmaster/bookshelf/pkg/tokens"
)

type Deps struct {
	AuthURL    string
	CatalogURL string
	ReviewURL  string

	Tokens *tokens.Service
	Logger *slog.Logger

	// CSRF enables double-submit checks for cookie-authenticated requests.
	CSRF         bool
	CookieSecure bool
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, m := range middleware.Common(logger) {
		e.Use(m)
	}
	if d.CSRF {
		cfg := csrf.DefaultConfig()
		cfg.Secure = d.CookieSecure
		cfg.SkipPaths = []string{"/health/live", "/health/ready"}
		e.Use(csrf.Middleware(cfg))
	}

	authProxy, err := newProxy(d.AuthURL, "/api/v1/auth")
	if err != nil {
		return err
	}

	catalogProxy, err := newProxy(d.CatalogURL, "/api/v1")
	if err != nil {
		return err
	}

	reviewProxy, err := newProxy(d.ReviewURL, "/api/v1")
	if err != nil {
		return err
	}

	// /users/:id stays internal to the services.
	e.POST("/api/v1/auth/register", authProxy)
	e.POST("/api/v1/auth/login", authProxy)

	books := e.Group("/api/v1/books")
	books.GET("/search", catalogProxy)
	books.GET("/isbn/:isbn", catalogProxy)
	books.GET("/works/:id", catalogProxy)

	books.GET("/:bookId/reviews", reviewProxy)

	requireToken := authmw.RequireToken(d.Tokens)
	books.Match([]string{http.MethodPut, http.MethodPost, http.MethodDelete}, "/:bookId/reviews", reviewProxy, requireToken)
	books.DELETE("/:bookId/reviews/:reviewId", reviewProxy, requireToken)

	return nil
}
