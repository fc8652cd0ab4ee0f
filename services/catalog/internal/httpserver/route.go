package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	books := e.Group("/books")
	books.GET("/search", d.CatalogHandler.Search)
	books.GET("/isbn/:isbn", d.CatalogHandler.GetByISBN)
	books.GET("/works/:id", d.CatalogHandler.GetWork)
}
