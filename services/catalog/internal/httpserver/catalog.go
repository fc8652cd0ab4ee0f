package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshelf/pkg/apperr"
	"github.com/Skotchmaster/bookshelf/pkg/logging"
	"github.com/Skotchmaster/bookshelf/services/catalog/internal/service"
	"github.com/Skotchmaster/bookshelf/services/catalog/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	var req transport.SearchRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		l.Warn("search_failed", "status", 400, "reason", "bad query", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	books, err := h.Svc.Search(ctx, service.SearchQuery{
		Q:      req.Q,
		Author: req.Author,
		Title:  req.Title,
		Limit:  req.Limit,
	})
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}

	return c.JSON(http.StatusOK, books)
}

func (h *CatalogHTTP) GetByISBN(c echo.Context) error {
	book, err := h.Svc.ByISBN(c.Request().Context(), c.Param("isbn"))
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, book)
}

func (h *CatalogHTTP) GetWork(c echo.Context) error {
	work, err := h.Svc.Work(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, work)
}
