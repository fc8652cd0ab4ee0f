package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshelf/pkg/apperr"
	"github.com/Skotchmaster/bookshelf/pkg/logging"
	middleware "github.com/Skotchmaster/bookshelf/pkg/middleware/auth"
	"github.com/Skotchmaster/bookshelf/services/review/internal/service"
	"github.com/Skotchmaster/bookshelf/services/review/internal/transport"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, h.Svc.ListForBook(ctx, c.Param("bookId")))
}

func (h *ReviewHTTP) Upsert(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review_upsert")

	var req transport.UpsertRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("upsert_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	rv, created, err := h.Svc.Upsert(ctx, c.Param("bookId"), middleware.BearerToken(c), service.UpsertInput{
		Rating:    string(req.Rating),
		Comment:   req.Comment,
		BookTitle: req.BookTitle,
	})
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, rv)
}

func (h *ReviewHTTP) DeleteByID(c echo.Context) error {
	ctx := c.Request().Context()

	rv, err := h.Svc.DeleteByID(ctx, c.Param("bookId"), c.Param("reviewId"), middleware.BearerToken(c))
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}

	return c.JSON(http.StatusOK, transport.DeleteResponse{Message: transport.DeletedMessage, Review: *rv})
}

func (h *ReviewHTTP) DeleteOwn(c echo.Context) error {
	ctx := c.Request().Context()

	rv, err := h.Svc.DeleteByOwner(ctx, c.Param("bookId"), middleware.BearerToken(c))
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}

	return c.JSON(http.StatusOK, transport.DeleteResponse{Message: transport.DeletedMessage, Review: *rv})
}
