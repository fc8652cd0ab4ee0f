package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	ReviewHandler *ReviewHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	reviews := e.Group("/books/:bookId/reviews")
	reviews.GET("", d.ReviewHandler.List)
	reviews.PUT("", d.ReviewHandler.Upsert)
	reviews.POST("", d.ReviewHandler.Upsert)
	reviews.DELETE("", d.ReviewHandler.DeleteOwn)
	reviews.DELETE("/:reviewId", d.ReviewHandler.DeleteByID)
}
