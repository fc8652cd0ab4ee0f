package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/bookshelf/pkg/jwt"
	"github.com/Skotchmaster/bookshelf/pkg/tokens"
)

const CtxUserID = "user_id"

// BearerToken returns the token from "Authorization: Bearer <token>",
// falling back to the access token cookie.
func BearerToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, value, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(value)
		}
		return ""
	}
	if ck, err := c.Cookie(jwthelp.AccessCookieName); err == nil {
		return ck.Value
	}
	return ""
}

// RequireToken rejects requests without a readable bearer token and stores
// the subject and raw token on the context.
func RequireToken(svc *tokens.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := BearerToken(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			sub, err := svc.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUserID, sub)
			return next(c)
		}
	}
}
