package jwt

import (
	"net/http"
	"time"
)

const AccessCookieName = "accessToken"

// CreateCookie builds an HttpOnly cookie. secure must stay false when the
// gateway is served over plain HTTP, or browsers will not send it back.
func CreateCookie(name string, value string, path string, expTime time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
