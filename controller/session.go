package controller

import (
	"net/http"

	"github.com/adammarchelino/portfolio/service"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookie = "sid"
	sessionKeyCtx = "session"
)

// Session resolves the visitor behind the sid cookie, starting a new visitor when the cookie is missing or stale
func Session(srv service.Service, cookieDomain string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var key string
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				key = cookie.Value
			}

			visitor, err := srv.Visit(c.Request().Context(), key)
			if err != nil {
				return serviceError(c, err)
			}
			if visitor != key {
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    visitor,
					Path:     "/",
					Domain:   cookieDomain,
					HttpOnly: true,
					Secure:   c.IsTLS(),
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(sessionKeyCtx, visitor)
			return next(c)
		}
	}
}

func sessionKey(c echo.Context) string {
	key, _ := c.Get(sessionKeyCtx).(string)
	return key
}
