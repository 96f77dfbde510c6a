package utils

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/bahikhata/internal/pkg/models"
)

// Names of the auth cookies
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

func sameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteNoneMode
	}
}

func authCookie(cfg models.CookieConfig, name, value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: sameSite(cfg.SameSite),
		MaxAge:   maxAge,
	}
	if maxAge > 0 {
		cookie.Expires = time.Now().Add(time.Duration(maxAge) * time.Second)
	}
	return cookie
}

// SetAuthCookies stores both tokens as HttpOnly cookies
func SetAuthCookies(c echo.Context, cfg models.CookieConfig, tokens *models.TokenPair) {
	c.SetCookie(authCookie(cfg, AccessTokenCookie, tokens.AccessToken, cfg.MaxAge))
	c.SetCookie(authCookie(cfg, RefreshTokenCookie, tokens.RefreshToken, cfg.MaxAge))
}

// ClearAuthCookies expires both auth cookies
func ClearAuthCookies(c echo.Context, cfg models.CookieConfig) {
	c.SetCookie(authCookie(cfg, AccessTokenCookie, "", -1))
	c.SetCookie(authCookie(cfg, RefreshTokenCookie, "", -1))
}

// CookieValue returns the named cookie's value or ""
func CookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
