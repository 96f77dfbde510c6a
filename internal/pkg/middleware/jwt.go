package middleware

import (
	"context"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/piresc/bahikhata/internal/pkg/logger"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/internal/pkg/requestcontext"
	"github.com/piresc/bahikhata/internal/utils"
)

const identityKey = "auth_identity"

// Identity is the authenticated caller attached to the echo context
type Identity struct {
	User    *models.User
	Session *models.Session
}

// TokenAuthenticator resolves tokens into users. Implemented by the ledger auth usecase.
type TokenAuthenticator interface {
	VerifyAccessToken(ctx context.Context, accessToken string) (*models.User, *models.Session, error)
	RefreshSession(ctx context.Context, refreshToken string, client models.ClientInfo) (*models.AuthResponse, error)
}

// AuthConfig configures the cookie/bearer authentication middleware
type AuthConfig struct {
	Authenticator TokenAuthenticator
	Cookie        models.CookieConfig
	// Optional lets unauthenticated requests through; handlers check CurrentIdentity
	Optional bool
}

// JWTAuthMiddleware authenticates the request from the accessToken cookie or the
// Authorization bearer header. An expired or missing access token is replaced
// transparently when the refreshToken cookie still maps to a live session.
func JWTAuthMiddleware(config AuthConfig) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityKey,
		TokenLookup: "cookie:" + utils.AccessTokenCookie + ",header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			user, session, err := config.Authenticator.VerifyAccessToken(c.Request().Context(), auth)
			if err != nil {
				return nil, err
			}
			return &Identity{User: user, Session: session}, nil
		},
		SuccessHandler: func(c echo.Context) {
			if identity, ok := c.Get(identityKey).(*Identity); ok {
				SetIdentity(c, identity)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if identity := refreshFromCookie(c, config); identity != nil {
				SetIdentity(c, identity)
				return nil
			}
			if config.Optional {
				return nil
			}
			// A non-nil error stops the chain; the HTTP error handler renders it
			if !hasCredentials(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: no token provided")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: invalid or expired token").SetInternal(err)
		},
		ContinueOnIgnoredError: true,
	})
}

func refreshFromCookie(c echo.Context, config AuthConfig) *Identity {
	refreshToken := utils.CookieValue(c, utils.RefreshTokenCookie)
	if refreshToken == "" {
		return nil
	}

	reqCtx := GetRequestContext(c)
	resp, err := config.Authenticator.RefreshSession(c.Request().Context(), refreshToken, models.ClientInfo{
		UserAgent: reqCtx.UserAgent,
		ClientIP:  reqCtx.ClientIP,
	})
	if err != nil {
		logger.InfoCtx(c.Request().Context(), "Refresh token rejected", logger.ErrorField(err))
		return nil
	}

	utils.SetAuthCookies(c, config.Cookie, resp.Tokens)
	return &Identity{User: resp.User, Session: resp.Session}
}

func hasCredentials(c echo.Context) bool {
	return utils.CookieValue(c, utils.AccessTokenCookie) != "" ||
		strings.HasPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
}

// SetIdentity attaches an authenticated caller to the echo and request contexts
func SetIdentity(c echo.Context, identity *Identity) {
	c.Set(identityKey, identity)
	ctx := requestcontext.WithUser(c.Request().Context(), identity.User.ID.String(), identity.Session.ID.String())
	c.SetRequest(c.Request().WithContext(ctx))
}

// CurrentIdentity returns the authenticated caller, if any
func CurrentIdentity(c echo.Context) (*Identity, bool) {
	identity, ok := c.Get(identityKey).(*Identity)
	return identity, ok && identity != nil
}
