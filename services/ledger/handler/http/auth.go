package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/bahikhata/internal/pkg/logger"
	"github.com/piresc/bahikhata/internal/pkg/middleware"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/internal/utils"
	"github.com/piresc/bahikhata/services/ledger"
)

// LoginResponse is the body of a successful login or refresh
type LoginResponse struct {
	User    *models.User      `json:"user"`
	Message string            `json:"message"`
	Tokens  *models.TokenPair `json:"tokens"`
}

// AuthHandler handles HTTP requests for accounts and sessions
type AuthHandler struct {
	authUC ledger.AuthUC
	cfg    *models.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC ledger.AuthUC, cfg *models.Config) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
		cfg:    cfg,
	}
}

// Home answers GET /
func (h *AuthHandler) Home(c echo.Context) error {
	if _, ok := middleware.CurrentIdentity(c); ok {
		return utils.Message(c, http.StatusFound, "Redirecting")
	}
	return utils.Message(c, http.StatusOK, "Welcome to the Home Page")
}

// LoginPage answers GET /login
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if _, ok := middleware.CurrentIdentity(c); ok {
		return c.Redirect(http.StatusFound, "/profile")
	}
	return utils.Message(c, http.StatusOK, "Please log in")
}

// SignupPage answers GET /signup
func (h *AuthHandler) SignupPage(c echo.Context) error {
	if _, ok := middleware.CurrentIdentity(c); ok {
		return c.Redirect(http.StatusFound, "/profile")
	}
	return utils.Message(c, http.StatusOK, "Please sign up")
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(c echo.Context) error {
	if _, ok := middleware.CurrentIdentity(c); ok {
		return c.Redirect(http.StatusFound, "/profile")
	}

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		logger.WarnCtx(c.Request().Context(), "Invalid signup payload", logger.ErrorField(err))
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return utils.DomainErrorResponse(c, err, "")
	}

	if _, err := h.authUC.Signup(c.Request().Context(), &req); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return utils.ConflictResponse(c, "Email exists, choose a different name")
		}
		return failure(c, err, "", "sign up")
	}

	return utils.Message(c, http.StatusCreated, "Signup successful, please log in")
}

// Login handles POST /login
func (h *AuthHandler) Login(c echo.Context) error {
	if _, ok := middleware.CurrentIdentity(c); ok {
		return utils.Message(c, http.StatusOK, "User already logged in")
	}

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	resp, err := h.authUC.Login(c.Request().Context(), &req, clientInfo(c))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			return utils.BadRequestResponse(c, "Email and password required")
		case errors.Is(err, models.ErrNotFound):
			return utils.NotFoundResponse(c, "User not found")
		case errors.Is(err, models.ErrUnauthorized):
			return utils.UnauthorizedResponse(c, "Invalid email or password")
		}
		return failure(c, err, "", "log in")
	}

	utils.SetAuthCookies(c, h.cfg.Cookie, resp.Tokens)
	return c.JSON(http.StatusOK, LoginResponse{
		User:    resp.User,
		Message: "Successfully Logged In",
		Tokens:  resp.Tokens,
	})
}

// Refresh handles POST /refresh. The token comes from the refreshToken cookie
// or, for bearer clients, from the JSON body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := utils.CookieValue(c, utils.RefreshTokenCookie)
	if refreshToken == "" {
		var req models.RefreshRequest
		if err := c.Bind(&req); err != nil {
			return utils.BadRequestResponse(c, "Invalid request payload")
		}
		refreshToken = req.RefreshToken
	}

	resp, err := h.authUC.RefreshSession(c.Request().Context(), refreshToken, clientInfo(c))
	if err != nil {
		if utils.StatusFromError(err) == http.StatusUnauthorized {
			utils.ClearAuthCookies(c, h.cfg.Cookie)
			return utils.UnauthorizedResponse(c, "Invalid or expired refresh token")
		}
		return failure(c, err, "", "refresh session")
	}

	utils.SetAuthCookies(c, h.cfg.Cookie, resp.Tokens)
	return c.JSON(http.StatusOK, LoginResponse{
		User:    resp.User,
		Message: "Session refreshed",
		Tokens:  resp.Tokens,
	})
}

// Logout handles GET and POST /logout
func (h *AuthHandler) Logout(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}

	if err := h.authUC.Logout(c.Request().Context(), id.Session); err != nil {
		return failure(c, err, "", "log out")
	}

	utils.ClearAuthCookies(c, h.cfg.Cookie)
	return utils.Message(c, http.StatusOK, "Logged out successfully")
}

// LogoutAll handles POST /logout/all
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}

	revoked, err := h.authUC.LogoutAll(c.Request().Context(), id.User.ID)
	if err != nil {
		return failure(c, err, "", "log out everywhere")
	}

	utils.ClearAuthCookies(c, h.cfg.Cookie)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Logged out from all devices",
		"revoked": revoked,
	})
}

// Profile handles GET /profile
func (h *AuthHandler) Profile(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}

	user, err := h.authUC.GetProfile(c.Request().Context(), id.User.ID)
	if err != nil {
		return failure(c, err, "User not found", "load profile")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}

// CheckAuth handles GET /check-auth and never answers 401
func (h *AuthHandler) CheckAuth(c echo.Context) error {
	_, ok := middleware.CurrentIdentity(c)
	return c.JSON(http.StatusOK, map[string]bool{"authenticated": ok})
}
