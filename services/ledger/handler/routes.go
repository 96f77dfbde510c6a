package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/bahikhata/internal/pkg/database"
	"github.com/piresc/bahikhata/internal/pkg/middleware"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/services/ledger"
	"github.com/piresc/bahikhata/services/ledger/handler/http"
)

// Handler wires the ledger HTTP handlers to their routes
type Handler struct {
	authHandler        *http.AuthHandler
	transactionHandler *http.TransactionHandler
	authUC             ledger.AuthUC
	redisClient        *database.RedisClient
	cfg                *models.Config
}

// NewHandler creates and initializes all handlers. redisClient may be nil, in
// which case the auth endpoints are not rate limited.
func NewHandler(
	authUC ledger.AuthUC,
	ledgerUC ledger.LedgerUC,
	redisClient *database.RedisClient,
	cfg *models.Config,
) *Handler {
	return &Handler{
		authHandler:        http.NewAuthHandler(authUC, cfg),
		transactionHandler: http.NewTransactionHandler(ledgerUC),
		authUC:             authUC,
		redisClient:        redisClient,
		cfg:                cfg,
	}
}

func (h *Handler) authMiddleware(optional bool) echo.MiddlewareFunc {
	return middleware.JWTAuthMiddleware(middleware.AuthConfig{
		Authenticator: h.authUC,
		Cookie:        h.cfg.Cookie,
		Optional:      optional,
	})
}

func (h *Handler) rateLimit() []echo.MiddlewareFunc {
	rl := h.cfg.RateLimit
	if !rl.Enabled || h.redisClient == nil || rl.Limit <= 0 {
		return nil
	}
	return []echo.MiddlewareFunc{
		middleware.IPRateLimiter(rl.Limit, time.Duration(rl.Period)*time.Second, h.redisClient),
	}
}

// RegisterRoutes registers every ledger route. Middleware is attached per route
// so unknown paths still fall through to the 404 handler.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	optional := h.authMiddleware(true)
	required := h.authMiddleware(false)
	limited := append(h.rateLimit(), optional)

	// Pages and session endpoints
	e.GET("/", h.authHandler.Home, optional)
	e.GET("/login", h.authHandler.LoginPage, optional)
	e.POST("/login", h.authHandler.Login, limited...)
	e.GET("/signup", h.authHandler.SignupPage, optional)
	e.POST("/signup", h.authHandler.Signup, limited...)
	e.POST("/refresh", h.authHandler.Refresh, h.rateLimit()...)
	e.GET("/check-auth", h.authHandler.CheckAuth, optional)

	e.GET("/profile", h.authHandler.Profile, required)
	e.GET("/logout", h.authHandler.Logout, required)
	e.POST("/logout", h.authHandler.Logout, required)
	e.POST("/logout/all", h.authHandler.LogoutAll, required)

	// Transactions
	t := h.transactionHandler
	e.GET("/transactions", t.List, required)
	e.POST("/transactions", t.Filter, required)
	e.POST("/transaction", t.Create, required)
	e.GET("/transactions/bar", t.Bar, required)
	e.GET("/transactions/income-stats", t.IncomeStats, required)
	e.GET("/transactions/expense-stats", t.ExpenseStats, required)
	e.GET("/transactions/chart", t.Chart, required)
	e.GET("/transactions/:id", t.Get, required)
	e.POST("/transactions/:id", t.Update, required)
	e.PUT("/transactions/:id", t.Update, required)
	e.GET("/transactions/:id/delete", t.Delete, required)
	e.DELETE("/transactions/:id", t.Delete, required)
	e.GET("/export", t.Export, required)
}
