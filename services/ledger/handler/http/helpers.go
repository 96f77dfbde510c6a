package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/piresc/bahikhata/internal/pkg/logger"
	"github.com/piresc/bahikhata/internal/pkg/middleware"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/internal/utils"
)

const msgNotAuthenticated = "User is not authenticated"

// identity returns the authenticated caller or answers 401
func identity(c echo.Context) (*middleware.Identity, error) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return nil, utils.UnauthorizedResponse(c, msgNotAuthenticated)
	}
	return id, nil
}

func clientInfo(c echo.Context) models.ClientInfo {
	reqCtx := middleware.GetRequestContext(c)
	return models.ClientInfo{
		UserAgent: reqCtx.UserAgent,
		ClientIP:  reqCtx.ClientIP,
	}
}

// failure answers with the status matching err and logs server side failures
func failure(c echo.Context, err error, fallback, action string) error {
	if utils.StatusFromError(err) == http.StatusInternalServerError {
		logger.ErrorCtx(c.Request().Context(), "Failed to "+action,
			logger.ErrorField(err),
			logger.String("path", c.Path()))
	}
	return utils.DomainErrorResponse(c, err, fallback)
}

func parseID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}
