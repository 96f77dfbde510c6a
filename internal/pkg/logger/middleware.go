package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/bahikhata/internal/pkg/requestcontext"
)

// EchoMiddleware writes one access log entry per request
func EchoMiddleware(access *AppLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			// Let the error handler write the response so the logged status is final
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := req.URL.Path
			if req.URL.RawQuery != "" {
				path += "?" + req.URL.RawQuery
			}
			userID := requestcontext.GetUserID(c.Request().Context())
			if userID == "" {
				userID = "anonymous"
			}

			access.Log(AccessEntry{
				Method:    req.Method,
				Path:      path,
				ClientIP:  c.RealIP(),
				UserID:    userID,
				RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
				Status:    c.Response().Status,
				Latency:   time.Since(start),
				Err:       err,
			})
			return err
		}
	}
}
