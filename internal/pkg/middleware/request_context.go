package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/bahikhata/internal/pkg/requestcontext"
)

// RequestContextMiddleware assigns the request id, echoes it in X-Request-ID and
// stores the request context on the request's context.Context
func RequestContextMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqCtx := requestcontext.FromEchoContext(c)

			c.Set("request_context", reqCtx)
			c.Response().Header().Set(echo.HeaderXRequestID, reqCtx.RequestID)

			ctx := requestcontext.WithRequestContext(c.Request().Context(), reqCtx)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetRequestContext extracts request context from Echo context
func GetRequestContext(c echo.Context) *requestcontext.RequestContext {
	if reqCtx, ok := c.Get("request_context").(*requestcontext.RequestContext); ok {
		return reqCtx
	}
	return requestcontext.FromEchoContext(c)
}
