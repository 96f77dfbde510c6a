package requestcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey type for context keys to avoid collisions
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey ContextKey = "user_id"
	// SessionIDKey is the context key for the authenticated session ID
	SessionIDKey ContextKey = "session_id"
)

// RequestContext holds request-specific information
type RequestContext struct {
	RequestID string
	UserID    string
	SessionID string
	ClientIP  string
	UserAgent string
	StartTime time.Time
}

// WithRequestContext adds request context to the given context
func WithRequestContext(ctx context.Context, reqCtx *RequestContext) context.Context {
	if reqCtx == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, RequestIDKey, reqCtx.RequestID)
	if reqCtx.UserID != "" {
		ctx = context.WithValue(ctx, UserIDKey, reqCtx.UserID)
	}
	if reqCtx.SessionID != "" {
		ctx = context.WithValue(ctx, SessionIDKey, reqCtx.SessionID)
	}
	return ctx
}

// WithUser records the authenticated user and session on ctx
func WithUser(ctx context.Context, userID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// FromEchoContext extracts request context from Echo context
func FromEchoContext(c echo.Context) *RequestContext {
	req := c.Request()
	reqCtx := &RequestContext{
		StartTime: time.Now(),
		ClientIP:  c.RealIP(),
		UserAgent: req.UserAgent(),
	}

	switch {
	case c.Response().Header().Get(echo.HeaderXRequestID) != "":
		reqCtx.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	case req.Header.Get(echo.HeaderXRequestID) != "":
		reqCtx.RequestID = req.Header.Get(echo.HeaderXRequestID)
	default:
		reqCtx.RequestID = uuid.New().String()
	}

	reqCtx.UserID = GetUserID(req.Context())
	reqCtx.SessionID = GetSessionID(req.Context())

	return reqCtx
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetSessionID extracts session ID from context
func GetSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(SessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}
