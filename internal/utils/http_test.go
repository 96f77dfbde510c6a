package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}

func TestMessage(t *testing.T) {
	c, rec := newContext(http.MethodPost)

	require.NoError(t, Message(c, http.StatusCreated, "Signup successful, please log in"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Signup successful, please log in"}`, rec.Body.String())
}

func TestErrorResponseHelpers(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c echo.Context) error
		status   int
		expected string
	}{
		{"bad request", func(c echo.Context) error { return BadRequestResponse(c, "Invalid input") }, http.StatusBadRequest, "Invalid input"},
		{"unauthorized default", func(c echo.Context) error { return UnauthorizedResponse(c, "") }, http.StatusUnauthorized, "Unauthorized"},
		{"not found default", func(c echo.Context) error { return NotFoundResponse(c, "") }, http.StatusNotFound, "Resource not found"},
		{"conflict", func(c echo.Context) error { return ConflictResponse(c, "User already exists") }, http.StatusConflict, "User already exists"},
		{"too many", func(c echo.Context) error { return TooManyRequestsResponse(c, "") }, http.StatusTooManyRequests, "Rate limit exceeded"},
		{"internal default", func(c echo.Context) error { return InternalServerErrorResponse(c, "") }, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet)

			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.status, rec.Code)

			response := decodeError(t, rec)
			assert.False(t, response.Success)
			assert.Equal(t, tt.expected, response.Message)
			assert.Equal(t, http.StatusText(tt.status), response.Error)
			assert.Equal(t, tt.status, response.Code)
		})
	}
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFromError(models.NewValidationError("bad")))
	assert.Equal(t, http.StatusUnauthorized, StatusFromError(fmt.Errorf("x: %w", models.ErrSessionRevoked)))
	assert.Equal(t, http.StatusUnauthorized, StatusFromError(models.ErrTokenInvalid))
	assert.Equal(t, http.StatusNotFound, StatusFromError(fmt.Errorf("txn: %w", models.ErrNotFound)))
	assert.Equal(t, http.StatusNotFound, StatusFromError(models.ErrNoChartData))
	assert.Equal(t, http.StatusConflict, StatusFromError(models.ErrConflict))
	assert.Equal(t, http.StatusInternalServerError, StatusFromError(errors.New("db down")))
}

func TestDomainErrorResponse(t *testing.T) {
	t.Run("validation keeps its message", func(t *testing.T) {
		c, rec := newContext(http.MethodPost)
		err := fmt.Errorf("update: %w", models.NewValidationError("Credit category is required."))

		require.NoError(t, DomainErrorResponse(c, err, "ignored"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Credit category is required.", decodeError(t, rec).Message)
	})

	t.Run("fallback for known errors", func(t *testing.T) {
		c, rec := newContext(http.MethodGet)

		require.NoError(t, DomainErrorResponse(c, fmt.Errorf("get: %w", models.ErrNotFound), "Transaction not found"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Transaction not found", decodeError(t, rec).Message)
	})

	t.Run("internal errors echo the wrapped message", func(t *testing.T) {
		c, rec := newContext(http.MethodGet)

		require.NoError(t, DomainErrorResponse(c, fmt.Errorf("failed to list transactions: %w", errors.New("conn reset")), "ignored"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "failed to list transactions: conn reset", decodeError(t, rec).Message)
	})
}

func TestHTTPErrorHandler(t *testing.T) {
	t.Run("unknown route", func(t *testing.T) {
		e := echo.New()
		e.HTTPErrorHandler = HTTPErrorHandler

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Page not found", decodeError(t, rec).Message)
	})

	t.Run("http error message", func(t *testing.T) {
		c, rec := newContext(http.MethodPost)
		HTTPErrorHandler(echo.NewHTTPError(http.StatusBadRequest, "malformed body"), c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "malformed body", decodeError(t, rec).Message)
	})

	t.Run("domain error", func(t *testing.T) {
		c, rec := newContext(http.MethodGet)
		HTTPErrorHandler(models.ErrConflict, c)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("committed response untouched", func(t *testing.T) {
		c, rec := newContext(http.MethodGet)
		require.NoError(t, c.String(http.StatusOK, "done"))

		HTTPErrorHandler(errors.New("late"), c)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "done", rec.Body.String())
	})
}
