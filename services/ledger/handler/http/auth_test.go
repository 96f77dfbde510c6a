package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/internal/utils"
	"github.com/piresc/bahikhata/services/ledger/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *models.Config {
	return &models.Config{
		Cookie: models.CookieConfig{Secure: true, SameSite: "none", MaxAge: 3600},
	}
}

func setupAuthHandler(t *testing.T) (*AuthHandler, *mocks.MockAuthUC) {
	ctrl := gomock.NewController(t)
	mockUC := mocks.NewMockAuthUC(ctrl)
	return NewAuthHandler(mockUC, testConfig()), mockUC
}

func authResponse() *models.AuthResponse {
	user := &models.User{ID: uuid.New(), Email: "me@example.com"}
	return &models.AuthResponse{
		User:    user,
		Session: &models.Session{ID: uuid.New(), UserID: user.ID},
		Tokens: &models.TokenPair{
			AccessToken:      "access",
			RefreshToken:     "refresh",
			AccessExpiresAt:  time.Now().Add(time.Minute),
			RefreshExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func TestAuthHandler_Pages(t *testing.T) {
	h, _ := setupAuthHandler(t)
	e := newEcho()

	c, rec := newContext(e, http.MethodGet, "/", nil)
	require.NoError(t, h.Home(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to the Home Page", decode(t, rec)["message"])

	c, rec = newContext(e, http.MethodGet, "/", nil)
	loggedIn(c)
	require.NoError(t, h.Home(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "Redirecting", decode(t, rec)["message"])

	c, rec = newContext(e, http.MethodGet, "/login", nil)
	require.NoError(t, h.LoginPage(c))
	assert.Equal(t, "Please log in", decode(t, rec)["message"])

	c, rec = newContext(e, http.MethodGet, "/signup", nil)
	loggedIn(c)
	require.NoError(t, h.SignupPage(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))
}

func TestAuthHandler_Signup(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		mockSetup      func(*mocks.MockAuthUC)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "Success",
			body: map[string]string{"email": "me@example.com", "password": "secret1"},
			mockSetup: func(m *mocks.MockAuthUC) {
				m.EXPECT().Signup(gomock.Any(), &models.SignupRequest{Email: "me@example.com", Password: "secret1"}).
					Return(&models.User{ID: uuid.New()}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "Signup successful, please log in",
		},
		{
			name: "Duplicate email",
			body: map[string]string{"email": "me@example.com", "password": "secret1"},
			mockSetup: func(m *mocks.MockAuthUC) {
				m.EXPECT().Signup(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("create user: %w", models.ErrConflict))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "Email exists, choose a different name",
		},
		{
			name:           "Invalid email",
			body:           map[string]string{"email": "nope", "password": "secret1"},
			mockSetup:      func(m *mocks.MockAuthUC) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "email must be a valid email address",
		},
		{
			name:           "Invalid request body",
			body:           "invalid json",
			mockSetup:      func(m *mocks.MockAuthUC) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockUC := setupAuthHandler(t)
			tt.mockSetup(mockUC)

			c, rec := newContext(newEcho(), http.MethodPost, "/signup", tt.body)
			require.NoError(t, h.Signup(c))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedMsg, decode(t, rec)["message"])
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		mockErr        error
		expectedStatus int
		expectedMsg    string
	}{
		{"Missing fields", models.NewValidationError("email and password are required"), http.StatusBadRequest, "Email and password required"},
		{"Unknown user", fmt.Errorf("find user: %w", models.ErrNotFound), http.StatusNotFound, "User not found"},
		{"Wrong password", models.ErrUnauthorized, http.StatusUnauthorized, "Invalid email or password"},
		{"Store failure", errors.New("redis down"), http.StatusInternalServerError, "redis down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockUC := setupAuthHandler(t)
			mockUC.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.mockErr)

			c, rec := newContext(newEcho(), http.MethodPost, "/login", map[string]string{"email": "me@example.com"})
			require.NoError(t, h.Login(c))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedMsg, decode(t, rec)["message"])
			assert.Empty(t, rec.Result().Cookies())
		})
	}

	t.Run("Success sets cookies", func(t *testing.T) {
		h, mockUC := setupAuthHandler(t)
		resp := authResponse()
		mockUC.EXPECT().
			Login(gomock.Any(), &models.LoginRequest{Email: "me@example.com", Password: "secret1"}, gomock.Any()).
			Return(resp, nil)

		c, rec := newContext(newEcho(), http.MethodPost, "/login",
			map[string]string{"email": "me@example.com", "password": "secret1"})
		require.NoError(t, h.Login(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Successfully Logged In", body["message"])
		assert.Equal(t, "me@example.com", body["user"].(map[string]interface{})["email"])

		access := cookieByName(rec, utils.AccessTokenCookie)
		require.NotNil(t, access)
		assert.Equal(t, "access", access.Value)
		assert.True(t, access.HttpOnly)
		assert.True(t, access.Secure)
		assert.Equal(t, http.SameSiteNoneMode, access.SameSite)
		require.NotNil(t, cookieByName(rec, utils.RefreshTokenCookie))
	})

	t.Run("Already logged in", func(t *testing.T) {
		h, _ := setupAuthHandler(t)
		c, rec := newContext(newEcho(), http.MethodPost, "/login", map[string]string{})
		loggedIn(c)
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "User already logged in", decode(t, rec)["message"])
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("Body token", func(t *testing.T) {
		h, mockUC := setupAuthHandler(t)
		mockUC.EXPECT().RefreshSession(gomock.Any(), "body-token", gomock.Any()).Return(authResponse(), nil)

		c, rec := newContext(newEcho(), http.MethodPost, "/refresh", map[string]string{"refreshToken": "body-token"})
		require.NoError(t, h.Refresh(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, cookieByName(rec, utils.AccessTokenCookie))
	})

	t.Run("Cookie token wins", func(t *testing.T) {
		h, mockUC := setupAuthHandler(t)
		mockUC.EXPECT().RefreshSession(gomock.Any(), "cookie-token", gomock.Any()).Return(authResponse(), nil)

		c, rec := newContext(newEcho(), http.MethodPost, "/refresh", map[string]string{"refreshToken": "body-token"})
		c.Request().AddCookie(&http.Cookie{Name: utils.RefreshTokenCookie, Value: "cookie-token"})
		require.NoError(t, h.Refresh(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Revoked session clears cookies", func(t *testing.T) {
		h, mockUC := setupAuthHandler(t)
		mockUC.EXPECT().RefreshSession(gomock.Any(), "stale", gomock.Any()).Return(nil, models.ErrSessionRevoked)

		c, rec := newContext(newEcho(), http.MethodPost, "/refresh", map[string]string{"refreshToken": "stale"})
		require.NoError(t, h.Refresh(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		cleared := cookieByName(rec, utils.RefreshTokenCookie)
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
		assert.Less(t, cleared.MaxAge, 0)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("Not authenticated", func(t *testing.T) {
		h, _ := setupAuthHandler(t)
		c, rec := newContext(newEcho(), http.MethodGet, "/logout", nil)
		require.NoError(t, h.Logout(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, msgNotAuthenticated, decode(t, rec)["message"])
	})

	t.Run("Revokes current session", func(t *testing.T) {
		h, mockUC := setupAuthHandler(t)
		c, rec := newContext(newEcho(), http.MethodGet, "/logout", nil)
		id := loggedIn(c)
		mockUC.EXPECT().Logout(gomock.Any(), id.Session).Return(nil)

		require.NoError(t, h.Logout(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, cookieByName(rec, utils.AccessTokenCookie))
	})

	t.Run("Everywhere", func(t *testing.T) {
		h, mockUC := setupAuthHandler(t)
		c, rec := newContext(newEcho(), http.MethodPost, "/logout/all", nil)
		id := loggedIn(c)
		mockUC.EXPECT().LogoutAll(gomock.Any(), id.User.ID).Return(3, nil)

		require.NoError(t, h.LogoutAll(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(3), decode(t, rec)["revoked"])
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	h, mockUC := setupAuthHandler(t)
	c, rec := newContext(newEcho(), http.MethodGet, "/profile", nil)
	id := loggedIn(c)
	mockUC.EXPECT().GetProfile(gomock.Any(), id.User.ID).Return(id.User, nil)

	require.NoError(t, h.Profile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, id.User.ID.String(), user["id"])
}

func TestAuthHandler_CheckAuth(t *testing.T) {
	h, _ := setupAuthHandler(t)

	c, rec := newContext(newEcho(), http.MethodGet, "/check-auth", nil)
	require.NoError(t, h.CheckAuth(c))
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	c, rec = newContext(newEcho(), http.MethodGet, "/check-auth", nil)
	loggedIn(c)
	require.NoError(t, h.CheckAuth(c))
	assert.JSONEq(t, `{"authenticated":true}`, rec.Body.String())
}
