package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	jwtpkg "github.com/piresc/bahikhata/internal/pkg/jwt"
	"github.com/piresc/bahikhata/internal/pkg/logger"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// Signup creates an account. It never logs the user in.
func (u *LedgerUC) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	email := models.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, models.NewValidationError("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := u.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.InfoCtx(ctx, "User signed up",
		logger.String("user_id", user.ID.String()),
		logger.String("email", utils.MaskEmail(email)))
	return user, nil
}

// Login checks the credentials and opens a new session
func (u *LedgerUC) Login(ctx context.Context, req *models.LoginRequest, client models.ClientInfo) (*models.AuthResponse, error) {
	email := models.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, models.NewValidationError("email and password are required")
	}

	user, err := u.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.WarnCtx(ctx, "Login rejected",
			logger.String("user_id", user.ID.String()),
			logger.String("client_ip", client.ClientIP))
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}

	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		RefreshID: uuid.New(),
		UserAgent: utils.Truncate(client.UserAgent, 255),
		ClientIP:  client.ClientIP,
		CreatedAt: time.Now().UTC(),
	}

	tokens, err := u.issueTokens(user, session)
	if err != nil {
		return nil, err
	}
	session.ExpiresAt = tokens.RefreshExpiresAt

	if err := u.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.InfoCtx(ctx, "User logged in",
		logger.String("user_id", user.ID.String()),
		logger.String("session_id", session.ID.String()))

	return &models.AuthResponse{User: user, Session: session, Tokens: tokens}, nil
}

// VerifyAccessToken resolves an access token into its user and live session
func (u *LedgerUC) VerifyAccessToken(ctx context.Context, accessToken string) (*models.User, *models.Session, error) {
	claims, err := jwtpkg.ValidateTokenOfType(accessToken, u.cfg.JWT.Secret, jwtpkg.TokenTypeAccess)
	if err != nil {
		return nil, nil, err
	}

	session, err := u.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.UserID != claims.UserID {
		return nil, nil, fmt.Errorf("%w: session belongs to another user", models.ErrTokenInvalid)
	}

	user, err := u.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: user no longer exists", models.ErrUnauthorized)
		}
		return nil, nil, err
	}
	return user, session, nil
}

// RefreshSession redeems a refresh token for a new token pair. The session's
// refresh id rotates, so a token can only be redeemed once. Parallel requests
// carrying the same token within the refresh grace window share the rotated id;
// presenting a spent token after that revokes the whole session.
func (u *LedgerUC) RefreshSession(ctx context.Context, refreshToken string, client models.ClientInfo) (*models.AuthResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("%w: no refresh token provided", models.ErrUnauthorized)
	}

	claims, err := jwtpkg.ValidateTokenOfType(refreshToken, u.cfg.JWT.Secret, jwtpkg.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	refreshID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed refresh id", models.ErrTokenInvalid)
	}

	user, err := u.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", models.ErrUnauthorized)
		}
		return nil, err
	}

	// Sign first so the session expiry matches the new refresh token
	next := &models.Session{ID: claims.SessionID, UserID: user.ID, RefreshID: uuid.New()}
	tokens, err := u.issueTokens(user, next)
	if err != nil {
		return nil, err
	}

	grace := time.Duration(u.cfg.JWT.RefreshGrace) * time.Second
	session, err := u.sessions.RotateRefreshID(ctx, claims.SessionID, refreshID, next.RefreshID, tokens.RefreshExpiresAt, grace)
	if err != nil {
		if errors.Is(err, models.ErrTokenInvalid) {
			logger.WarnCtx(ctx, "Refresh token reuse detected, revoking session",
				logger.String("user_id", user.ID.String()),
				logger.String("session_id", claims.SessionID.String()),
				logger.String("client_ip", client.ClientIP))
			if delErr := u.sessions.DeleteSession(ctx, &models.Session{ID: claims.SessionID, UserID: user.ID}); delErr != nil {
				logger.ErrorCtx(ctx, "Failed to revoke session", logger.ErrorField(delErr))
			}
		}
		return nil, err
	}
	if session.UserID != user.ID {
		return nil, fmt.Errorf("%w: session belongs to another user", models.ErrTokenInvalid)
	}

	// Another request rotated this token moments ago, hand out its refresh id
	if session.RefreshID != next.RefreshID {
		if tokens, err = u.issueTokens(user, session); err != nil {
			return nil, err
		}
	}

	return &models.AuthResponse{User: user, Session: session, Tokens: tokens}, nil
}

// Logout revokes one session
func (u *LedgerUC) Logout(ctx context.Context, session *models.Session) error {
	if err := u.sessions.DeleteSession(ctx, session); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	logger.InfoCtx(ctx, "User logged out",
		logger.String("user_id", session.UserID.String()),
		logger.String("session_id", session.ID.String()))
	return nil
}

// LogoutAll revokes every session of the user
func (u *LedgerUC) LogoutAll(ctx context.Context, userID uuid.UUID) (int, error) {
	revoked, err := u.sessions.DeleteUserSessions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	logger.InfoCtx(ctx, "All sessions revoked",
		logger.String("user_id", userID.String()),
		logger.Int("sessions", revoked))
	return revoked, nil
}

// GetProfile returns the user's account
func (u *LedgerUC) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := u.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (u *LedgerUC) issueTokens(user *models.User, session *models.Session) (*models.TokenPair, error) {
	access, accessExp, err := jwtpkg.GenerateToken(user.ID, user.Email, session.ID, u.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, refreshExp, err := jwtpkg.GenerateRefreshToken(user.ID, session.ID, session.RefreshID, u.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &models.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}
