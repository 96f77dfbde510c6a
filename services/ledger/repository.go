package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/bahikhata/services/ledger LedgerRepo,SessionRepo

// LedgerRepo defines persistence for users and their transactions.
// Implementations return models.ErrNotFound for missing rows and
// models.ErrConflict for a duplicate email.
type LedgerRepo interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// Transactions. Lookups are always scoped to the owning user.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]*models.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error
}

// SessionRepo stores revocable login sessions
type SessionRepo interface {
	CreateSession(ctx context.Context, session *models.Session) error
	// GetSession returns models.ErrSessionRevoked when the session is gone
	GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	// RotateRefreshID swaps the session's refresh id only when it still equals current.
	// A current that was rotated away less than grace ago returns the session unchanged.
	RotateRefreshID(ctx context.Context, id, current, next uuid.UUID, expiresAt time.Time, grace time.Duration) (*models.Session, error)
	DeleteSession(ctx context.Context, session *models.Session) error
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) (int, error)
}
