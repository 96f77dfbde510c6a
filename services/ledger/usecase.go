package ledger

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/bahikhata/services/ledger AuthUC,LedgerUC

// AuthUC handles accounts and login sessions
type AuthUC interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest, client models.ClientInfo) (*models.AuthResponse, error)
	Logout(ctx context.Context, session *models.Session) error
	LogoutAll(ctx context.Context, userID uuid.UUID) (int, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// token checks used by the auth middleware
	VerifyAccessToken(ctx context.Context, accessToken string) (*models.User, *models.Session, error)
	RefreshSession(ctx context.Context, refreshToken string, client models.ClientInfo) (*models.AuthResponse, error)
}

// LedgerUC handles transactions and the figures derived from them
type LedgerUC interface {
	// CRUD
	AddTransaction(ctx context.Context, userID uuid.UUID, req *models.TransactionRequest) (*models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) (*models.TransactionList, error)
	FilterTransactions(ctx context.Context, userID uuid.UUID, req *models.DateRangeRequest) (*models.FilteredTransactionList, error)
	UpdateTransaction(ctx context.Context, userID, id uuid.UUID, req *models.TransactionRequest) (*models.TransactionList, error)
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) (*models.TransactionList, error)

	// statistics
	BarSummary(ctx context.Context, userID uuid.UUID) (*models.BarSummary, error)
	IncomeStats(ctx context.Context, userID uuid.UUID) (*models.IncomeStats, error)
	ExpenseStats(ctx context.Context, userID uuid.UUID) (*models.ExpenseStats, error)

	// rendering
	ExportTransactions(ctx context.Context, userID uuid.UUID, w io.Writer) error
	RenderCategoryChart(ctx context.Context, userID uuid.UUID, txnType models.TransactionType, w io.Writer) error
}
