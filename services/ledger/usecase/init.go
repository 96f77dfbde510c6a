package usecase

import (
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/services/ledger"
)

// bcryptCost is the work factor for password hashes
const bcryptCost = 10

// LedgerUC implements ledger.AuthUC and ledger.LedgerUC
type LedgerUC struct {
	repo     ledger.LedgerRepo
	sessions ledger.SessionRepo
	cfg      *models.Config
}

// NewLedgerUC creates a new ledger usecase instance
func NewLedgerUC(
	repo ledger.LedgerRepo,
	sessions ledger.SessionRepo,
	cfg *models.Config,
) *LedgerUC {
	return &LedgerUC{
		repo:     repo,
		sessions: sessions,
		cfg:      cfg,
	}
}
