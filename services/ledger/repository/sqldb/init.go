// Package sqldb implements the ledger repository on PostgreSQL and SQLite through sqlx.
package sqldb

import (
	"github.com/jmoiron/sqlx"
	"github.com/piresc/bahikhata/internal/pkg/database"
)

// LedgerRepo stores users and transactions in a SQL database.
// Queries are written with ? placeholders and rebound for the driver.
type LedgerRepo struct {
	db *sqlx.DB
}

// NewLedgerRepo creates a new SQL ledger repository
func NewLedgerRepo(client *database.SQLClient) *LedgerRepo {
	return &LedgerRepo{db: client.GetDB()}
}
