package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/models"
)

const transactionColumns = `id, user_id, amount, type, category, description, date, created_at, updated_at`

// CreateTransaction inserts a transaction owned by txn.UserID
func (r *LedgerRepo) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	now := time.Now().UTC()
	txn.CreatedAt = now
	txn.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		txn.ID, txn.UserID, txn.Amount, txn.Type, txn.Category, txn.Description,
		txn.Date, txn.CreatedAt, txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction returns the transaction only when userID owns it
func (r *LedgerRepo) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	query := r.db.Rebind(`SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? AND user_id = ?`)

	var txn models.Transaction
	if err := r.db.GetContext(ctx, &txn, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	normalizeDates(&txn)
	return &txn, nil
}

// ListTransactions returns the user's transactions sorted by date, then creation time
func (r *LedgerRepo) ListTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]*models.Transaction, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{userID}

	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Range.IsBounded() {
		conditions = append(conditions, "date >= ?", "date <= ?")
		args = append(args, *filter.Range.Start, *filter.Range.End)
	}

	query := r.db.Rebind(`SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date ASC, created_at ASC`)

	txns := []*models.Transaction{}
	if err := r.db.SelectContext(ctx, &txns, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	for _, txn := range txns {
		normalizeDates(txn)
	}
	return txns, nil
}

// UpdateTransaction replaces the mutable fields of an owned transaction
func (r *LedgerRepo) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	txn.UpdatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		UPDATE transactions
		SET amount = ?, type = ?, category = ?, description = ?, date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		txn.Amount, txn.Type, txn.Category, txn.Description, txn.Date, txn.UpdatedAt,
		txn.ID, txn.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return expectOneRow(result, txn.ID)
}

// DeleteTransaction removes an owned transaction
func (r *LedgerRepo) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM transactions WHERE id = ? AND user_id = ?`)

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return expectOneRow(result, id)
}

func expectOneRow(result sql.Result, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// normalizeDates pins the calendar day to UTC midnight whatever zone the driver returned
func normalizeDates(txn *models.Transaction) {
	d := txn.Date
	txn.Date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
