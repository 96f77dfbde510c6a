package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/logger"
	"github.com/piresc/bahikhata/internal/pkg/models"
)

// AddTransaction validates the request and records a new transaction for the user
func (u *LedgerUC) AddTransaction(ctx context.Context, userID uuid.UUID, req *models.TransactionRequest) (*models.Transaction, error) {
	txn, err := req.Fields()
	if err != nil {
		return nil, err
	}
	txn.UserID = userID

	if err := u.repo.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	logger.InfoCtx(ctx, "Transaction recorded",
		logger.String("transaction_id", txn.ID.String()),
		logger.String("type", string(txn.Type)))
	return txn, nil
}

// GetTransaction returns one of the user's transactions
func (u *LedgerUC) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	txn, err := u.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns every transaction of the user with totals
func (u *LedgerUC) ListTransactions(ctx context.Context, userID uuid.UUID) (*models.TransactionList, error) {
	txns, err := u.repo.ListTransactions(ctx, userID, models.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return newList(txns), nil
}

// FilterTransactions restricts the listing to an inclusive date window. The
// window only applies when both bounds are given.
func (u *LedgerUC) FilterTransactions(ctx context.Context, userID uuid.UUID, req *models.DateRangeRequest) (*models.FilteredTransactionList, error) {
	dateRange, err := req.Range()
	if err != nil {
		return nil, err
	}

	txns, err := u.repo.ListTransactions(ctx, userID, models.TransactionFilter{Range: dateRange})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	result := &models.FilteredTransactionList{TransactionList: *newList(txns)}
	if dateRange.IsBounded() {
		start := dateRange.Start.Format(models.DateLayout)
		end := dateRange.End.Format(models.DateLayout)
		result.Start = &start
		result.End = &end
	}
	return result, nil
}

// UpdateTransaction replaces an owned transaction's fields and returns the refreshed listing
func (u *LedgerUC) UpdateTransaction(ctx context.Context, userID, id uuid.UUID, req *models.TransactionRequest) (*models.TransactionList, error) {
	existing, err := u.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	fields, err := req.Fields()
	if err != nil {
		return nil, err
	}

	existing.Amount = fields.Amount
	existing.Type = fields.Type
	existing.Category = fields.Category
	existing.Description = fields.Description
	existing.Date = fields.Date

	if err := u.repo.UpdateTransaction(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	logger.InfoCtx(ctx, "Transaction updated", logger.String("transaction_id", id.String()))
	return u.ListTransactions(ctx, userID)
}

// DeleteTransaction removes an owned transaction and returns the refreshed listing
func (u *LedgerUC) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) (*models.TransactionList, error) {
	if err := u.repo.DeleteTransaction(ctx, userID, id); err != nil {
		return nil, fmt.Errorf("failed to delete transaction: %w", err)
	}

	logger.InfoCtx(ctx, "Transaction deleted", logger.String("transaction_id", id.String()))
	return u.ListTransactions(ctx, userID)
}
