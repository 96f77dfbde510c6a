package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/chart"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/internal/pkg/spreadsheet"
)

// BarSummary returns the dashboard totals over all of the user's transactions
func (u *LedgerUC) BarSummary(ctx context.Context, userID uuid.UUID) (*models.BarSummary, error) {
	txns, err := u.repo.ListTransactions(ctx, userID, models.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return newBarSummary(txns), nil
}

// IncomeStats returns each credit category's share of total income
func (u *LedgerUC) IncomeStats(ctx context.Context, userID uuid.UUID) (*models.IncomeStats, error) {
	b, err := u.categoryBreakdown(ctx, userID, models.Credit)
	if err != nil {
		return nil, err
	}
	return &models.IncomeStats{
		TotalIncome:      b.Total,
		IncomePercentage: b.Percentage,
	}, nil
}

// ExpenseStats returns each debit category's share of total expense
func (u *LedgerUC) ExpenseStats(ctx context.Context, userID uuid.UUID) (*models.ExpenseStats, error) {
	b, err := u.categoryBreakdown(ctx, userID, models.Debit)
	if err != nil {
		return nil, err
	}
	return &models.ExpenseStats{
		TotalExpense:      b.Total,
		ExpensePercentage: b.Percentage,
	}, nil
}

// RenderCategoryChart draws the category breakdown of one type as a PNG pie
func (u *LedgerUC) RenderCategoryChart(ctx context.Context, userID uuid.UUID, txnType models.TransactionType, w io.Writer) error {
	if !txnType.Valid() {
		return models.NewValidationError("type must be one of: Credit, Debit")
	}

	b, err := u.categoryBreakdown(ctx, userID, txnType)
	if err != nil {
		return err
	}
	return chart.RenderPie(w, b, chart.Options{})
}

// ExportTransactions writes the user's full sorted listing as an xlsx workbook
func (u *LedgerUC) ExportTransactions(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	txns, err := u.repo.ListTransactions(ctx, userID, models.TransactionFilter{})
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}
	return spreadsheet.Write(w, txns)
}

func (u *LedgerUC) categoryBreakdown(ctx context.Context, userID uuid.UUID, txnType models.TransactionType) (*models.CategoryBreakdown, error) {
	txns, err := u.repo.ListTransactions(ctx, userID, models.TransactionFilter{Type: txnType})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s transactions: %w", txnType, err)
	}
	return breakdownByCategory(txns, txnType), nil
}
