package sqldb

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/bahikhata/internal/pkg/database"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*LedgerRepo, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	// the postgres driver name makes sqlx rebind ? to $n
	client := database.NewSQLClientFromDB(sqlx.NewDb(mockDB, "postgres"), database.DriverPostgres)
	return NewLedgerRepo(client), mock
}

func newSQLiteRepo(t *testing.T) *LedgerRepo {
	t.Helper()
	config := models.DatabaseConfig{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "ledger.db"),
	}
	require.NoError(t, database.RunMigrations(config))

	client, err := database.NewSQLClient(config)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewLedgerRepo(client)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestListTransactions_BuildsFilteredQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()
	start, end := day(2024, 1, 1), day(2024, 1, 31)

	rows := sqlmock.NewRows([]string{"id", "user_id", "amount", "type", "category", "description", "date", "created_at", "updated_at"}).
		AddRow(uuid.New().String(), userID.String(), "120.50", "Debit", "Food", "", day(2024, 1, 10), time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE user_id = $1 AND type = $2 AND date >= $3 AND date <= $4 ORDER BY date ASC, created_at ASC")).
		WithArgs(userID, "Debit", start, end).
		WillReturnRows(rows)

	txns, err := repo.ListTransactions(context.Background(), userID, models.TransactionFilter{
		Type:  models.Debit,
		Range: models.DateRange{Start: &start, End: &end},
	})

	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.True(t, decimal.RequireFromString("120.5").Equal(txns[0].Amount))
	assert.Equal(t, models.Debit, txns[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactions_DatabaseError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM transactions").WillReturnError(errors.New("connection reset"))

	_, err := repo.ListTransactions(context.Background(), uuid.New(), models.TransactionFilter{})
	assert.ErrorContains(t, err, "failed to list transactions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTransaction_NotOwned(t *testing.T) {
	repo, mock := newMockRepo(t)
	txn := &models.Transaction{ID: uuid.New(), UserID: uuid.New(), Amount: decimal.NewFromInt(5), Type: models.Credit, Category: "Gift", Date: day(2024, 2, 1)}

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $7 AND user_id = $8")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateTransaction(context.Background(), txn)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID, id := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM transactions WHERE id = $1 AND user_id = $2")).
		WithArgs(id, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteTransaction(context.Background(), userID, id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransaction_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM transactions WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetTransaction(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSQLite_TransactionLifecycle(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	owner := &models.User{Email: "owner@example.com", PasswordHash: "hash"}
	other := &models.User{Email: "other@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(ctx, owner))
	require.NoError(t, repo.CreateUser(ctx, other))

	entries := []*models.Transaction{
		{UserID: owner.ID, Amount: decimal.NewFromInt(50), Type: models.Credit, Category: "Gift", Date: day(2024, 1, 20)},
		{UserID: owner.ID, Amount: decimal.NewFromInt(100), Type: models.Credit, Category: "Salary", Date: day(2024, 1, 10)},
		{UserID: owner.ID, Amount: decimal.RequireFromString("30.25"), Type: models.Debit, Category: "Food", Description: "groceries", Date: day(2024, 1, 15)},
	}
	for _, txn := range entries {
		require.NoError(t, repo.CreateTransaction(ctx, txn))
	}

	all, err := repo.ListTransactions(ctx, owner.ID, models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Salary", all[0].Category)
	assert.Equal(t, "Food", all[1].Category)
	assert.Equal(t, "Gift", all[2].Category)
	assert.Equal(t, day(2024, 1, 15), all[1].Date)
	assert.True(t, decimal.RequireFromString("30.25").Equal(all[1].Amount))

	// both bounds are inclusive
	start, end := day(2024, 1, 10), day(2024, 1, 15)
	window, err := repo.ListTransactions(ctx, owner.ID, models.TransactionFilter{Range: models.DateRange{Start: &start, End: &end}})
	require.NoError(t, err)
	assert.Len(t, window, 2)

	credits, err := repo.ListTransactions(ctx, owner.ID, models.TransactionFilter{Type: models.Credit})
	require.NoError(t, err)
	assert.Len(t, credits, 2)

	// another user cannot see, change or delete the owner's records
	_, err = repo.GetTransaction(ctx, other.ID, entries[0].ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteTransaction(ctx, other.ID, entries[0].ID), models.ErrNotFound)

	stolen := *entries[0]
	stolen.UserID = other.ID
	stolen.Amount = decimal.NewFromInt(1)
	assert.ErrorIs(t, repo.UpdateTransaction(ctx, &stolen), models.ErrNotFound)

	got, err := repo.GetTransaction(ctx, owner.ID, entries[0].ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(got.Amount))

	got.Type = models.Debit
	got.Category = "Travel"
	require.NoError(t, repo.UpdateTransaction(ctx, got))
	updated, err := repo.GetTransaction(ctx, owner.ID, got.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Debit, updated.Type)
	assert.Equal(t, "Travel", updated.Category)

	require.NoError(t, repo.DeleteTransaction(ctx, owner.ID, got.ID))
	_, err = repo.GetTransaction(ctx, owner.ID, got.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
