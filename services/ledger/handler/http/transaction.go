package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/bahikhata/internal/pkg/chart"
	"github.com/piresc/bahikhata/internal/pkg/logger"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/internal/pkg/spreadsheet"
	"github.com/piresc/bahikhata/internal/utils"
	"github.com/piresc/bahikhata/services/ledger"
)

const msgTransactionNotFound = "Transaction not found."

// TransactionHandler handles HTTP requests for a user's transactions
type TransactionHandler struct {
	ledgerUC ledger.LedgerUC
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(ledgerUC ledger.LedgerUC) *TransactionHandler {
	return &TransactionHandler{ledgerUC: ledgerUC}
}

// Create handles POST /transaction
func (h *TransactionHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}

	var req models.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return utils.DomainErrorResponse(c, err, "")
	}

	txn, err := h.ledgerUC.AddTransaction(c.Request().Context(), id.User.ID, &req)
	if err != nil {
		return failure(c, err, "", "add transaction")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":     "Transaction saved successfully",
		"transaction": txn,
	})
}

// List handles GET /transactions. startDate and endDate query parameters
// narrow the result the same way POST /transactions does.
func (h *TransactionHandler) List(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}

	var req models.DateRangeRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	if req.StartDate == "" && req.EndDate == "" {
		list, err := h.ledgerUC.ListTransactions(c.Request().Context(), id.User.ID)
		if err != nil {
			return failure(c, err, "", "list transactions")
		}
		return c.JSON(http.StatusOK, list)
	}
	return h.filter(c, &req)
}

// Filter handles POST /transactions
func (h *TransactionHandler) Filter(c echo.Context) error {
	var req models.DateRangeRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	return h.filter(c, &req)
}

func (h *TransactionHandler) filter(c echo.Context, req *models.DateRangeRequest) error {
	id, err := identity(c)
	if id == nil {
		return err
	}

	list, err := h.ledgerUC.FilterTransactions(c.Request().Context(), id.User.ID, req)
	if err != nil {
		return failure(c, err, "", "filter transactions")
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}
	txnID, ok := parseID(c)
	if !ok {
		return utils.NotFoundResponse(c, msgTransactionNotFound)
	}

	txn, err := h.ledgerUC.GetTransaction(c.Request().Context(), id.User.ID, txnID)
	if err != nil {
		return failure(c, err, msgTransactionNotFound, "get transaction")
	}
	return c.JSON(http.StatusOK, txn)
}

// Update handles POST and PUT /transactions/:id
func (h *TransactionHandler) Update(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}
	txnID, ok := parseID(c)
	if !ok {
		return utils.NotFoundResponse(c, msgTransactionNotFound)
	}

	var req models.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return utils.DomainErrorResponse(c, err, "")
	}

	list, err := h.ledgerUC.UpdateTransaction(c.Request().Context(), id.User.ID, txnID, &req)
	if err != nil {
		return failure(c, err, msgTransactionNotFound, "update transaction")
	}
	return c.JSON(http.StatusOK, list)
}

// Delete handles GET /transactions/:id/delete and DELETE /transactions/:id
func (h *TransactionHandler) Delete(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}
	txnID, ok := parseID(c)
	if !ok {
		return utils.NotFoundResponse(c, msgTransactionNotFound)
	}

	list, err := h.ledgerUC.DeleteTransaction(c.Request().Context(), id.User.ID, txnID)
	if err != nil {
		return failure(c, err, msgTransactionNotFound, "delete transaction")
	}
	return c.JSON(http.StatusOK, list)
}

// Bar handles GET /transactions/bar
func (h *TransactionHandler) Bar(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}

	summary, err := h.ledgerUC.BarSummary(c.Request().Context(), id.User.ID)
	if err != nil {
		return failure(c, err, "", "build bar summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// IncomeStats handles GET /transactions/income-stats
func (h *TransactionHandler) IncomeStats(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}

	stats, err := h.ledgerUC.IncomeStats(c.Request().Context(), id.User.ID)
	if err != nil {
		return failure(c, err, "", "build income stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// ExpenseStats handles GET /transactions/expense-stats
func (h *TransactionHandler) ExpenseStats(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}

	stats, err := h.ledgerUC.ExpenseStats(c.Request().Context(), id.User.ID)
	if err != nil {
		return failure(c, err, "", "build expense stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// Chart handles GET /transactions/chart?type=Credit|Debit
func (h *TransactionHandler) Chart(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}

	txnType := models.TransactionType(c.QueryParam("type"))
	if txnType == "" {
		txnType = models.Debit
	}

	var buf bytes.Buffer
	if err := h.ledgerUC.RenderCategoryChart(c.Request().Context(), id.User.ID, txnType, &buf); err != nil {
		return failure(c, err, fmt.Sprintf("No %s transactions to chart", txnType), "render chart")
	}
	return c.Blob(http.StatusOK, chart.ContentType, buf.Bytes())
}

// Export handles GET /export
func (h *TransactionHandler) Export(c echo.Context) error {
	id, err := identity(c)
	if id == nil {
		return err
	}

	// render fully before writing headers so a failure can still answer with JSON
	var buf bytes.Buffer
	if err := h.ledgerUC.ExportTransactions(c.Request().Context(), id.User.ID, &buf); err != nil {
		return failure(c, err, "", "export transactions")
	}

	logger.InfoCtx(c.Request().Context(), "Transactions exported",
		logger.String("user_id", id.User.ID.String()),
		logger.Int("bytes", buf.Len()))

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", spreadsheet.FileName))
	return c.Blob(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
}
