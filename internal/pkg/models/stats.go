package models

import "github.com/shopspring/decimal"

// Totals are the credit/debit sums over a set of transactions
type Totals struct {
	TotalCredit decimal.Decimal `json:"totalCredit"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TransactionList is a user's transactions sorted by date with their totals
type TransactionList struct {
	Transactions []*Transaction `json:"transactions"`
	Totals
}

// FilteredTransactionList is a TransactionList restricted to a date window.
// Start and End are null when no filtering was applied.
type FilteredTransactionList struct {
	TransactionList
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// BarSummary feeds the dashboard bar chart
type BarSummary struct {
	Transactions      []*Transaction  `json:"transactions"`
	TotalCredit       decimal.Decimal `json:"totalCredit"`
	TotalDebit        decimal.Decimal `json:"totalDebit"`
	TurnOver          decimal.Decimal `json:"turnOver"`
	Balance           decimal.Decimal `json:"balance"`
	SavingsRate       string          `json:"savingsRate"`
	SavingsRateIsGood bool            `json:"savingsRateIsGood"`
}

// CategoryBreakdown is the per-category share of one transaction type.
// Percentage values are one-decimal strings such as "80.0".
type CategoryBreakdown struct {
	Type       TransactionType
	Total      decimal.Decimal
	Categories map[string]decimal.Decimal
	Percentage map[string]string
}

// IncomeStats is the response of GET /transactions/income-stats
type IncomeStats struct {
	TotalIncome      decimal.Decimal   `json:"totalIncome"`
	IncomePercentage map[string]string `json:"incomePercentage"`
}

// ExpenseStats is the response of GET /transactions/expense-stats
type ExpenseStats struct {
	TotalExpense      decimal.Decimal   `json:"totalExpense"`
	ExpensePercentage map[string]string `json:"expensePercentage"`
}
