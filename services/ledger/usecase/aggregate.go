package usecase

import (
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/shopspring/decimal"
)

var (
	hundred         = decimal.NewFromInt(100)
	goodSavingsRate = decimal.NewFromInt(20)
)

// computeTotals sums credits and debits. Balance is credit minus debit.
func computeTotals(txns []*models.Transaction) models.Totals {
	totals := models.Totals{
		TotalCredit: decimal.Zero,
		TotalDebit:  decimal.Zero,
	}
	for _, txn := range txns {
		switch txn.Type {
		case models.Credit:
			totals.TotalCredit = totals.TotalCredit.Add(txn.Amount)
		case models.Debit:
			totals.TotalDebit = totals.TotalDebit.Add(txn.Amount)
		}
	}
	totals.Balance = totals.TotalCredit.Sub(totals.TotalDebit)
	return totals
}

// percentOf returns part/total*100 with one decimal, or "0.0" when total is zero
func percentOf(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(1)
}

// savingsRate is balance/credit*100 rounded to one decimal. It is good above 20.
func savingsRate(totals models.Totals) (string, bool) {
	rate := percentOf(totals.Balance, totals.TotalCredit)
	return rate.StringFixed(1), rate.GreaterThan(goodSavingsRate)
}

// newList wraps a sorted listing with its totals
func newList(txns []*models.Transaction) *models.TransactionList {
	if txns == nil {
		txns = []*models.Transaction{}
	}
	return &models.TransactionList{
		Transactions: txns,
		Totals:       computeTotals(txns),
	}
}

// newBarSummary derives the dashboard figures
func newBarSummary(txns []*models.Transaction) *models.BarSummary {
	list := newList(txns)
	rate, good := savingsRate(list.Totals)
	return &models.BarSummary{
		Transactions:      list.Transactions,
		TotalCredit:       list.TotalCredit,
		TotalDebit:        list.TotalDebit,
		TurnOver:          list.TotalCredit.Add(list.TotalDebit),
		Balance:           list.Balance,
		SavingsRate:       rate,
		SavingsRateIsGood: good,
	}
}

// breakdownByCategory totals the transactions of one type per category and
// expresses each category as a share of the type's total
func breakdownByCategory(txns []*models.Transaction, txnType models.TransactionType) *models.CategoryBreakdown {
	b := &models.CategoryBreakdown{
		Type:       txnType,
		Total:      decimal.Zero,
		Categories: map[string]decimal.Decimal{},
		Percentage: map[string]string{},
	}

	for _, txn := range txns {
		if txn.Type != txnType {
			continue
		}
		b.Total = b.Total.Add(txn.Amount)
		if sum, ok := b.Categories[txn.Category]; ok {
			b.Categories[txn.Category] = sum.Add(txn.Amount)
		} else {
			b.Categories[txn.Category] = txn.Amount
		}
	}

	for category, sum := range b.Categories {
		b.Percentage[category] = percentOf(sum, b.Total).StringFixed(1)
	}
	return b
}
