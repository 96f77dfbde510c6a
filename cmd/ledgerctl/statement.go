package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/internal/pkg/spreadsheet"
	"github.com/piresc/bahikhata/internal/utils"
	"github.com/piresc/bahikhata/services/ledger/repository"
	"github.com/piresc/bahikhata/services/ledger/usecase"
)

func runStatement(ctx context.Context, cfg *models.Config, args []string, _ io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("statement", flag.ContinueOnError)
	fs.SetOutput(stdout)
	email := fs.String("email", "", "Account email")
	from := fs.String("from", "", "First day, YYYY-MM-DD")
	to := fs.String("to", "", "Last day, YYYY-MM-DD")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fs.PrintDefaults()
		return errors.New("missing required flag: email")
	}

	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := store.Ledger.GetUserByEmail(ctx, models.NormalizeEmail(*email))
	if err != nil {
		return fmt.Errorf("user %s: %w", *email, err)
	}

	uc := usecase.NewLedgerUC(store.Ledger, nil, cfg)
	list, err := uc.FilterTransactions(ctx, user.ID, &models.DateRangeRequest{StartDate: *from, EndDate: *to})
	if err != nil {
		return err
	}

	renderStatement(stdout, list)
	return nil
}

func renderStatement(w io.Writer, list *models.FilteredTransactionList) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(spreadsheet.Headers())

	for i, txn := range list.Transactions {
		table.Append([]string{
			strconv.Itoa(i + 1),
			txn.Date.Format("2006-01-02"),
			txn.Amount.StringFixed(2),
			string(txn.Type),
			txn.Category,
			utils.Truncate(utils.SanitizeString(txn.Description), 40),
		})
	}

	table.SetFooter([]string{
		"", "", "",
		"Credit " + list.TotalCredit.StringFixed(2),
		"Debit " + list.TotalDebit.StringFixed(2),
		"Balance " + list.Balance.StringFixed(2),
	})
	table.Render()
}
