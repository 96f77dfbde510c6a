package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/services/ledger/repository"
	"github.com/piresc/bahikhata/services/ledger/usecase"
	"golang.org/x/term"
)

func runAddUser(ctx context.Context, cfg *models.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stdout)
	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fs.PrintDefaults()
		return errors.New("missing required flag: email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be empty")
	}

	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	uc := usecase.NewLedgerUC(store.Ledger, nil, cfg)
	user, err := uc.Signup(ctx, &models.SignupRequest{Email: *email, Password: password})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return fmt.Errorf("user %s already exists", models.NormalizeEmail(*email))
		}
		return err
	}

	fmt.Fprintf(stdout, "User %s created with ID %s\n", user.Email, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
