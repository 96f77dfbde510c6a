package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/piresc/bahikhata/internal/pkg/config"
	"github.com/piresc/bahikhata/internal/pkg/logger"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const usage = `Usage: ledgerctl [-config <env file>] <command> [flags]

Commands:
  migrate up|down [steps]|version   manage the SQL schema
  adduser -email <email>            create an account
  statement -email <email>          print a user's transactions
`

type command func(ctx context.Context, cfg *models.Config, args []string, stdin io.Reader, stdout io.Writer) error

var commands = map[string]command{
	"migrate":   runMigrate,
	"adduser":   runAddUser,
	"statement": runStatement,
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ledgerctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "config/ledger.env", "path to the .env file loaded when APP_ENV=local")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fs.Usage()
		return fmt.Errorf("unknown command %q", fs.Arg(0))
	}

	// Only warnings reach the terminal; the server's JSON logs would drown the output
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zapcore.WarnLevel,
	)
	logger.SetGlobalLogger(logger.NewZapLoggerFromCore(core, "ledgerctl"))

	cfg := config.InitConfig(*configPath)
	return cmd(context.Background(), cfg, fs.Args()[1:], stdin, stdout)
}
