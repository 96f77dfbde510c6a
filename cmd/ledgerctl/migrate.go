package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/piresc/bahikhata/internal/pkg/database"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/services/ledger/repository"
)

func runMigrate(ctx context.Context, cfg *models.Config, args []string, _ io.Reader, stdout io.Writer) error {
	action := "up"
	if len(args) > 0 {
		action = args[0]
	}

	if cfg.Database.Driver == database.DriverDynamoDB {
		if action != "up" {
			return fmt.Errorf("migrate %s is not supported for dynamodb", action)
		}
		store, err := repository.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer store.Close()
		fmt.Fprintf(stdout, "DynamoDB table %s is ready\n", cfg.Database.DynamoTable)
		return nil
	}

	switch action {
	case "up":
		if err := database.RunMigrations(cfg.Database); err != nil {
			return err
		}
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
			steps = n
		}
		if err := database.RollbackMigrations(cfg.Database, steps); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}

	version, dirty, err := database.MigrationVersion(cfg.Database)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s schema at version %d (dirty=%t)\n", cfg.Database.Driver, version, dirty)
	return nil
}
