package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/piresc/bahikhata/internal/pkg/database"
	"github.com/piresc/bahikhata/internal/pkg/logger"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/services/ledger"
	"github.com/piresc/bahikhata/services/ledger/repository/dynamo"
	"github.com/piresc/bahikhata/services/ledger/repository/sqldb"
)

const tableWait = 2 * time.Minute

// Store is the ledger persistence backend picked by the database driver
type Store struct {
	Ledger ledger.LedgerRepo
	Driver string

	pinger interface{ Ping(context.Context) error }
	closer interface{ Close() error }
}

// Ping checks that the backend is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.pinger.Ping(ctx)
}

// Close releases the backend's connections
func (s *Store) Close() error {
	return s.closer.Close()
}

// Open connects to the configured backend and prepares its schema: SQL drivers
// run pending migrations, DynamoDB creates the table when missing.
func Open(ctx context.Context, config models.DatabaseConfig) (*Store, error) {
	switch config.Driver {
	case database.DriverPostgres, database.DriverSQLite:
		if err := database.RunMigrations(config); err != nil {
			return nil, err
		}
		client, err := database.NewSQLClient(config)
		if err != nil {
			return nil, err
		}
		logger.Info("SQL backend ready", logger.String("driver", config.Driver))
		return &Store{
			Ledger: sqldb.NewLedgerRepo(client),
			Driver: config.Driver,
			pinger: client,
			closer: client,
		}, nil

	case database.DriverDynamoDB:
		client, err := database.NewDynamoDBClient(ctx, config)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureTable(ctx, tableWait); err != nil {
			return nil, err
		}
		logger.Info("DynamoDB backend ready", logger.String("table", client.Table))
		return &Store{
			Ledger: dynamo.NewLedgerRepo(client),
			Driver: config.Driver,
			pinger: client,
			closer: client,
		}, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
}
