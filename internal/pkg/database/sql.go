package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/bahikhata/internal/pkg/models"
	_ "modernc.org/sqlite"
)

// Supported relational drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLClient represents a relational database client shared by the postgres and sqlite backends
type SQLClient struct {
	db     *sqlx.DB
	driver string
}

// NewSQLClient opens and verifies a connection pool for the configured driver
func NewSQLClient(config models.DatabaseConfig) (*SQLClient, error) {
	driverName, dsn, err := DSN(config)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", config.Driver, err)
	}

	if config.Driver == DriverSQLite {
		// SQLite allows a single writer
		db.SetMaxOpenConns(1)
	} else {
		if config.MaxConns > 0 {
			db.SetMaxOpenConns(config.MaxConns)
		}
		if config.IdleConns > 0 {
			db.SetMaxIdleConns(config.IdleConns)
		}
		db.SetConnMaxLifetime(1 * time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", config.Driver, err)
	}

	return &SQLClient{db: db, driver: config.Driver}, nil
}

// NewSQLClientFromDB wraps an already opened handle
func NewSQLClientFromDB(db *sqlx.DB, driver string) *SQLClient {
	return &SQLClient{db: db, driver: driver}
}

// DSN returns the database/sql driver name and connection string for config
func DSN(config models.DatabaseConfig) (string, string, error) {
	switch config.Driver {
	case DriverPostgres, "":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(config.Username, config.Password),
			Host:     fmt.Sprintf("%s:%d", config.Host, config.Port),
			Path:     "/" + config.Database,
			RawQuery: url.Values{"sslmode": []string{config.SSLMode}}.Encode(),
		}
		return "pgx", u.String(), nil
	case DriverSQLite:
		return "sqlite", config.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
	default:
		return "", "", fmt.Errorf("unsupported sql driver %q", config.Driver)
	}
}

// GetDB returns the underlying handle
func (c *SQLClient) GetDB() *sqlx.DB {
	return c.db
}

// Driver returns the configured driver name
func (c *SQLClient) Driver() string {
	return c.driver
}

// Ping verifies the connection is alive
func (c *SQLClient) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection pool
func (c *SQLClient) Close() error {
	return c.db.Close()
}
