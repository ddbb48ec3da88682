package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// DB wraps the sql handle with the driver-appropriate squirrel builder so
// repositories are written once against both backends.
type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
	Driver       string
}

type Config struct {
	Driver         string
	DSN            string
	MigrationsPath string
	LogQueries     bool
}

func NewDB(cfg Config) (*DB, error) {
	if cfg.Driver != DriverSQLite && cfg.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	sqlDB, err := otelsql.Open(cfg.Driver, cfg.DSN,
		otelsql.WithDBSystem(cfg.Driver),
		otelsql.WithDBName("todoapi"),
	)

	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if cfg.LogQueries {
		logger := zerolog.New(os.Stdout)
		driver := sqlDB.Driver()
		sqlDB.Close()
		sqlDB = sqldblogger.OpenDriver(cfg.DSN, driver, zerologadapter.New(logger))
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	if cfg.MigrationsPath != "" {
		if err := RunMigrations(sqlDB, cfg.Driver, cfg.MigrationsPath); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	return Wrap(sqlDB, cfg.Driver), nil
}

// Wrap builds a DB around an already opened handle. Tests use it with an
// in-memory sqlite connection.
func Wrap(sqlDB *sql.DB, driver string) *DB {
	var placeholder squirrel.PlaceholderFormat = squirrel.Question

	if driver == DriverPostgres {
		placeholder = squirrel.Dollar
	}

	builder := squirrel.StatementBuilder.PlaceholderFormat(placeholder)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &builder,
		Driver:       driver,
	}
}

func RunMigrations(db *sql.DB, driverName, migrationsPath string) error {
	var m *migrate.Migrate

	switch driverName {
	case DriverPostgres:
		driver, err := migratepg.WithInstance(db, &migratepg.Config{})

		if err != nil {
			return err
		}

		m, err = migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)

		if err != nil {
			return err
		}
	default:
		driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})

		if err != nil {
			return err
		}

		m, err = migrate.NewWithDatabaseInstance("file://"+migrationsPath, "sqlite3", driver)

		if err != nil {
			return err
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// Queryer is satisfied by *sql.DB and *sql.Tx so repository helpers run the
// same inside and outside a unit of work.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: every mutation it performs commits or
// rolls back together.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}

		return err
	}

	return tx.Commit()
}
