package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// DB is the single store handle every repository receives. It carries the
// open pool and a statement builder preconfigured with the right placeholder
// format for the driver.
type DB struct {
	*sql.DB
	Builder squirrel.StatementBuilderType
	driver  string
}

type Config struct {
	Driver         string
	DSN            string
	MigrationsPath string
	LogQueries     bool
}

// Open connects, pings, and runs pending migrations. SQLite is the default
// driver; postgres is selected with Driver set to "pgx" and a pgx DSN.
func Open(cfg Config, logger zerolog.Logger) (*DB, error) {
	driver := cfg.Driver

	if driver == "" {
		driver = DriverSQLite
	}

	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	sqlDB, err := sql.Open(driver, cfg.DSN)

	if err != nil {
		return nil, err
	}

	if cfg.LogQueries {
		loggedDB := sqldblogger.OpenDriver(cfg.DSN, sqlDB.Driver(), zerologadapter.New(logger))
		sqlDB.Close()
		sqlDB = loggedDB
	}

	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	db := &DB{
		DB:      sqlDB,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(placeholderFor(driver)),
		driver:  driver,
	}

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	return db, nil
}

func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) Migrate(migrationsPath string) error {
	var m *migrate.Migrate

	switch db.driver {
	case DriverPostgres:
		driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
		if err != nil {
			return err
		}
		m, err = migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
		if err != nil {
			return err
		}
	default:
		driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
		if err != nil {
			return err
		}
		m, err = migrate.NewWithDatabaseInstance("file://"+migrationsPath, "sqlite3", driver)
		if err != nil {
			return err
		}
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

// InTx runs fn inside a transaction, rolling back on error.
func (db *DB) InTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()

	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func placeholderFor(driver string) squirrel.PlaceholderFormat {
	if driver == DriverPostgres {
		return squirrel.Dollar
	}

	return squirrel.Question
}
