// Package database centralises sqlx connection helpers for the optional
// `database` submission backend.  The driver is go-sql-driver/mysql, which
// also works with MariaDB.
//
// Public entry points:
//
//	Open(dsn, password)              – parse, override password, and ping.
//	Migrate(ctx, db, statements)     – apply idempotent DDL in order.
//
// Open pings the database before returning so callers can fail fast during
// bootstrap.  Callers should Close() the returned *sqlx.DB when done.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Open returns a *sqlx.DB with conservative pool sizes: 10 max open, 5 idle,
// and a 30-minute connection lifetime.  A non-empty password replaces the
// one carried by dsn, so the DSN can live in YAML and the secret in Vault.
func Open(ctx context.Context, dsn, password string) (*sqlx.DB, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if password != "" {
		mc.Passwd = password
	}
	mc.ParseTime = true

	db, err := sqlx.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db %s@%s: %w", mc.User, mc.Addr, err)
	}
	return db, nil
}

// Migrate executes each statement in order.  Statements must be idempotent
// (CREATE TABLE IF NOT EXISTS and friends); there is no version table.
func Migrate(ctx context.Context, db *sqlx.DB, statements []string) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
