package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eps-portal/internal/config"
	"eps-portal/internal/schema"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// New connects to Postgres and returns a Bun DB handle.
func New(dsn string, cfg *config.Config) (*bun.DB, error) {
	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(60*time.Second),
		pgdriver.WithDialTimeout(15*time.Second),
		pgdriver.WithReadTimeout(60*time.Second),
		pgdriver.WithWriteTimeout(30*time.Second),
		pgdriver.WithConnParams(map[string]interface{}{
			"search_path":       cfg.DBSchema + ", public",
			"statement_timeout": "60s",
		}),
	)

	sqldb := sql.OpenDB(connector)
	db := bun.NewDB(sqldb, pgdialect.New())

	// Configure connection pool
	sqldb.SetMaxOpenConns(25)
	sqldb.SetMaxIdleConns(10)
	sqldb.SetConnMaxLifetime(5 * time.Minute)
	sqldb.SetConnMaxIdleTime(10 * time.Minute)

	// Optional query logging
	if cfg.BunDebug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the named schema, the PostGIS extension and every
// table that does not exist yet. Tables are created unqualified, so they land
// in the first schema of the connection's search_path. Existing tables are
// left untouched.
func EnsureSchema(ctx context.Context, db bun.IDB, schemaName string, tables []*schema.Table) error {
	if schemaName != "" && schemaName != "public" {
		if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS ?", bun.Ident(schemaName)); err != nil {
			return fmt.Errorf("failed to create schema %s: %w", schemaName, err)
		}
	}
	if _, err := db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS postgis"); err != nil {
		return fmt.Errorf("failed to enable postgis: %w", err)
	}
	for _, t := range tables {
		if _, err := db.ExecContext(ctx, t.CreateSQL()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.Name, err)
		}
	}
	return nil
}
