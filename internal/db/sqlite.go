package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// schemaSQL is embedded at compile time from schema.sql.
//
//go:embed schema.sql
var schemaSQL string

// memoryDSN keeps the whole store in RAM; nothing outlives the process.
const memoryDSN = ":memory:"

// DB wraps the in-memory SQLite trip store
type DB struct {
	conn *sql.DB
}

// Open creates an empty in-memory trip store with the schema applied.
func Open(ctx context.Context) (*DB, error) {
	conn, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database, so the pool must
	// never grow past one.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			log.Warnf("Failed to set %s: %v", pragma, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.ensureSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	log.Debug("Opened in-memory trip store")
	return db, nil
}

// Close closes the database connection, discarding all data
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) ensureSchema(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
