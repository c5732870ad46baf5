package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"yt-summarizer/config"
	"yt-summarizer/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS summaries (
    video_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    transcript_method TEXT NOT NULL,
    summary TEXT NOT NULL,
    cost_estimate TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_summaries_created_at ON summaries(created_at);
`

type DB struct {
	*sql.DB
	statements preparedStatements
}

func Open(cfg config.DatabaseConfig) (*DB, error) {
	const op = "sqlite.Open"

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, errors.Internal(op, err, "failed to create database directory")
	}

	sqlDB, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, errors.Internal(op, err, "failed to open database")
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConnections)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := configurePragmas(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	if err := execSchema(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	db := &DB{DB: sqlDB}
	if err := db.statements.prepare(context.Background(), sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) Close() error {
	if err := db.statements.close(); err != nil {
		db.DB.Close()
		return err
	}
	return db.DB.Close()
}

func configurePragmas(db *sql.DB) error {
	const op = "sqlite.configurePragmas"

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA cache_size = -2000", // Use up to 2MB of memory for cache
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Internal(op, err, fmt.Sprintf("failed to set pragma: %s", pragma))
		}
	}

	return nil
}

func execSchema(db *sql.DB) error {
	const op = "sqlite.execSchema"

	statements := strings.Split(schema, ";")

	tx, err := db.Begin()
	if err != nil {
		return errors.Internal(op, err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := tx.Exec(stmt); err != nil {
			return errors.Internal(
				op,
				err,
				fmt.Sprintf("failed to execute schema statement: %s", stmt),
			)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Internal(op, err, "failed to commit schema transaction")
	}

	return nil
}
