// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package sqlite provides the SQLite-backed storage collaborator for the
// statistics service.
//
// The statistics tables are read-mostly reference data loaded by the
// atlas CLI, so an embedded store is the right weight: no connection
// pool to a remote database, WAL mode for concurrent readers, and the
// whole deployment is one file.
//
// The driver is modernc.org/sqlite (pure Go, no cgo), so the service
// cross-compiles cleanly.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Config holds configuration for a Store.
type Config struct {
	// Path is the database file. Ignored when InMemory is true.
	Path string

	// InMemory opens a private in-memory database.
	// Useful for testing and the ingest dry-run path.
	InMemory bool

	// Logger receives slow-query and lifecycle logs.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Store executes query plans against a SQLite database.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// New opens the database and applies the standard pragmas.
func New(cfg Config) (*Store, error) {
	dsn := cfg.Path
	if cfg.InMemory {
		dsn = ":memory:"
	}
	if dsn == "" {
		return nil, fmt.Errorf("sqlite: no database path configured")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", dsn, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: applying %q: %w", pragma, err)
		}
	}

	// The modernc driver serializes writes per connection; a single
	// connection avoids SQLITE_BUSY during ingest while readers go
	// through WAL snapshots.
	if cfg.InMemory {
		db.SetMaxOpenConns(1)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{db: db, log: logger}, nil
}

// DB exposes the underlying handle for ingest and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
