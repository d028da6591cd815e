// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package sqlite

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/AleutianAI/AtlasStats/pkg/validation"
)

// IngestCSV loads one CSV file into the named table, creating the table
// from the header if it does not exist. Returns the number of rows
// inserted.
//
// Columns get NUMERIC affinity so numeric-looking cells (AAR, value)
// are stored as numbers and MIN/MAX aggregate numerically, while
// free-text cells (Site, County) stay text. Empty cells become NULL,
// which is what the match-NULL factor predicates expect for
// unstratified rows.
func (s *Store) IngestCSV(ctx context.Context, table string, r io.Reader) (int, error) {
	if err := validation.ValidateIdentifier(table); err != nil {
		return 0, fmt.Errorf("sqlite: bad table name: %w", err)
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("sqlite: reading CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if err := validation.ValidateIdentifiers(header); err != nil {
		return 0, fmt.Errorf("sqlite: bad CSV header: %w", err)
	}

	cols := make([]string, len(header))
	marks := make([]string, len(header))
	for i, h := range header {
		cols[i] = quoteIdent(h) + " NUMERIC"
		marks[i] = "?"
	}
	createStmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(table), strings.Join(cols, ", "))
	if _, err := s.db.ExecContext(ctx, createStmt); err != nil {
		return 0, fmt.Errorf("sqlite: creating table %q: %w", table, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: starting ingest transaction: %w", err)
	}
	defer tx.Rollback()

	quoted := make([]string, len(header))
	for i, h := range header {
		quoted[i] = quoteIdent(h)
	}
	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return 0, fmt.Errorf("sqlite: preparing insert: %w", err)
	}
	defer insert.Close()

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("sqlite: reading CSV row %d: %w", count+1, err)
		}

		args := make([]any, len(header))
		for i := range header {
			cell := ""
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			if cell == "" {
				args[i] = nil
			} else {
				args[i] = cell
			}
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("sqlite: inserting row %d into %q: %w", count+1, table, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: committing ingest: %w", err)
	}

	s.log.Info("CSV ingest complete", "table", table, "rows", count)
	return count, nil
}
