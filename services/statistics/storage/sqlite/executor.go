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
	"fmt"
	"strings"
	"time"

	"github.com/AleutianAI/AtlasStats/services/statistics/query"
)

// slowQueryThreshold is where a plan execution gets a warn log.
const slowQueryThreshold = 500 * time.Millisecond

// Query translates an abstract plan into parameterized SQL and executes
// it, returning rows as column-keyed records.
//
// Identifiers in plans come exclusively from the validated registry, so
// they are safe to quote into the statement. Every predicate value is a
// bound parameter.
func (s *Store) Query(ctx context.Context, plan query.Plan) ([]query.Row, error) {
	stmt, args := buildSQL(plan)

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: executing plan on %q: %w", plan.Table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading columns: %w", err)
	}

	var out []query.Row
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite: scanning row: %w", err)
		}

		record := make(query.Row, len(cols))
		for i, col := range cols {
			if b, ok := cells[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = cells[i]
			}
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating rows: %w", err)
	}

	if elapsed := time.Since(start); elapsed > slowQueryThreshold {
		s.log.Warn("slow query", "table", plan.Table, "elapsed", elapsed, "rows", len(out))
	}
	return out, nil
}

// buildSQL renders a plan as a SELECT statement plus bound arguments.
func buildSQL(plan query.Plan) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if plan.Distinct {
		b.WriteString("DISTINCT ")
	}

	switch {
	case len(plan.Aggregates) > 0:
		parts := make([]string, len(plan.Aggregates))
		for i, agg := range plan.Aggregates {
			parts[i] = fmt.Sprintf("%s(%s) AS %s",
				agg.Func, quoteIdent(agg.Column), quoteIdent(agg.Alias))
		}
		b.WriteString(strings.Join(parts, ", "))
	case len(plan.Columns) > 0:
		parts := make([]string, len(plan.Columns))
		for i, col := range plan.Columns {
			if col.Alias != "" {
				parts[i] = quoteIdent(col.Name) + " AS " + quoteIdent(col.Alias)
			} else {
				parts[i] = quoteIdent(col.Name)
			}
		}
		b.WriteString(strings.Join(parts, ", "))
	default:
		b.WriteString("*")
	}

	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(plan.Table))

	var args []any
	if len(plan.Where) > 0 {
		clauses := make([]string, len(plan.Where))
		for i, pred := range plan.Where {
			if pred.Value == nil {
				clauses[i] = quoteIdent(pred.Column) + " IS NULL"
			} else {
				clauses[i] = quoteIdent(pred.Column) + " = ?"
				args = append(args, *pred.Value)
			}
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}

	if len(plan.OrderBy) > 0 {
		ordered := make([]string, len(plan.OrderBy))
		for i, col := range plan.OrderBy {
			ordered[i] = quoteIdent(col) + " ASC"
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(ordered, ", "))
	}

	return b.String(), args
}

// quoteIdent double-quotes an identifier. Registry validation already
// rejects names containing quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
