// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package query composes storage-agnostic query plans for the statistics
// datasets and normalizes the two table variants into one response shape.
//
// Nothing in this package talks to storage directly. Composers translate
// a (descriptor, filter, measure) tuple into a Plan; the Storage
// collaborator executes plans and hands back homogeneous Row records.
// The exec helpers in this package are the only pieces that call
// Storage, and they are pure request-scoped transformations otherwise.
package query

import "context"

// Row is one storage record keyed by output column name (the alias when
// a selection is aliased, the column name otherwise).
type Row map[string]any

// Column is one selected column, optionally renamed in the result.
type Column struct {
	Name  string
	Alias string
}

// Out returns the name the column has in result rows.
func (c Column) Out() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// Predicate is an equality restriction on a column. A nil Value matches
// rows where the column is NULL/unset, not "ignore this filter".
type Predicate struct {
	Column string
	Value  *string
}

// AggFunc names an aggregate the storage layer must support.
type AggFunc string

const (
	AggMin AggFunc = "MIN"
	AggMax AggFunc = "MAX"
)

// Aggregate is one aggregate selection in a plan.
type Aggregate struct {
	Func   AggFunc
	Column string
	Alias  string
}

// Plan is an abstract selection over one table: which columns (or
// aggregates) to read, which equality predicates to apply, and the
// ordering. A Plan with a nil Columns slice selects all columns.
type Plan struct {
	Table      string
	Columns    []Column
	Aggregates []Aggregate
	Distinct   bool
	Where      []Predicate
	OrderBy    []string
}

// Storage executes plans against the backing relational store. It must
// support DISTINCT, MIN/MAX, and equality/NULL predicates.
type Storage interface {
	Query(ctx context.Context, plan Plan) ([]Row, error)
}

// eq builds an equality predicate against a literal value.
func eq(column, value string) Predicate {
	return Predicate{Column: column, Value: &value}
}

// isNull builds a match-NULL predicate.
func isNull(column string) Predicate {
	return Predicate{Column: column}
}
