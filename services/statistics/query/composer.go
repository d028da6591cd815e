// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package query

import (
	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
)

// Columns every statistics table carries regardless of variant.
const (
	ColumnFIPS   = "FIPS"
	ColumnCounty = "County"
	ColumnState  = "State"
)

// Aliases used to normalize variant-specific columns in result rows.
const (
	outValue          = "value"
	outSecondaryValue = "aac"
	outGEOID          = "GEOID"
	outMin            = "min"
	outMax            = "max"
)

// DistinctMeasures plans the distinct, ascending list of measure
// identifiers in a dataset. regionLimit, when non-empty, clamps the
// scan to one state (every composer treats it the same way).
func DistinctMeasures(d *datatypes.DatasetDescriptor, regionLimit string) Plan {
	col := d.MeasureColumn()
	plan := Plan{
		Table:    d.Table,
		Columns:  []Column{{Name: col}},
		Distinct: true,
		OrderBy:  []string{col},
	}
	return withRegionLimit(plan, regionLimit)
}

// DistinctFactorValues plans the distinct, ascending list of raw values
// of one factor column. Used by the metadata assembler; callers must
// pass a factor declared on the descriptor.
func DistinctFactorValues(d *datatypes.DatasetDescriptor, factor string, regionLimit string) Plan {
	plan := Plan{
		Table:    d.Table,
		Columns:  []Column{{Name: factor}},
		Distinct: true,
		OrderBy:  []string{factor},
	}
	return withRegionLimit(plan, regionLimit)
}

// ListRows plans a full-row selection for paginated browsing. An empty
// measure selects every measure.
func ListRows(d *datatypes.DatasetDescriptor, measure string, regionLimit string) Plan {
	plan := Plan{Table: d.Table}
	if measure != "" {
		plan.Where = append(plan.Where, eq(d.MeasureColumn(), measure))
	}
	return withRegionLimit(plan, regionLimit)
}

// FipsValues plans the (FIPS, value[, aac]) extraction for one measure,
// with the filter predicate applied on top of the dataset's factor
// defaults.
//
// Every factor declared on the descriptor contributes exactly one
// equality predicate: the filter's value if the filter names it, else
// the factor's default, else a match-NULL predicate. A filter that
// names an undeclared factor fails before any storage call: with
// UnknownFactorError normally, or FactorsNotSupportedError when the
// dataset declares no factors at all.
func FipsValues(d *datatypes.DatasetDescriptor, measure string, filter Filter, regionLimit string) (Plan, error) {
	if len(d.Factors) == 0 && len(filter) > 0 {
		return Plan{}, &datatypes.FactorsNotSupportedError{Dataset: d.Name}
	}
	for _, e := range filter {
		if _, ok := d.Factor(e.Factor); !ok {
			return Plan{}, &datatypes.UnknownFactorError{Dataset: d.Name, Factor: e.Factor}
		}
	}

	columns := []Column{
		{Name: ColumnFIPS},
		{Name: d.ValueColumn(), Alias: outValue},
	}
	if secondary, ok := d.SecondaryValueColumn(); ok {
		columns = append(columns, Column{Name: secondary, Alias: outSecondaryValue})
	}

	plan := Plan{
		Table:   d.Table,
		Columns: columns,
		Where:   []Predicate{eq(d.MeasureColumn(), measure)},
	}
	for _, f := range d.Factors {
		plan.Where = append(plan.Where, factorPredicate(f, filter))
	}
	return withRegionLimit(plan, regionLimit), nil
}

func factorPredicate(f datatypes.Factor, filter Filter) Predicate {
	if v, ok := filter.Get(f.Name); ok {
		return eq(f.Name, v)
	}
	if f.Default != nil {
		return eq(f.Name, *f.Default)
	}
	return isNull(f.Name)
}

// CSVRows plans the row-level export selection. Factor columns are
// selected raw and unfiltered so the export always carries every
// stratification value regardless of any filter the map view applied.
func CSVRows(d *datatypes.DatasetDescriptor, measure string, regionLimit string) Plan {
	columns := []Column{
		{Name: ColumnFIPS, Alias: outGEOID},
		{Name: ColumnCounty},
		{Name: ColumnState},
		{Name: d.MeasureColumn(), Alias: "measure"},
		{Name: d.ValueColumn(), Alias: outValue},
	}
	for _, f := range d.Factors {
		columns = append(columns, Column{Name: f.Name})
	}

	plan := Plan{Table: d.Table, Columns: columns}
	if measure != "" {
		plan.Where = append(plan.Where, eq(d.MeasureColumn(), measure))
	}
	return withRegionLimit(plan, regionLimit)
}

// CSVColumns returns the export header: the five fixed columns followed
// by the dataset's declared factor names in declaration order.
func CSVColumns(d *datatypes.DatasetDescriptor) []string {
	columns := []string{outGEOID, ColumnCounty, ColumnState, "measure", outValue}
	for _, f := range d.Factors {
		columns = append(columns, f.Name)
	}
	return columns
}

func withRegionLimit(plan Plan, regionLimit string) Plan {
	if regionLimit != "" {
		plan.Where = append(plan.Where, eq(ColumnState, regionLimit))
	}
	return plan
}
