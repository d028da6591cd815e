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
	"context"
	"fmt"
	"strconv"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
)

// MeasureRange is the min/max spread of a measure's value column. Both
// bounds are nil when the measure has no rows.
type MeasureRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// FIPSValue is one region's normalized measurement. AAC is only present
// for cancer-variant datasets.
type FIPSValue struct {
	Value float64  `json:"value"`
	AAC   *float64 `json:"aac,omitempty"`
}

// MeasureRangePlan plans the MIN/MAX aggregation over the value column
// for one measure.
func MeasureRangePlan(d *datatypes.DatasetDescriptor, measure string, regionLimit string) Plan {
	valueCol := d.ValueColumn()
	plan := Plan{
		Table: d.Table,
		Aggregates: []Aggregate{
			{Func: AggMin, Column: valueCol, Alias: outMin},
			{Func: AggMax, Column: valueCol, Alias: outMax},
		},
		Where: []Predicate{eq(d.MeasureColumn(), measure)},
	}
	return withRegionLimit(plan, regionLimit)
}

// RangeFor computes the measure's full min/max spread.
//
// Factor filters are deliberately NOT applied here even when the
// corresponding FipsValues call carries them: the range drives the map
// color scale, and keeping it stable across factor selections is the
// documented policy. Only the measure and region restrictions are
// shared with the extraction query.
func RangeFor(ctx context.Context, st Storage, d *datatypes.DatasetDescriptor, measure string, regionLimit string) (MeasureRange, error) {
	rows, err := st.Query(ctx, MeasureRangePlan(d, measure, regionLimit))
	if err != nil {
		return MeasureRange{}, fmt.Errorf("range query for %s/%s: %w", d.Category, d.Name, err)
	}
	if len(rows) == 0 {
		return MeasureRange{}, nil
	}

	var r MeasureRange
	if v, ok := AsFloat(rows[0][outMin]); ok {
		r.Min = &v
	}
	if v, ok := AsFloat(rows[0][outMax]); ok {
		r.Max = &v
	}
	return r, nil
}

// FetchFIPSValues executes the FipsValues plan and normalizes the rows
// into a FIPS-keyed map. Rows with a NULL value column are skipped:
// they cannot be rendered on the map either way.
func FetchFIPSValues(ctx context.Context, st Storage, d *datatypes.DatasetDescriptor, measure string, filter Filter, regionLimit string) (map[string]FIPSValue, error) {
	plan, err := FipsValues(d, measure, filter, regionLimit)
	if err != nil {
		return nil, err
	}

	rows, err := st.Query(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("fips-value query for %s/%s: %w", d.Category, d.Name, err)
	}

	values := make(map[string]FIPSValue, len(rows))
	for _, row := range rows {
		fips := AsString(row[ColumnFIPS])
		if fips == "" {
			continue
		}
		v, ok := AsFloat(row[outValue])
		if !ok {
			continue
		}
		fv := FIPSValue{Value: v}
		if _, hasSecondary := d.SecondaryValueColumn(); hasSecondary {
			if aac, ok := AsFloat(row[outSecondaryValue]); ok {
				fv.AAC = &aac
			}
		}
		values[fips] = fv
	}
	return values, nil
}

// AsFloat coerces a storage cell into a float64. Database drivers hand
// numeric columns back as int64, float64, string, or []byte depending
// on the stored affinity.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AsString coerces a storage cell into its string form. NULL cells
// come back empty.
func AsString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprintf("%v", x)
	}
}
