// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
	"github.com/AleutianAI/AtlasStats/services/statistics/query"
)

const cancerCSV = `FIPS,County,State,Site,AAR,AAC,RE,Sex
21001,Adair,Kentucky,Lung,55.2,12,White,Female
21001,Adair,Kentucky,Lung,70.1,20,White,Male
21001,Adair,Kentucky,Lung,62.0,31,,Total
21003,Allen,Kentucky,Lung,48.7,9,,Total
21003,Allen,Kentucky,Breast,33.1,7,,Total
47001,Anderson,Tennessee,Lung,51.3,11,,Total
`

func strptr(s string) *string { return &s }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	n, err := store.IngestCSV(context.Background(), "county_cancer_incidence",
		strings.NewReader(cancerCSV))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	return store
}

func testDescriptor() *datatypes.DatasetDescriptor {
	return &datatypes.DatasetDescriptor{
		Category: "county",
		Name:     "cancer-incidence",
		Variant:  datatypes.VariantCancer,
		Table:    "county_cancer_incidence",
		Factors: []datatypes.Factor{
			{Name: "RE"},
			{Name: "Sex", Default: strptr("Total")},
		},
	}
}

func TestBuildSQL(t *testing.T) {
	plan, err := query.FipsValues(testDescriptor(), "Lung", nil, "Kentucky")
	require.NoError(t, err)

	stmt, args := buildSQL(plan)
	assert.Equal(t,
		`SELECT "FIPS", "AAR" AS "value", "AAC" AS "aac" FROM "county_cancer_incidence"`+
			` WHERE "Site" = ? AND "RE" IS NULL AND "Sex" = ? AND "State" = ?`,
		stmt)
	assert.Equal(t, []any{"Lung", "Total", "Kentucky"}, args)
}

func TestBuildSQL_DistinctOrdered(t *testing.T) {
	stmt, args := buildSQL(query.DistinctMeasures(testDescriptor(), ""))
	assert.Equal(t, `SELECT DISTINCT "Site" FROM "county_cancer_incidence" ORDER BY "Site" ASC`, stmt)
	assert.Empty(t, args)
}

func TestBuildSQL_SelectStar(t *testing.T) {
	stmt, _ := buildSQL(query.ListRows(testDescriptor(), "", ""))
	assert.Equal(t, `SELECT * FROM "county_cancer_incidence"`, stmt)
}

func TestQuery_DistinctMeasures(t *testing.T) {
	store := newTestStore(t)

	rows, err := store.Query(context.Background(),
		query.DistinctMeasures(testDescriptor(), ""))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// ordered ascending
	assert.Equal(t, "Breast", query.AsString(rows[0]["Site"]))
	assert.Equal(t, "Lung", query.AsString(rows[1]["Site"]))
}

func TestQuery_FipsValuesAppliesDefaultsAndNullMatch(t *testing.T) {
	store := newTestStore(t)
	d := testDescriptor()

	// No filter: RE resolves to IS NULL, Sex to the Total default.
	values, err := query.FetchFIPSValues(context.Background(), store, d, "Lung", nil, "")
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, 62.0, values["21001"].Value)
	assert.Equal(t, 48.7, values["21003"].Value)
	require.NotNil(t, values["21003"].AAC)
	assert.Equal(t, 9.0, *values["21003"].AAC)
}

func TestQuery_FipsValuesWithFilter(t *testing.T) {
	store := newTestStore(t)

	filter, err := query.ParseFilter("RE:White;Sex:Female")
	require.NoError(t, err)

	values, err := query.FetchFIPSValues(context.Background(), store, testDescriptor(),
		"Lung", filter, "")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, 55.2, values["21001"].Value)
}

func TestQuery_RangeIgnoresFactorFilters(t *testing.T) {
	store := newTestStore(t)
	d := testDescriptor()

	// Min/max cover every RE/Sex stratum of the measure, not just the
	// default Total rows.
	r, err := query.RangeFor(context.Background(), store, d, "Lung", "")
	require.NoError(t, err)
	require.NotNil(t, r.Min)
	require.NotNil(t, r.Max)
	assert.Equal(t, 48.7, *r.Min)
	assert.Equal(t, 70.1, *r.Max)
}

func TestQuery_RangeEmptyMeasure(t *testing.T) {
	store := newTestStore(t)

	r, err := query.RangeFor(context.Background(), store, testDescriptor(), "Prostate", "")
	require.NoError(t, err)
	assert.Nil(t, r.Min)
	assert.Nil(t, r.Max)
}

func TestQuery_RegionLimit(t *testing.T) {
	store := newTestStore(t)
	d := testDescriptor()

	values, err := query.FetchFIPSValues(context.Background(), store, d, "Lung", nil, "Kentucky")
	require.NoError(t, err)
	assert.NotContains(t, values, "47001")

	all, err := query.FetchFIPSValues(context.Background(), store, d, "Lung", nil, "")
	require.NoError(t, err)
	assert.Contains(t, all, "47001")
}

func TestIngestCSV_RejectsBadTable(t *testing.T) {
	store, err := New(Config{InMemory: true})
	require.NoError(t, err)
	defer store.Close()

	_, err = store.IngestCSV(context.Background(), "x; DROP TABLE y", strings.NewReader("a\n1\n"))
	require.Error(t, err)
}

func TestIngestCSV_RejectsBadHeader(t *testing.T) {
	store, err := New(Config{InMemory: true})
	require.NoError(t, err)
	defer store.Close()

	_, err = store.IngestCSV(context.Background(), "ok_table",
		strings.NewReader("good,\"bad col\"\n1,2\n"))
	require.Error(t, err)
}
