// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package metadata

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
	"github.com/AleutianAI/AtlasStats/services/statistics/query"
)

// tableStorage replays canned distinct values per (table, column).
type tableStorage struct {
	distinct map[string][]string // "table/column" -> values
}

func (s *tableStorage) Query(_ context.Context, plan query.Plan) ([]query.Row, error) {
	if len(plan.Columns) != 1 || !plan.Distinct {
		return nil, fmt.Errorf("unexpected plan: %+v", plan)
	}
	col := plan.Columns[0].Name
	values, ok := s.distinct[plan.Table+"/"+col]
	if !ok {
		return nil, fmt.Errorf("no fixture for %s/%s", plan.Table, col)
	}
	rows := make([]query.Row, len(values))
	for i, v := range values {
		rows[i] = query.Row{col: v}
	}
	return rows, nil
}

const assemblerRegistryYAML = `
categories:
  - name: county
    datasets:
      - name: cancer-incidence
        label: Cancer Incidence
        variant: cancer
        table: county_cancer_incidence
        factors:
          - name: RE
            label: Race/Ethnicity
            value_labels:
              White: White (Non-Hispanic)
          - name: Sex
            default: Total
        measure_labels:
          Lung: "Lung & Bronchus"
          Breast: ""
      - name: sociodemographics
        table: county_sociodemographics
`

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	reg, err := datatypes.ParseRegistry([]byte(assemblerRegistryYAML))
	require.NoError(t, err)

	return &Assembler{
		Registry: reg,
		Storage: &tableStorage{distinct: map[string][]string{
			"county_cancer_incidence/Site":     {"Breast", "Lung"},
			"county_cancer_incidence/RE":       {"Black", "White"},
			"county_cancer_incidence/Sex":      {"Female", "Male", "Total"},
			"county_sociodemographics/measure": {"Poverty", "Uninsured"},
		}},
	}
}

func TestBuildTree(t *testing.T) {
	asm := newTestAssembler(t)

	tree, err := asm.BuildTree(context.Background())
	require.NoError(t, err)
	require.Contains(t, tree, "county")

	county := tree["county"]
	assert.Equal(t, "County", county.Label)
	require.Contains(t, county.Datasets, "cancer-incidence")
	require.Contains(t, county.Datasets, "sociodemographics")

	cancer := county.Datasets["cancer-incidence"]
	assert.Equal(t, "Cancer Incidence", cancer.Label)
	assert.Equal(t, "Lung & Bronchus", cancer.Measures["Lung"].Label)
	// Empty configured label falls back to the raw id, never empty
	assert.Equal(t, "Breast", cancer.Measures["Breast"].Label)

	require.Contains(t, cancer.Factors, "RE")
	re := cancer.Factors["RE"]
	assert.Equal(t, "Race/Ethnicity", re.Label)
	assert.Nil(t, re.Default)
	assert.Equal(t, "White (Non-Hispanic)", re.Values["White"])
	assert.Equal(t, "Black", re.Values["Black"])

	sex := cancer.Factors["Sex"]
	require.NotNil(t, sex.Default)
	assert.Equal(t, "Total", *sex.Default)

	socio := county.Datasets["sociodemographics"]
	assert.Empty(t, socio.Factors)
	assert.Equal(t, "Poverty", socio.Measures["Poverty"].Label)
}

func TestBuildTree_Idempotent(t *testing.T) {
	asm := newTestAssembler(t)

	first, err := asm.BuildTree(context.Background())
	require.NoError(t, err)
	second, err := asm.BuildTree(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildTree_StorageErrorPropagates(t *testing.T) {
	reg, err := datatypes.ParseRegistry([]byte(assemblerRegistryYAML))
	require.NoError(t, err)

	asm := &Assembler{
		Registry: reg,
		Storage:  &tableStorage{distinct: map[string][]string{}},
	}
	_, err = asm.BuildTree(context.Background())
	require.Error(t, err)
}
