// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package metadata builds the discovery tree the frontend uses to
// populate its dataset/measure/factor pickers.
//
// The tree is derived per request from the registry plus live distinct
// values in storage, never cached: measures and factor values reflect
// what is actually in the tables right now, while labels and defaults
// come from the static registry.
package metadata

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
	"github.com/AleutianAI/AtlasStats/services/statistics/query"
)

// discoveryConcurrency bounds how many datasets are interrogated at
// once. Each dataset costs one distinct-measures query plus one
// distinct-values query per factor.
const discoveryConcurrency = 4

// MeasureMeta is the metadata for one measure.
type MeasureMeta struct {
	Label string `json:"label"`
}

// FactorMeta is the metadata for one factor: its label, optional
// default, and the live distinct raw values with display labels.
type FactorMeta struct {
	Label   string            `json:"label"`
	Default *string           `json:"default,omitempty"`
	Values  map[string]string `json:"values"`
}

// DatasetMeta is the metadata for one dataset.
type DatasetMeta struct {
	Label    string                 `json:"label"`
	Measures map[string]MeasureMeta `json:"measures"`
	Factors  map[string]FactorMeta  `json:"factors,omitempty"`
}

// CategoryMeta is the metadata for one category.
type CategoryMeta struct {
	Label    string                 `json:"label"`
	Datasets map[string]DatasetMeta `json:"datasets"`
}

// Tree is the full discovery tree keyed by category slug.
type Tree map[string]CategoryMeta

// Assembler walks the registry and storage to build discovery trees.
type Assembler struct {
	Registry    *datatypes.Registry
	Storage     query.Storage
	RegionLimit string
}

// BuildTree assembles the discovery tree for every registered dataset.
//
// Two calls against unchanged storage return structurally identical
// trees. Defaults are copied verbatim from the registry with no check
// against the distinct-value set; an invalid default simply yields an
// empty filtered result downstream.
func (a *Assembler) BuildTree(ctx context.Context) (Tree, error) {
	tree := make(Tree, len(a.Registry.Categories()))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(discoveryConcurrency)

	for _, cat := range a.Registry.Categories() {
		mu.Lock()
		tree[cat.Name] = CategoryMeta{
			Label:    cat.Label,
			Datasets: make(map[string]DatasetMeta, len(cat.Datasets)),
		}
		mu.Unlock()

		for _, desc := range cat.Datasets {
			g.Go(func() error {
				meta, err := a.datasetMeta(ctx, desc)
				if err != nil {
					return err
				}
				mu.Lock()
				tree[desc.Category].Datasets[desc.Name] = meta
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tree, nil
}

func (a *Assembler) datasetMeta(ctx context.Context, d *datatypes.DatasetDescriptor) (DatasetMeta, error) {
	meta := DatasetMeta{Label: d.Label}

	rows, err := a.Storage.Query(ctx, query.DistinctMeasures(d, a.RegionLimit))
	if err != nil {
		return DatasetMeta{}, fmt.Errorf("discovering measures for %s/%s: %w", d.Category, d.Name, err)
	}
	meta.Measures = make(map[string]MeasureMeta, len(rows))
	for _, row := range rows {
		id := query.AsString(row[d.MeasureColumn()])
		if id == "" {
			continue
		}
		meta.Measures[id] = MeasureMeta{Label: d.MeasureLabel(id)}
	}

	if len(d.Factors) > 0 {
		meta.Factors = make(map[string]FactorMeta, len(d.Factors))
		for _, f := range d.Factors {
			rows, err := a.Storage.Query(ctx, query.DistinctFactorValues(d, f.Name, a.RegionLimit))
			if err != nil {
				return DatasetMeta{}, fmt.Errorf("discovering values of factor %q for %s/%s: %w",
					f.Name, d.Category, d.Name, err)
			}
			values := make(map[string]string, len(rows))
			for _, row := range rows {
				raw := query.AsString(row[f.Name])
				if raw == "" {
					continue
				}
				values[raw] = f.ValueLabel(raw)
			}
			meta.Factors[f.Name] = FactorMeta{Label: f.Label, Default: f.Default, Values: values}
		}
	}
	return meta, nil
}
