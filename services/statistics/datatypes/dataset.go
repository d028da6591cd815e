// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes holds the static dataset catalog for the statistics
// service: which tables exist, how their columns are named, which
// stratification factors they support, and the human labels for all of it.
//
// Everything in this package is built once at startup from the registry
// YAML file and is read-only afterwards, so it is safe for unsynchronized
// concurrent reads across requests.
package datatypes

// Variant selects the column naming convention of the underlying table.
//
// The statistics tables come in two shapes that differ only in column
// names: the standard shape uses (measure, value) and the cancer-registry
// shape uses (Site, AAR, AAC). The variant is resolved into canonical
// column names exactly once, when a query plan is built, so nothing
// downstream ever branches on it again.
type Variant string

const (
	// VariantStandard tables carry (measure, value) columns.
	VariantStandard Variant = "standard"

	// VariantCancer tables carry (Site, AAR, AAC) columns, where AAR is
	// the age-adjusted rate and AAC the age-adjusted count.
	VariantCancer Variant = "cancer"
)

// Factor describes one stratification dimension a dataset supports
// filtering by (e.g. Sex, Race/Ethnicity). The Name is the literal column
// name on the underlying table.
type Factor struct {
	// Name is the factor's column name on the table.
	Name string

	// Label is the display label for the factor itself.
	Label string

	// Default is the value applied when a request does not filter on
	// this factor. Nil means no default: unfiltered requests match rows
	// where the factor column is NULL.
	Default *string

	// ValueLabels maps raw factor values to display labels.
	ValueLabels map[string]string
}

// ValueLabel returns the display label for a raw factor value, falling
// back to the raw value when no non-empty label is configured.
func (f Factor) ValueLabel(raw string) string {
	if label, ok := f.ValueLabels[raw]; ok && label != "" {
		return label
	}
	return raw
}

// DatasetDescriptor is the immutable record describing one statistics
// table. Descriptors are created once at startup by the Registry and
// shared read-only by all requests.
type DatasetDescriptor struct {
	// Category is the geographic family slug (e.g. "country", "tract").
	Category string

	// Name is the dataset slug, unique within its category.
	Name string

	// Label is the display label for the dataset.
	Label string

	// Variant selects the table's column naming convention.
	Variant Variant

	// Table is the name of the backing table.
	Table string

	// Factors lists the declared stratification dimensions in
	// declaration order. Empty for datasets without factors.
	Factors []Factor

	// MeasureLabels maps measure identifiers to display labels.
	MeasureLabels map[string]string
}

// MeasureColumn returns the column holding the measure identifier.
func (d *DatasetDescriptor) MeasureColumn() string {
	if d.Variant == VariantCancer {
		return "Site"
	}
	return "measure"
}

// ValueColumn returns the column holding the measure's numeric value.
func (d *DatasetDescriptor) ValueColumn() string {
	if d.Variant == VariantCancer {
		return "AAR"
	}
	return "value"
}

// SecondaryValueColumn returns the optional secondary value column.
// Only cancer-variant tables carry one (AAC).
func (d *DatasetDescriptor) SecondaryValueColumn() (string, bool) {
	if d.Variant == VariantCancer {
		return "AAC", true
	}
	return "", false
}

// MeasureLabel returns the display label for a measure identifier,
// falling back to the raw identifier when no non-empty label is
// configured. The fallback rule is shared with the metadata tree so a
// measure never surfaces with an empty label.
func (d *DatasetDescriptor) MeasureLabel(id string) string {
	if label, ok := d.MeasureLabels[id]; ok && label != "" {
		return label
	}
	return id
}

// Factor returns the declared factor with the given name.
func (d *DatasetDescriptor) Factor(name string) (Factor, bool) {
	for _, f := range d.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return Factor{}, false
}
