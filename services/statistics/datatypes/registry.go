// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"fmt"
	"os"
	"strings"

	"github.com/AleutianAI/AtlasStats/pkg/validation"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// CategoryEntry is one category from the registry file, with its
// datasets in declaration order.
type CategoryEntry struct {
	Name     string
	Label    string
	Datasets []*DatasetDescriptor
}

// Registry is the static catalog of every statistics dataset. It is
// populated once at startup from the registry YAML file and never
// written afterwards, so concurrent reads need no locking.
type Registry struct {
	categories []CategoryEntry
	index      map[string]*DatasetDescriptor
}

// --- YAML file shape ---

type registryFile struct {
	Categories []categoryConfig `yaml:"categories" validate:"required,min=1,dive"`
}

type categoryConfig struct {
	Name     string          `yaml:"name" validate:"required"`
	Label    string          `yaml:"label"`
	Datasets []datasetConfig `yaml:"datasets" validate:"required,min=1,dive"`
}

type datasetConfig struct {
	Name          string            `yaml:"name" validate:"required"`
	Label         string            `yaml:"label"`
	Variant       string            `yaml:"variant" validate:"omitempty,oneof=standard cancer"`
	Table         string            `yaml:"table" validate:"required"`
	Factors       []factorConfig    `yaml:"factors" validate:"dive"`
	MeasureLabels map[string]string `yaml:"measure_labels"`
}

type factorConfig struct {
	Name        string            `yaml:"name" validate:"required"`
	Label       string            `yaml:"label"`
	Default     *string           `yaml:"default"`
	ValueLabels map[string]string `yaml:"value_labels"`
}

// LoadRegistry reads and validates the dataset catalog from a YAML file.
//
// Table, column, and factor names from the file are checked against the
// SQL identifier sanitizer before they can ever reach a query, since
// these are the only strings that end up in SQL as identifiers rather
// than bound parameters.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry file: %w", err)
	}
	return ParseRegistry(raw)
}

// ParseRegistry builds a Registry from raw registry YAML.
func ParseRegistry(raw []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing registry YAML: %w", err)
	}

	if err := validator.New().Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid registry config: %w", err)
	}

	reg := &Registry{index: make(map[string]*DatasetDescriptor)}
	for _, cat := range file.Categories {
		label := cat.Label
		if label == "" {
			label = capitalize(cat.Name)
		}
		entry := CategoryEntry{Name: cat.Name, Label: label}

		for _, ds := range cat.Datasets {
			desc, err := buildDescriptor(cat.Name, ds)
			if err != nil {
				return nil, err
			}
			key := cat.Name + "/" + ds.Name
			if _, dup := reg.index[key]; dup {
				return nil, fmt.Errorf("duplicate dataset %q in registry", key)
			}
			reg.index[key] = desc
			entry.Datasets = append(entry.Datasets, desc)
		}
		reg.categories = append(reg.categories, entry)
	}
	return reg, nil
}

func buildDescriptor(category string, ds datasetConfig) (*DatasetDescriptor, error) {
	if err := validation.ValidateIdentifier(ds.Table); err != nil {
		return nil, fmt.Errorf("dataset %s/%s: bad table name: %w", category, ds.Name, err)
	}

	variant := VariantStandard
	if ds.Variant == string(VariantCancer) {
		variant = VariantCancer
	}

	desc := &DatasetDescriptor{
		Category:      category,
		Name:          ds.Name,
		Label:         labelOr(ds.Label, ds.Name),
		Variant:       variant,
		Table:         ds.Table,
		MeasureLabels: ds.MeasureLabels,
	}

	for _, f := range ds.Factors {
		if err := validation.ValidateIdentifier(f.Name); err != nil {
			return nil, fmt.Errorf("dataset %s/%s: bad factor column %q: %w",
				category, ds.Name, f.Name, err)
		}
		desc.Factors = append(desc.Factors, Factor{
			Name:        f.Name,
			Label:       labelOr(f.Label, f.Name),
			Default:     f.Default,
			ValueLabels: f.ValueLabels,
		})
	}
	return desc, nil
}

// Categories returns all categories with their datasets in registry
// file order.
func (r *Registry) Categories() []CategoryEntry {
	return r.categories
}

// Resolve looks up a dataset by category and name. Returns a
// NotFoundError when either is unknown.
func (r *Registry) Resolve(category, name string) (*DatasetDescriptor, error) {
	if desc, ok := r.index[category+"/"+name]; ok {
		return desc, nil
	}
	for _, cat := range r.categories {
		if cat.Name == category {
			return nil, &NotFoundError{Category: category, Dataset: name}
		}
	}
	return nil, &NotFoundError{Category: category}
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
