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

import "fmt"

// NotFoundError reports a category/dataset pair that is not in the
// registry. Surfaced as a client error by the HTTP layer.
type NotFoundError struct {
	// Category is the requested category slug.
	Category string

	// Dataset is the requested dataset slug. Empty when the category
	// itself is unknown.
	Dataset string
}

func (e *NotFoundError) Error() string {
	if e.Dataset == "" {
		return fmt.Sprintf("unknown category %q", e.Category)
	}
	return fmt.Sprintf("unknown dataset %q in category %q", e.Dataset, e.Category)
}

// MalformedFilterError reports a filter string that fails the
// "name:value;name:value" grammar. The offending string is echoed back
// to the client.
type MalformedFilterError struct {
	// Filter is the raw filter string as received.
	Filter string

	// Reason says which grammar rule was violated.
	Reason string
}

func (e *MalformedFilterError) Error() string {
	return fmt.Sprintf("malformed filter %q: %s", e.Filter, e.Reason)
}

// UnknownFactorError reports a filter predicate referencing a factor
// the dataset does not declare.
type UnknownFactorError struct {
	Dataset string
	Factor  string
}

func (e *UnknownFactorError) Error() string {
	return fmt.Sprintf("dataset %q has no factor %q", e.Dataset, e.Factor)
}

// FactorsNotSupportedError reports a non-empty filter predicate against
// a dataset that declares no factors at all.
type FactorsNotSupportedError struct {
	Dataset string
}

func (e *FactorsNotSupportedError) Error() string {
	return fmt.Sprintf("dataset %q does not support factor filters", e.Dataset)
}
