// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for configuration-provided names that
// are interpolated into SQL as identifiers (table and column names).
// Request-provided values never go through here: they are always passed
// to the database as bound parameters.
package validation

import (
	"fmt"
	"regexp"
)

// identifierPattern matches safe SQL identifiers.
// Allows: letters, digits, underscores; must not start with a digit.
// Max length: 64 characters.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// ValidateIdentifier validates a table or column name before it is used
// as a SQL identifier.
//
// Valid identifiers:
//   - 1-64 characters
//   - Letters A-Z / a-z, digits 0-9, underscores
//   - First character is not a digit
//
// Returns an error if the name is invalid.
//
// Example:
//
//	if err := validation.ValidateIdentifier(table); err != nil {
//	    return fmt.Errorf("bad table name: %w", err)
//	}
//	// Safe to quote into a SQL statement
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}

	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q (must be 1-64 letters, digits, or underscores, not starting with a digit)", name)
	}

	return nil
}

// ValidateIdentifiers validates multiple identifiers.
// Returns an error listing all invalid names if any fail validation.
func ValidateIdentifiers(names []string) error {
	var invalid []string
	for _, n := range names {
		if err := ValidateIdentifier(n); err != nil {
			invalid = append(invalid, n)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid identifiers: %v", invalid)
	}
	return nil
}
