// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		wantErr    bool
	}{
		{"simple lowercase", "county_cancer_incidence", false},
		{"mixed case", "FIPS", false},
		{"leading underscore", "_internal", false},
		{"single letter", "x", false},
		{"digits after first char", "table2", false},
		{"max length", strings.Repeat("a", 64), false},

		{"empty", "", true},
		{"leading digit", "2fast", true},
		{"space", "bad col", true},
		{"hyphen", "cancer-incidence", true},
		{"semicolon injection", "t; DROP TABLE users", true},
		{"quote", `t"name`, true},
		{"unicode", "tablé", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.identifier)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.identifier, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIdentifiers(t *testing.T) {
	if err := ValidateIdentifiers([]string{"GEOID", "County", "State"}); err != nil {
		t.Errorf("expected valid list to pass, got %v", err)
	}

	err := ValidateIdentifiers([]string{"GEOID", "bad col", "also-bad"})
	if err == nil {
		t.Fatal("expected error for invalid names")
	}
	if !strings.Contains(err.Error(), "bad col") || !strings.Contains(err.Error(), "also-bad") {
		t.Errorf("error should list every invalid name: %v", err)
	}

	if err := ValidateIdentifiers(nil); err != nil {
		t.Errorf("nil list should pass, got %v", err)
	}
}
