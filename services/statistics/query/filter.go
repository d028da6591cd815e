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
	"strings"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
)

// FilterEntry is one factor restriction from a parsed filter string.
type FilterEntry struct {
	Factor string
	Value  string
}

// Filter is an ordered factor-name to value predicate set, parsed from
// the "name:value;name:value" wire format. A later entry for the same
// factor overwrites the earlier one, like a map assignment.
type Filter []FilterEntry

// Get returns the value for a factor name.
func (f Filter) Get(factor string) (string, bool) {
	for _, e := range f {
		if e.Factor == factor {
			return e.Value, true
		}
	}
	return "", false
}

// ParseFilter parses a filter string into a Filter.
//
// Grammar: entry (";" entry)*, entry := name ":" value. Whitespace
// around names and values is trimmed; names and values must be
// non-empty and must not themselves contain ':' or ';'. An empty input
// yields an empty Filter, same as an absent parameter.
//
// The parser is purely syntactic. Whether a factor exists on a given
// dataset is checked later when the plan is composed, so a bad filter
// is rejected before any storage call is issued either way.
func ParseFilter(raw string) (Filter, error) {
	if raw == "" {
		return nil, nil
	}

	var filter Filter
	for _, segment := range strings.Split(raw, ";") {
		parts := strings.Split(segment, ":")
		if len(parts) != 2 {
			reason := "entry must be name:value"
			if len(parts) > 2 {
				reason = "entry has more than one ':'"
			}
			return nil, &datatypes.MalformedFilterError{Filter: raw, Reason: reason}
		}

		name := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if name == "" {
			return nil, &datatypes.MalformedFilterError{Filter: raw, Reason: "empty factor name"}
		}
		if value == "" {
			return nil, &datatypes.MalformedFilterError{Filter: raw, Reason: "empty factor value"}
		}

		filter = filter.set(name, value)
	}
	return filter, nil
}

func (f Filter) set(factor, value string) Filter {
	for i, e := range f {
		if e.Factor == factor {
			f[i].Value = value
			return f
		}
	}
	return append(f, FilterEntry{Factor: factor, Value: value})
}
