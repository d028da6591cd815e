// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
)

func TestParseFilter_TwoFactors(t *testing.T) {
	filter, err := ParseFilter("RE:White;Sex:Female")
	require.NoError(t, err)
	require.Equal(t, Filter{
		{Factor: "RE", Value: "White"},
		{Factor: "Sex", Value: "Female"},
	}, filter)
}

func TestParseFilter_TrimsWhitespace(t *testing.T) {
	filter, err := ParseFilter("RE:  White NH  ; Sex: Female  ")
	require.NoError(t, err)
	require.Equal(t, Filter{
		{Factor: "RE", Value: "White NH"},
		{Factor: "Sex", Value: "Female"},
	}, filter)
}

func TestParseFilter_EmptyYieldsEmptyPredicate(t *testing.T) {
	filter, err := ParseFilter("")
	require.NoError(t, err)
	assert.Empty(t, filter)
}

func TestParseFilter_LastEntryWinsPerFactor(t *testing.T) {
	filter, err := ParseFilter("Sex:Male;Sex:Female")
	require.NoError(t, err)
	require.Len(t, filter, 1)
	v, ok := filter.Get("Sex")
	require.True(t, ok)
	assert.Equal(t, "Female", v)
}

func TestParseFilter_Malformed(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"double colon", "RE:White:Extra"},
		{"missing colon", "REWhite"},
		{"empty segment", "RE:White;;Sex:Female"},
		{"trailing separator", "RE:White;"},
		{"empty name", ":White"},
		{"empty value", "RE:"},
		{"only separator", ";"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFilter(tc.input)
			require.Error(t, err)

			var malformed *datatypes.MalformedFilterError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tc.input, malformed.Filter)
		})
	}
}

func TestFilterGet_Missing(t *testing.T) {
	filter, err := ParseFilter("Sex:Female")
	require.NoError(t, err)
	_, ok := filter.Get("RE")
	assert.False(t, ok)
}
