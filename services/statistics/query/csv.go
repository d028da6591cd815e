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
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses whitespace/punctuation runs
// into single hyphens, trimming leading and trailing hyphens.
// e.g. "Colon & Rectum" -> "colon-rectum".
func Slugify(s string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

// CSVFilename returns the download filename for an export:
// COE_<slug of selected measure, or the dataset name>_<category>.csv.
func CSVFilename(d *datatypes.DatasetDescriptor, selectedMeasure string) string {
	name := selectedMeasure
	if name == "" {
		name = d.Name
	}
	return fmt.Sprintf("COE_%s_%s.csv", Slugify(name), d.Category)
}

// RenderCSV renders extraction rows from a CSVRows plan into a complete
// CSV document: the CSVColumns header, then one line per row with the
// measure cell replaced by its display label. Output is buffered whole;
// the datasets in scope are county/tract tables, not bulk exports.
func RenderCSV(d *datatypes.DatasetDescriptor, rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := CSVColumns(d)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		record[0] = AsString(row[outGEOID])
		record[1] = AsString(row[ColumnCounty])
		record[2] = AsString(row[ColumnState])
		record[3] = d.MeasureLabel(AsString(row["measure"]))
		record[4] = AsString(row[outValue])
		for i, f := range d.Factors {
			record[5+i] = AsString(row[f.Name])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}
