// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
	"github.com/AleutianAI/AtlasStats/services/statistics/observability"
	"github.com/AleutianAI/AtlasStats/services/statistics/query"
)

// DownloadDataset streams one dataset (optionally one measure of it) as
// a CSV attachment. Factor columns are exported raw and unfiltered.
func DownloadDataset(reg *datatypes.Registry, st query.Storage, regionLimit string) gin.HandlerFunc {
	return func(c *gin.Context) {
		desc, ok := resolveDataset(c, reg)
		if !ok {
			return
		}

		measure := c.Query("measure")
		if measure != "" {
			slog.Info("CSV download",
				"category", desc.Category, "dataset", desc.Name,
				"measure", measure, "measure_label", desc.MeasureLabel(measure))
		} else {
			slog.Info("CSV download for all measures",
				"category", desc.Category, "dataset", desc.Name)
		}

		rows, err := st.Query(c.Request.Context(), query.CSVRows(desc, measure, regionLimit))
		if err != nil {
			respondQueryError(c, desc, err)
			return
		}

		body, err := query.RenderCSV(desc, rows)
		if err != nil {
			respondQueryError(c, desc, err)
			return
		}

		if m := observability.DefaultMetrics; m != nil {
			m.CSVExportsTotal.WithLabelValues(desc.Category, desc.Name).Inc()
		}

		filename := query.CSVFilename(desc, measure)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(http.StatusOK, "text/csv", body)
	}
}
