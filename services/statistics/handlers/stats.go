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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
	"github.com/AleutianAI/AtlasStats/services/statistics/metadata"
	"github.com/AleutianAI/AtlasStats/services/statistics/observability"
	"github.com/AleutianAI/AtlasStats/services/statistics/query"
)

// FIPSMeasureResponse is the map-view payload: the measure's full
// min/max spread for the color scale plus the per-region values under
// the requested factor selection.
type FIPSMeasureResponse struct {
	Min    *float64                   `json:"min"`
	Max    *float64                   `json:"max"`
	Values map[string]query.FIPSValue `json:"values"`
}

// GetMetadataTree returns the full discovery tree: every category,
// dataset, measure, and factor with live distinct values.
func GetMetadataTree(asm *metadata.Assembler) gin.HandlerFunc {
	return func(c *gin.Context) {
		tree, err := asm.BuildTree(c.Request.Context())
		if err != nil {
			slog.Error("metadata discovery failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "metadata discovery failed"})
			return
		}
		c.JSON(http.StatusOK, tree)
	}
}

// GetDatasetMeasures returns the distinct measure identifiers of one
// dataset, ascending.
func GetDatasetMeasures(reg *datatypes.Registry, st query.Storage, regionLimit string) gin.HandlerFunc {
	return func(c *gin.Context) {
		desc, ok := resolveDataset(c, reg)
		if !ok {
			return
		}

		rows, err := st.Query(c.Request.Context(), query.DistinctMeasures(desc, regionLimit))
		if err != nil {
			respondQueryError(c, desc, err)
			return
		}

		measures := make([]string, 0, len(rows))
		for _, row := range rows {
			if id := query.AsString(row[desc.MeasureColumn()]); id != "" {
				measures = append(measures, id)
			}
		}
		c.JSON(http.StatusOK, measures)
	}
}

// GetDataset returns raw rows of one dataset, optionally restricted to
// a measure, paginated with limit/offset.
func GetDataset(reg *datatypes.Registry, st query.Storage, regionLimit string) gin.HandlerFunc {
	return func(c *gin.Context) {
		desc, ok := resolveDataset(c, reg)
		if !ok {
			return
		}

		rows, err := st.Query(c.Request.Context(),
			query.ListRows(desc, c.Query("measure"), regionLimit))
		if err != nil {
			respondQueryError(c, desc, err)
			return
		}

		total := len(rows)
		limit, offset := getPaginationParams(c, defaultPageLimit)
		if offset > total {
			offset = total
		}
		end := offset + limit
		if end > total {
			end = total
		}

		c.JSON(http.StatusOK, gin.H{
			"data":   rows[offset:end],
			"total":  total,
			"limit":  limit,
			"offset": offset,
		})
	}
}

// GetDatasetFIPS returns FIPS-keyed values for one measure plus the
// measure's min/max for the color scale. The filters parameter narrows
// the values by factor; the min/max deliberately ignore it so the
// scale holds steady across factor selections.
func GetDatasetFIPS(reg *datatypes.Registry, st query.Storage, regionLimit string) gin.HandlerFunc {
	return func(c *gin.Context) {
		desc, ok := resolveDataset(c, reg)
		if !ok {
			return
		}

		measure := c.Query("measure")
		if measure == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "measure parameter is required"})
			return
		}

		filter, err := query.ParseFilter(c.Query("filters"))
		if err != nil {
			respondQueryError(c, desc, err)
			return
		}

		ctx := c.Request.Context()
		values, err := query.FetchFIPSValues(ctx, st, desc, measure, filter, regionLimit)
		if err != nil {
			respondQueryError(c, desc, err)
			return
		}

		r, err := query.RangeFor(ctx, st, desc, measure, regionLimit)
		if err != nil {
			respondQueryError(c, desc, err)
			return
		}

		if m := observability.DefaultMetrics; m != nil {
			m.FIPSQueriesTotal.WithLabelValues(desc.Category, desc.Name).Inc()
		}

		c.JSON(http.StatusOK, FIPSMeasureResponse{Min: r.Min, Max: r.Max, Values: values})
	}
}
