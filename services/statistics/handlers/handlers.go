// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the HTTP surface of the statistics
// service. Every dataset endpoint is one generic handler that resolves
// :category/:dataset against the registry — the registry is the
// dispatch table, there is no per-dataset code.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
)

const defaultPageLimit = 100

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "atlas-statistics"})
}

// resolveDataset maps the :category/:dataset path segments to a
// descriptor, writing the 404 response itself when the pair is unknown.
func resolveDataset(c *gin.Context, reg *datatypes.Registry) (*datatypes.DatasetDescriptor, bool) {
	category := c.Param("category")
	name := c.Param("dataset")

	desc, err := reg.Resolve(category, name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return desc, true
}

// respondQueryError translates core errors into status codes. Parsing
// and validation failures are client errors with the triggering
// dataset/factor echoed; anything else is a storage failure that gets
// logged and surfaced as a generic 500.
func respondQueryError(c *gin.Context, d *datatypes.DatasetDescriptor, err error) {
	var (
		malformed    *datatypes.MalformedFilterError
		unknown      *datatypes.UnknownFactorError
		notSupported *datatypes.FactorsNotSupportedError
	)
	switch {
	case errors.As(err, &malformed), errors.As(err, &unknown), errors.As(err, &notSupported):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    err.Error(),
			"category": d.Category,
			"dataset":  d.Name,
		})
	default:
		slog.Error("storage query failed",
			"category", d.Category, "dataset", d.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
	}
}

// getPaginationParams reads limit/offset query params with defaults.
func getPaginationParams(c *gin.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
