// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
	"github.com/AleutianAI/AtlasStats/services/statistics/handlers"
	"github.com/AleutianAI/AtlasStats/services/statistics/metadata"
	"github.com/AleutianAI/AtlasStats/services/statistics/query"
)

// SetupRoutes wires the statistics API. Dataset routes use path params
// plus the registry as the dispatch table; nothing here is generated
// per dataset.
func SetupRoutes(router *gin.Engine, reg *datatypes.Registry, st query.Storage, regionLimit string) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	asm := &metadata.Assembler{Registry: reg, Storage: st, RegionLimit: regionLimit}

	v1 := router.Group("/v1")
	{
		stats := v1.Group("/stats")
		{
			stats.GET("/measures", handlers.GetMetadataTree(asm))
			stats.GET("/:category/:dataset", handlers.GetDataset(reg, st, regionLimit))
			stats.GET("/:category/:dataset/measures", handlers.GetDatasetMeasures(reg, st, regionLimit))
			stats.GET("/:category/:dataset/fips-value", handlers.GetDatasetFIPS(reg, st, regionLimit))
			stats.GET("/:category/:dataset/as-csv", handlers.DownloadDataset(reg, st, regionLimit))
		}
	}
}
