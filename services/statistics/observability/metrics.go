// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the statistics
// service: request counters by endpoint and status, query latency, and
// per-dataset extraction/export counters.
//
// Metrics are exposed via the /metrics endpoint. All operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "atlas"

// Subsystem for the statistics API
const statsSubsystem = "stats"

// StatsMetrics holds all Prometheus metrics for the statistics API.
type StatsMetrics struct {
	// RequestsTotal counts HTTP requests.
	// Labels: path (route template), status (HTTP status code)
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures end-to-end handler latency.
	// Labels: path (route template)
	RequestDurationSeconds *prometheus.HistogramVec

	// FIPSQueriesTotal counts fips-value extractions.
	// Labels: category, dataset
	FIPSQueriesTotal *prometheus.CounterVec

	// CSVExportsTotal counts CSV downloads.
	// Labels: category, dataset
	CSVExportsTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance of StatsMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *StatsMetrics

// InitMetrics creates and registers all metrics. Call once at startup
// before any handler runs.
func InitMetrics() *StatsMetrics {
	DefaultMetrics = &StatsMetrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: statsSubsystem,
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"path", "status"}),

		RequestDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: statsSubsystem,
			Name:      "request_duration_seconds",
			Help:      "Handler latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),

		FIPSQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: statsSubsystem,
			Name:      "fips_queries_total",
			Help:      "FIPS value extractions by dataset.",
		}, []string{"category", "dataset"}),

		CSVExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: statsSubsystem,
			Name:      "csv_exports_total",
			Help:      "CSV downloads by dataset.",
		}, []string{"category", "dataset"}),
	}
	return DefaultMetrics
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		if DefaultMetrics == nil {
			return
		}
		DefaultMetrics.RequestsTotal.
			WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()
		DefaultMetrics.RequestDurationSeconds.
			WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}
