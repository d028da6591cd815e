// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
	"github.com/AleutianAI/AtlasStats/services/statistics/middleware"
	"github.com/AleutianAI/AtlasStats/services/statistics/observability"
	"github.com/AleutianAI/AtlasStats/services/statistics/routes"
	"github.com/AleutianAI/AtlasStats/services/statistics/storage/sqlite"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		// No collector configured; tracing stays off.
		return func(context.Context) {}, nil
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("statistics-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	dbPath := os.Getenv("ATLAS_DB_PATH")
	if dbPath == "" {
		dbPath = "atlas.db"
	}
	registryPath := os.Getenv("ATLAS_REGISTRY_PATH")
	if registryPath == "" {
		registryPath = "registry.yaml"
	}
	regionLimit := os.Getenv("ATLAS_LIMIT_TO_STATE")

	slog.Info("Starting Atlas statistics service",
		"db_path", dbPath,
		"registry_path", registryPath,
		"region_limit", regionLimit)

	store, err := sqlite.New(sqlite.Config{Path: dbPath, Logger: logger})
	if err != nil {
		slog.Error("failed to open statistics store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	registry, err := datatypes.LoadRegistry(registryPath)
	if err != nil {
		slog.Error("failed to load dataset registry", "error", err)
		os.Exit(1)
	}

	observability.InitMetrics()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(observability.Middleware())
	router.Use(otelgin.Middleware("statistics-service"))

	routes.SetupRoutes(router, registry, store, regionLimit)

	port := os.Getenv("ATLAS_PORT")
	if port == "" {
		port = "8010"
	}

	slog.Info("Starting statistics API server", "port", port)
	if err := router.Run(":" + port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
