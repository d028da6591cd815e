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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
	"github.com/AleutianAI/AtlasStats/services/statistics/storage/sqlite"
)

func newIngestCmd() *cobra.Command {
	var category, dataset, table string

	cmd := &cobra.Command{
		Use:   "ingest <csv-file>...",
		Short: "Load dataset CSV files into the statistics store",
		Long: `Loads one or more CSV files into a statistics table, creating the
table from the CSV header when it does not exist.

The target table is named either directly with --table, or by resolving
--category/--dataset against the registry.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if table == "" {
				if category == "" || dataset == "" {
					return fmt.Errorf("either --table or both --category and --dataset are required")
				}
				reg, err := datatypes.LoadRegistry(viper.GetString("registry_path"))
				if err != nil {
					return err
				}
				desc, err := reg.Resolve(category, dataset)
				if err != nil {
					return err
				}
				table = desc.Table
			}

			store, err := sqlite.New(sqlite.Config{Path: viper.GetString("db_path")})
			if err != nil {
				return err
			}
			defer store.Close()

			total := 0
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", path, err)
				}
				n, err := store.IngestCSV(cmd.Context(), table, f)
				f.Close()
				if err != nil {
					return fmt.Errorf("ingesting %s: %w", path, err)
				}
				fmt.Printf("Ingested %s into %s (%d rows)\n", path, table, n)
				total += n
			}
			fmt.Printf("Done: %d rows across %d files\n", total, len(args))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "registry category of the target dataset")
	cmd.Flags().StringVar(&dataset, "dataset", "", "registry name of the target dataset")
	cmd.Flags().StringVar(&table, "table", "", "target table name (bypasses the registry)")
	return cmd
}
