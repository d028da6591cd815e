// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// The atlas CLI administers the statistics store: it loads dataset CSV
// files into the SQLite database and inspects the dataset registry.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Administer the Atlas statistics store",
	Long: `atlas loads statistics tables into the service's SQLite store and
inspects the dataset registry the service runs against.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("db", "atlas.db", "path to the SQLite database")
	rootCmd.PersistentFlags().String("registry", "registry.yaml", "path to the dataset registry YAML")

	viper.SetEnvPrefix("ATLAS")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("registry_path", rootCmd.PersistentFlags().Lookup("registry"))

	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newRegistryCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
