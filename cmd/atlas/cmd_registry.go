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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AleutianAI/AtlasStats/services/statistics/datatypes"
)

func newRegistryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "registry",
		Short: "Validate and print the dataset registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := datatypes.LoadRegistry(viper.GetString("registry_path"))
			if err != nil {
				return err
			}

			for _, cat := range reg.Categories() {
				fmt.Printf("%s (%s)\n", cat.Name, cat.Label)
				for _, ds := range cat.Datasets {
					fmt.Printf("  %s  table=%s variant=%s\n", ds.Name, ds.Table, ds.Variant)
					for _, f := range ds.Factors {
						def := "-"
						if f.Default != nil {
							def = *f.Default
						}
						fmt.Printf("    factor %s (%s) default=%s values=%d\n",
							f.Name, f.Label, def, len(f.ValueLabels))
					}
				}
			}
			return nil
		},
	}
}
