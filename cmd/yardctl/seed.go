// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yardmap/internal/app"
	"github.com/taibuivan/yardmap/internal/platform/config"
	"github.com/taibuivan/yardmap/internal/yard/layout"
)

// Grid of a freshly installed yard.
const (
	seedLength = 60
	seedWidth  = 43
)

func seedCmd(logger func() *slog.Logger) *cobra.Command {
	var length, width int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Initialize the grid and the default category legend",
		Long: `Seed sizes the grid (60x43 unless overridden) and creates the default
categories without cells. Categories whose name already exists are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			deps, err := app.Open(cmd.Context(), cfg, logger())
			if err != nil {
				return err
			}
			defer deps.Close()

			result, err := deps.Layout.Resize(cmd.Context(), length, width)
			if err != nil {
				return err
			}

			created, err := deps.Layout.SeedCategories(cmd.Context(), layout.DefaultSeed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "grid %dx%d (%d cells created)\n", result.MapLength, result.MapWidth, result.CreatedCells)
			fmt.Fprintf(out, "%d categories created, %d already present\n", len(created), len(layout.DefaultSeed)-len(created))
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "length", seedLength, "Grid length (rows along L)")
	cmd.Flags().IntVar(&width, "width", seedWidth, "Grid width (columns along W)")
	return cmd
}
