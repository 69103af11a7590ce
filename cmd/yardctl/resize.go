// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yardmap/internal/app"
	"github.com/taibuivan/yardmap/internal/platform/config"
)

func resizeCmd(logger func() *slog.Logger) *cobra.Command {
	var length, width int

	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Resize the grid, dropping cells outside the new bounds",
		Args:  cobra.NoArgs,
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

			out := cmd.OutOrStdout()
			if !result.Changed {
				fmt.Fprintf(out, "grid already %dx%d\n", result.MapLength, result.MapWidth)
				return nil
			}
			fmt.Fprintf(out, "grid %dx%d: %d cells created, %d removed, %d categories affected\n",
				result.MapLength, result.MapWidth, result.CreatedCells,
				len(result.RemovedCellIDs), len(result.AffectedCategoryIDs))
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "length", 0, "Grid length (rows along L)")
	cmd.Flags().IntVar(&width, "width", 0, "Grid width (columns along W)")
	_ = cmd.MarkFlagRequired("length")
	_ = cmd.MarkFlagRequired("width")
	return cmd
}
