// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yardmap/internal/platform/config"
	"github.com/taibuivan/yardmap/internal/platform/migration"
)

func migrateCmd(logger func() *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger())
		},
	})
	return cmd
}
