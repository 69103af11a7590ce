// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yardmap/internal/platform/config"
	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/sec"
)

func tokenCmd() *cobra.Command {
	var (
		userID   string
		username string
		role     string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !sec.UserRole(role).Valid() {
				return fmt.Errorf("unknown role %q (want %s or %s)", role, sec.RoleAdmin, sec.RoleStaff)
			}
			if ttl <= 0 {
				return errors.New("--ttl must be positive")
			}

			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			if cfg.JWTPrivKeyPath == "" || cfg.JWTPubKeyPath == "" {
				return errors.New("JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH are required")
			}

			tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
			if err != nil {
				return err
			}

			if username == "" {
				username = userID
			}
			token, err := tokens.GenerateAccessToken(userID, username, role, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Operator id (uid and sub claims)")
	cmd.Flags().StringVar(&username, "name", "", "Display name; defaults to the operator id")
	cmd.Flags().StringVar(&role, "role", string(sec.RoleStaff), "Role: admin or staff")
	cmd.Flags().DurationVar(&ttl, "ttl", constants.DefaultTokenTTL, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
