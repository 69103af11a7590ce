// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command yardctl is the operator CLI for a Yardmap deployment.
//
// It reads the same environment as the API server:
//
//	yardctl migrate up
//	yardctl seed
//	yardctl resize --length 60 --width 43
//	yardctl token --user op-1 --role admin --ttl 12h
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yardmap/internal/platform/constants"
)

func main() {
	context, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(context); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "yardctl",
		Short:         "Operate a Yardmap deployment",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	logger := func() *slog.Logger {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
			With(slog.String("app", "yardctl"))
	}

	cmd.AddCommand(
		migrateCmd(logger),
		seedCmd(logger),
		resizeCmd(logger),
		tokenCmd(),
	)
	return cmd
}
