package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-receipts-must-flow/internal/common"
	"github.com/Veraticus/the-receipts-must-flow/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the expense tracker over HTTP",
		Long: `Expose receipt scanning, expenses, budgets, and categories as a JSON
API for external review surfaces. The server runs until interrupted.

Without an AI API key the server still starts; the scan endpoint then
returns 503 with setup instructions.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080, or server.addr from config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("server.addr")
	}
	if addr == "" {
		addr = ":8080"
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// A missing API key degrades the scan endpoint rather than blocking
	// the whole server.
	var extractor server.ReceiptExtractor
	pipeline, err := createPipeline()
	switch {
	case err == nil:
		defer pipeline.Close()
		extractor = pipeline
	case errors.Is(err, common.ErrAINotConfigured):
		slog.Warn("AI service not configured, receipt scanning disabled", "error", err)
	default:
		return err
	}

	srv := server.New(addr, store, extractor, slog.Default())
	return srv.ListenAndServe(ctx)
}
