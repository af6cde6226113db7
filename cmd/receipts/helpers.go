package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/the-receipts-must-flow/internal/ai"
	"github.com/Veraticus/the-receipts-must-flow/internal/common"
	"github.com/Veraticus/the-receipts-must-flow/internal/config"
	"github.com/Veraticus/the-receipts-must-flow/internal/extract"
	"github.com/Veraticus/the-receipts-must-flow/internal/model"
	"github.com/Veraticus/the-receipts-must-flow/internal/storage"
)

// initStorage initializes the storage layer with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/receipts/receipts.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// createAIClient creates a model client based on configuration.
// Shared by every command that needs receipt extraction.
func createAIClient() (ai.Client, error) {
	provider := viper.GetString("ai.provider")
	if provider == "" {
		provider = "openai" // default provider
	}

	cfg := ai.Config{
		Provider:    provider,
		Model:       viper.GetString("ai.model"),
		VisionModel: viper.GetString("ai.vision_model"),
		Temperature: viper.GetFloat64("ai.temperature"),
		MaxTokens:   viper.GetInt("ai.max_tokens"),
		CacheTTL:    viper.GetDuration("ai.cache_ttl"),
		RateLimit:   viper.GetInt("ai.rate_limit"),
	}

	// Set defaults if not specified. An explicit ai.rate_limit of 0
	// disables limiting.
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	if !viper.IsSet("ai.rate_limit") {
		cfg.RateLimit = 60 // requests per minute
	}

	// Check viper first, then environment variable
	apiKey := viper.GetString("ai.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, common.NewUserError(
			"AI service is not configured. Set ai.api_key in your config file, RECEIPTS_AI_API_KEY, or OPENAI_API_KEY",
			common.ErrAINotConfigured)
	}
	cfg.APIKey = apiKey

	client, err := ai.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	return client, nil
}

// createPipeline wires the AI client into an extraction pipeline.
func createPipeline() (*extract.Pipeline, error) {
	client, err := createAIClient()
	if err != nil {
		return nil, err
	}

	cfg := extract.Config{
		CacheTTL: viper.GetDuration("ai.cache_ttl"),
	}

	return extract.NewPipeline(client, cfg, slog.Default()), nil
}

// lookupCategory resolves a user-supplied category ID strictly, listing the
// valid IDs on a miss.
func lookupCategory(id string) (model.Category, error) {
	for _, cat := range model.Categories {
		if cat.ID == id {
			return cat, nil
		}
	}

	ids := make([]string, 0, len(model.Categories))
	for _, cat := range model.Categories {
		ids = append(ids, cat.ID)
	}
	return model.Category{}, fmt.Errorf("unknown category %q (valid: %v)", id, ids)
}

// parseDateFlag parses a --date value, defaulting to today when empty.
func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}
