package ai

import (
	"context"
	"time"
)

// Client defines the interface for vision/text model providers.
type Client interface {
	// ExtractReceipt sends a receipt image to a vision-capable model and
	// returns the model's free-text answer.
	ExtractReceipt(ctx context.Context, image []byte, mimeType string, prompt string) (string, error)
	// Complete sends a text prompt with a system instruction and returns
	// the model's free-text answer.
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// Config holds configuration for model providers.
type Config struct {
	Provider    string
	APIKey      string
	Model       string // text model for categorization
	VisionModel string // vision-capable model for field extraction
	BaseURL     string // override for tests; defaults to the provider endpoint
	Temperature float64
	CacheTTL    time.Duration
	MaxTokens   int
	RateLimit   int // requests per minute; 0 disables limiting
}
