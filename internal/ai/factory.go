package ai

import (
	"fmt"
	"strings"
)

// NewClient creates a model client based on the provided configuration.
// When a rate limit is configured, the client is wrapped so that every
// call waits for token-bucket admission first.
func NewClient(cfg Config) (Client, error) {
	var client Client
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		client, err = newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, err
	}

	if cfg.RateLimit > 0 {
		client = &rateLimitedClient{
			inner:   client,
			limiter: newRateLimiter(cfg.RateLimit),
		}
	}

	return client, nil
}
