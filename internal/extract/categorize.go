package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/the-receipts-must-flow/internal/ai"
	"github.com/Veraticus/the-receipts-must-flow/internal/model"
)

// defaultParseConfidence is assumed when the model names a category but
// its confidence is missing or unparseable.
const defaultParseConfidence = 0.8

// Categorizer suggests a spending category for extracted receipt fields.
// It never fails: any model error degrades to keyword matching on the
// merchant name.
type Categorizer struct {
	client ai.Client
	logger *slog.Logger
	rules  []KeywordRule
}

// NewCategorizer creates a categorizer backed by the given model client.
// A nil rules slice selects the built-in keyword rules.
func NewCategorizer(client ai.Client, rules []KeywordRule, logger *slog.Logger) *Categorizer {
	if logger == nil {
		logger = slog.Default()
	}
	if rules == nil {
		rules = DefaultKeywordRules()
	}
	return &Categorizer{
		client: client,
		logger: logger,
		rules:  rules,
	}
}

// Categorize returns the suggested category and the model's (or the
// fallback's) confidence. Unlike field extraction, call failures are
// absorbed here and never propagate.
func (c *Categorizer) Categorize(ctx context.Context, merchant string, items []string, amount float64) (model.Category, float64) {
	content, err := c.client.Complete(ctx, c.systemPrompt(), userPrompt(merchant, items, amount))
	if err != nil {
		c.logger.Warn("categorization call failed, using keyword fallback",
			"merchant", merchant,
			"error", err)
		return c.keywordFallback(merchant)
	}

	return c.parse(content)
}

// systemPrompt enumerates every registry category so the model can only
// pick from known IDs.
func (c *Categorizer) systemPrompt() string {
	var sb strings.Builder
	for _, cat := range model.Categories {
		fmt.Fprintf(&sb, "%s: %s (%s)\n", cat.ID, cat.Name, cat.Icon)
	}

	return fmt.Sprintf(`You are an expense categorization expert. Given a merchant name, items, and amount, determine the most appropriate category from this list:

%s
Respond with only the category ID (e.g., "food", "transport", etc.) and a confidence score from 0.0 to 1.0, separated by a comma.
Example: "food,0.95"`, sb.String())
}

func userPrompt(merchant string, items []string, amount float64) string {
	itemList := strings.Join(items, ", ")
	if itemList == "" {
		itemList = "None specified"
	}

	return fmt.Sprintf(`Merchant: %s
Items: %s
Amount: $%.2f

What category best fits this expense?`, merchant, itemList, amount)
}

// parse interprets a "<categoryId>,<confidence>" answer. Unknown IDs
// resolve to the registry default; a missing or unparseable confidence
// defaults to 0.8.
func (c *Categorizer) parse(content string) (model.Category, float64) {
	parts := strings.SplitN(strings.TrimSpace(content), ",", 2)

	category := model.CategoryByID(strings.Trim(strings.TrimSpace(parts[0]), `"`))

	confidence := defaultParseConfidence
	if len(parts) == 2 {
		if v, err := strconv.ParseFloat(strings.Trim(strings.TrimSpace(parts[1]), `"`), 64); err == nil && v != 0 {
			confidence = v
		}
	}

	return category, confidence
}

// keywordFallback matches the lower-cased merchant name against the
// configured keyword rules, first match wins.
func (c *Categorizer) keywordFallback(merchant string) (model.Category, float64) {
	lower := strings.ToLower(merchant)

	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return model.CategoryByID(rule.CategoryID), rule.Confidence
			}
		}
	}

	return model.DefaultCategory(), fallbackConfidence
}
