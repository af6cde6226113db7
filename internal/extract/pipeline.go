package extract

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/the-receipts-must-flow/internal/ai"
	"github.com/Veraticus/the-receipts-must-flow/internal/model"
)

// Degraded result constants. The pipeline is a total function: when it
// cannot produce real data it returns this fixed placeholder so the user
// is routed into manual entry instead of seeing an error.
const (
	degradedMerchant   = "Processing Failed"
	degradedItem       = "Please enter details manually"
	degradedConfidence = 0.1
)

// defaultCapConfidence is the ceiling applied to every reported
// confidence. AI suggestions are never fully certain.
const defaultCapConfidence = 0.95

// Config holds the pipeline's policy knobs.
type Config struct {
	// KeywordRules overrides the built-in categorization fallback rules.
	KeywordRules []KeywordRule
	// CapConfidence overrides the 0.95 confidence ceiling.
	CapConfidence float64
	// CacheTTL controls how long extraction results are reused for
	// identical images.
	CacheTTL time.Duration
}

// Pipeline sequences field extraction and categorization into one
// ExtractionResult. Extract never returns an error.
type Pipeline struct {
	extractor     *Extractor
	categorizer   *Categorizer
	cache         *resultCache
	logger        *slog.Logger
	now           func() time.Time
	capConfidence float64
}

// NewPipeline creates an extraction pipeline backed by the given model
// client.
func NewPipeline(client ai.Client, cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	ceiling := cfg.CapConfidence
	if ceiling == 0 {
		ceiling = defaultCapConfidence
	}

	return &Pipeline{
		extractor:     NewExtractor(client, logger),
		categorizer:   NewCategorizer(client, cfg.KeywordRules, logger),
		cache:         newResultCache(cfg.CacheTTL),
		logger:        logger,
		now:           time.Now,
		capConfidence: ceiling,
	}
}

// Close releases pipeline resources.
func (p *Pipeline) Close() {
	p.cache.Close()
}

// Extract runs the full pipeline over one receipt image. All failures
// degrade to the fixed placeholder result; callers never branch on error.
func (p *Pipeline) Extract(ctx context.Context, image []byte, mimeType string) model.ExtractionResult {
	key := fmt.Sprintf("%x", sha256.Sum256(image))
	if result, ok := p.cache.get(key); ok {
		p.logger.Debug("extraction cache hit", "image_hash", key[:12])
		return result
	}

	fields, err := p.extractor.Extract(ctx, image, mimeType)
	if err != nil {
		p.logger.Error("field extraction failed, returning degraded result", "error", err)
		return p.degradedResult()
	}

	category, confidence := p.categorizer.Categorize(ctx, fields.Merchant, fields.Items, fields.Amount)

	merchant := fields.Merchant
	if merchant == "" {
		merchant = "Unknown Merchant"
	}
	items := fields.Items
	if items == nil {
		items = []string{}
	}

	result := model.ExtractionResult{
		Merchant:          merchant,
		Amount:            fields.Amount,
		Date:              p.normalizeDate(fields.Date),
		Items:             items,
		RawText:           fields.RawText,
		SuggestedCategory: category,
		Confidence:        p.clamp(confidence),
	}

	p.logger.Info("receipt extracted",
		"merchant", result.Merchant,
		"amount", result.Amount,
		"category", result.SuggestedCategory.ID,
		"confidence", result.Confidence)

	p.cache.set(key, result)
	return result
}

// clamp bounds a confidence to [0, capConfidence].
func (p *Pipeline) clamp(confidence float64) float64 {
	if confidence > p.capConfidence {
		return p.capConfidence
	}
	if confidence < 0 {
		return 0
	}
	return confidence
}

// normalizeDate turns the raw extracted date into a calendar date. Only
// dash- or slash-delimited strings are parsed; both delimiters go through
// the same parser. Anything else falls back to the current date, a
// deliberately narrow policy.
func (p *Pipeline) normalizeDate(raw string) time.Time {
	if strings.ContainsAny(raw, "-/") {
		if t, ok := parseReceiptDate(raw); ok {
			return t
		}
	}
	return p.now()
}

var receiptDateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2006/1/2",
}

func parseReceiptDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range receiptDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// degradedResult is the fixed placeholder returned when the pipeline
// cannot produce real data.
func (p *Pipeline) degradedResult() model.ExtractionResult {
	return model.ExtractionResult{
		Merchant:          degradedMerchant,
		Amount:            0,
		Date:              p.now(),
		Items:             []string{degradedItem},
		SuggestedCategory: model.DefaultCategory(),
		Confidence:        degradedConfidence,
		Degraded:          true,
	}
}
