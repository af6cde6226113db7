package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/the-receipts-must-flow/internal/ai"
	"github.com/Veraticus/the-receipts-must-flow/internal/common"
)

// receiptPrompt is the fixed instruction sent with every receipt image.
// The JSON shape is embedded in the prompt; the model's answer is still
// treated as free text.
const receiptPrompt = `Analyze this receipt image and extract the following information in JSON format:
{
  "merchant": "merchant name",
  "amount": "total amount as number",
  "date": "date in YYYY-MM-DD format",
  "items": ["list of items purchased"],
  "rawText": "all visible text on receipt"
}

If any information is unclear or missing, make reasonable assumptions or leave empty arrays/strings.`

// ReceiptFields holds the fields recovered from a receipt image. Date is
// kept raw; normalization happens in the pipeline.
type ReceiptFields struct {
	Merchant string
	Date     string
	RawText  string
	Items    []string
	Amount   float64
}

// Extractor recovers structured fields from receipt images. Unparseable
// model answers fall back to regex heuristics; transport failures are hard
// errors left for the pipeline to absorb.
type Extractor struct {
	client    ai.Client
	logger    *slog.Logger
	now       func() time.Time
	retryOpts common.RetryOptions
}

// NewExtractor creates a field extractor backed by the given model client.
func NewExtractor(client ai.Client, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		client: client,
		logger: logger,
		now:    time.Now,
		retryOpts: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
		},
	}
}

// Extract sends the image to the vision model and parses its answer.
func (e *Extractor) Extract(ctx context.Context, image []byte, mimeType string) (ReceiptFields, error) {
	var content string
	err := common.WithRetry(ctx, func() error {
		var callErr error
		content, callErr = e.client.ExtractReceipt(ctx, image, mimeType, receiptPrompt)
		return callErr
	}, e.retryOpts)
	if err != nil {
		return ReceiptFields{}, fmt.Errorf("%w: %v", common.ErrExtractionFailed, err)
	}

	return e.parse(content), nil
}

// jsonSpanRe locates the first JSON object span in a free-text answer.
// Greedy so nested objects stay intact.
var jsonSpanRe = regexp.MustCompile(`(?s)\{.*\}`)

// receiptJSON mirrors the shape requested in receiptPrompt. Amount is
// decoded leniently because models frequently quote it.
type receiptJSON struct {
	Merchant string     `json:"merchant"`
	Amount   looseFloat `json:"amount"`
	Date     string     `json:"date"`
	Items    []string   `json:"items"`
	RawText  string     `json:"rawText"`
}

func (e *Extractor) parse(content string) ReceiptFields {
	if span := jsonSpanRe.FindString(content); span != "" {
		var raw receiptJSON
		if err := json.Unmarshal([]byte(span), &raw); err == nil {
			items := raw.Items
			if items == nil {
				items = []string{}
			}
			return ReceiptFields{
				Merchant: strings.TrimSpace(raw.Merchant),
				Amount:   float64(raw.Amount),
				Date:     strings.TrimSpace(raw.Date),
				Items:    items,
				RawText:  raw.RawText,
			}
		}
		e.logger.Debug("failed to parse JSON from model answer, falling back to heuristics")
	}

	return e.heuristics(content)
}

var (
	merchantRe = regexp.MustCompile(`(?i)merchant[:\s]+([^\n,]+)`)
	amountRe   = regexp.MustCompile(`(?i)(?:total|amount)[:\s]*\$?(\d+\.?\d*)`)
	dateRe     = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4})`)
)

// heuristics recovers what it can from an answer that did not contain
// parseable JSON. Missing fields get fixed defaults.
func (e *Extractor) heuristics(text string) ReceiptFields {
	fields := ReceiptFields{
		Merchant: "Unknown Merchant",
		Date:     e.now().Format("2006-01-02"),
		Items:    []string{},
		RawText:  text,
	}

	if m := merchantRe.FindStringSubmatch(text); m != nil {
		fields.Merchant = strings.TrimSpace(m[1])
	}
	if m := amountRe.FindStringSubmatch(text); m != nil {
		fields.Amount, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := dateRe.FindStringSubmatch(text); m != nil {
		fields.Date = m[1]
	}

	return fields
}

// looseFloat decodes a JSON number that may arrive as a bare number, a
// quoted number, or a quoted amount with a currency sign. Anything
// unparseable decodes to zero rather than failing the whole object.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		*f = 0
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = looseFloat(v)
	return nil
}
