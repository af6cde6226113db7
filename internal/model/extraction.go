package model

import "time"

// ExtractionResult is the outcome of running a receipt image through the
// extraction pipeline. It is ephemeral: the review surface either converts
// it into an Expense or discards it.
type ExtractionResult struct {
	Date              time.Time `json:"date"`
	Merchant          string    `json:"merchant"`
	RawText           string    `json:"rawText,omitempty"`
	Items             []string  `json:"items"`
	SuggestedCategory Category  `json:"suggestedCategory"`
	Amount            float64   `json:"amount"`
	Confidence        float64   `json:"confidence"`
	Degraded          bool      `json:"degraded"`
}
