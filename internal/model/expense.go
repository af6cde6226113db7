package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidAmount indicates an expense or budget amount that is not a
// positive finite number.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// Expense represents a single confirmed expense. The category is embedded
// as a value, not referenced by a foreign key; it is resolved through the
// registry when records are loaded.
type Expense struct {
	Date     time.Time `json:"date"`
	ID       string    `json:"id"`
	Merchant string    `json:"merchant"`
	Notes    string    `json:"notes"`
	Items    []string  `json:"items"`
	Category Category  `json:"category"`
	Amount   float64   `json:"amount"`
}

// NewExpense creates an expense with a generated ID.
func NewExpense(merchant string, amount float64, category Category, date time.Time, items []string, notes string) Expense {
	return Expense{
		ID:       uuid.NewString(),
		Merchant: strings.TrimSpace(merchant),
		Amount:   amount,
		Category: category,
		Date:     date,
		Items:    items,
		Notes:    strings.TrimSpace(notes),
	}
}

// Validate checks the invariants that must hold before persistence.
func (e *Expense) Validate() error {
	if e.ID == "" {
		return errors.New("expense ID is required")
	}
	if e.Merchant == "" {
		return errors.New("merchant is required")
	}
	if err := validateAmount(e.Amount); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return errors.New("date is required")
	}
	if e.Category.ID == "" {
		return errors.New("category is required")
	}
	return nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}
