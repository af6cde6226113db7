package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Period is the recurrence window a budget ceiling applies to.
type Period string

// Budget periods.
const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Valid reports whether the period is one of the known values.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Start returns the beginning of the current period containing now.
// Weeks start on Sunday.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodWeekly:
		d := now.AddDate(0, 0, -int(now.Weekday()))
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	case PeriodYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

// Budget represents a spending ceiling for one category. Spent amounts are
// never stored; they are derived from expenses at read time.
type Budget struct {
	ID       string   `json:"id"`
	Period   Period   `json:"period"`
	Category Category `json:"category"`
	Amount   float64  `json:"amount"`
}

// NewBudget creates a budget with a generated ID.
func NewBudget(category Category, amount float64, period Period) Budget {
	return Budget{
		ID:       uuid.NewString(),
		Category: category,
		Amount:   amount,
		Period:   period,
	}
}

// Validate checks the invariants that must hold before persistence.
func (b *Budget) Validate() error {
	if b.ID == "" {
		return errors.New("budget ID is required")
	}
	if b.Category.ID == "" {
		return errors.New("category is required")
	}
	if err := validateAmount(b.Amount); err != nil {
		return err
	}
	if !b.Period.Valid() {
		return fmt.Errorf("invalid period: %q", b.Period)
	}
	return nil
}

// BudgetStatus pairs a budget with its derived spending for the current
// period.
type BudgetStatus struct {
	Budget Budget  `json:"budget"`
	Spent  float64 `json:"spent"`
}

// PercentUsed returns how much of the budget has been consumed, as a
// percentage. A zero-amount budget reports 0.
func (s BudgetStatus) PercentUsed() float64 {
	if s.Budget.Amount <= 0 {
		return 0
	}
	return s.Spent / s.Budget.Amount * 100
}

// OverBudget reports whether spending exceeds the ceiling.
func (s BudgetStatus) OverBudget() bool {
	return s.Spent > s.Budget.Amount
}

// RemainingLine formats the remaining headroom. Overspending is reported
// as a positive overage ("20.00 over budget"), never a negative remainder.
func (s BudgetStatus) RemainingLine() string {
	if s.OverBudget() {
		return fmt.Sprintf("%.2f over budget", s.Spent-s.Budget.Amount)
	}
	return fmt.Sprintf("%.2f remaining", s.Budget.Amount-s.Spent)
}
