package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpense(t *testing.T) {
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	expense := NewExpense("  Starbucks  ", 12.50, CategoryByID("food"), date, []string{"latte"}, " morning coffee ")

	assert.NotEmpty(t, expense.ID)
	assert.Equal(t, "Starbucks", expense.Merchant)
	assert.Equal(t, "morning coffee", expense.Notes)
	assert.Equal(t, "food", expense.Category.ID)
	require.NoError(t, expense.Validate())

	// IDs must be unique per expense
	other := NewExpense("Starbucks", 12.50, CategoryByID("food"), date, nil, "")
	assert.NotEqual(t, expense.ID, other.ID)
}

func TestExpenseValidate(t *testing.T) {
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		mutate  func(*Expense)
		name    string
		wantErr string
	}{
		{
			name:    "missing ID",
			mutate:  func(e *Expense) { e.ID = "" },
			wantErr: "expense ID is required",
		},
		{
			name:    "missing merchant",
			mutate:  func(e *Expense) { e.Merchant = "" },
			wantErr: "merchant is required",
		},
		{
			name:    "zero amount",
			mutate:  func(e *Expense) { e.Amount = 0 },
			wantErr: "amount must be a positive number",
		},
		{
			name:    "NaN amount",
			mutate:  func(e *Expense) { e.Amount = math.NaN() },
			wantErr: "amount must be a positive number",
		},
		{
			name:    "infinite amount",
			mutate:  func(e *Expense) { e.Amount = math.Inf(1) },
			wantErr: "amount must be a positive number",
		},
		{
			name:    "zero date",
			mutate:  func(e *Expense) { e.Date = time.Time{} },
			wantErr: "date is required",
		},
		{
			name:    "missing category",
			mutate:  func(e *Expense) { e.Category = Category{} },
			wantErr: "category is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expense := NewExpense("Starbucks", 12.50, CategoryByID("food"), date, nil, "")
			tt.mutate(&expense)
			err := expense.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
