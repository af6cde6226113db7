package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodStart(t *testing.T) {
	// Wednesday, March 13 2024
	now := time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period Period
		want   time.Time
	}{
		{
			name:   "weekly starts on Sunday",
			period: PeriodWeekly,
			want:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "monthly starts on the first",
			period: PeriodMonthly,
			want:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "yearly starts on January first",
			period: PeriodYearly,
			want:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.Start(now))
		})
	}
}

func TestPeriodStartOnSunday(t *testing.T) {
	// A Sunday is already the start of its week.
	sunday := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), PeriodWeekly.Start(sunday))
}

func TestPeriodValid(t *testing.T) {
	assert.True(t, PeriodWeekly.Valid())
	assert.True(t, PeriodMonthly.Valid())
	assert.True(t, PeriodYearly.Valid())
	assert.False(t, Period("daily").Valid())
	assert.False(t, Period("").Valid())
}

func TestBudgetValidate(t *testing.T) {
	valid := NewBudget(CategoryByID("food"), 300, PeriodMonthly)
	require.NoError(t, valid.Validate())

	tests := []struct {
		mutate  func(*Budget)
		name    string
		wantErr string
	}{
		{
			name:    "missing ID",
			mutate:  func(b *Budget) { b.ID = "" },
			wantErr: "budget ID is required",
		},
		{
			name:    "missing category",
			mutate:  func(b *Budget) { b.Category = Category{} },
			wantErr: "category is required",
		},
		{
			name:    "zero amount",
			mutate:  func(b *Budget) { b.Amount = 0 },
			wantErr: "amount must be a positive number",
		},
		{
			name:    "negative amount",
			mutate:  func(b *Budget) { b.Amount = -50 },
			wantErr: "amount must be a positive number",
		},
		{
			name:    "invalid period",
			mutate:  func(b *Budget) { b.Period = "fortnightly" },
			wantErr: "invalid period",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := NewBudget(CategoryByID("food"), 300, PeriodMonthly)
			tt.mutate(&budget)
			err := budget.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBudgetStatusRemainingLine(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		spent float64
		limit float64
		over  bool
	}{
		{
			name:  "under budget",
			limit: 100,
			spent: 40,
			want:  "60.00 remaining",
		},
		{
			name:  "over budget reports positive overage",
			limit: 100,
			spent: 120,
			want:  "20.00 over budget",
			over:  true,
		},
		{
			name:  "exactly at budget is not over",
			limit: 100,
			spent: 100,
			want:  "0.00 remaining",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := BudgetStatus{
				Budget: NewBudget(CategoryByID("food"), tt.limit, PeriodMonthly),
				Spent:  tt.spent,
			}
			assert.Equal(t, tt.want, status.RemainingLine())
			assert.Equal(t, tt.over, status.OverBudget())
		})
	}
}

func TestBudgetStatusPercentUsed(t *testing.T) {
	status := BudgetStatus{
		Budget: NewBudget(CategoryByID("food"), 200, PeriodMonthly),
		Spent:  50,
	}
	assert.InDelta(t, 25.0, status.PercentUsed(), 0.001)

	zero := BudgetStatus{Budget: Budget{Amount: 0}, Spent: 50}
	assert.Zero(t, zero.PercentUsed())
}
