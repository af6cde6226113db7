package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/the-receipts-must-flow/internal/common"
	"github.com/Veraticus/the-receipts-must-flow/internal/model"
)

// SaveBudget inserts a budget, or fully replaces it when the ID already
// exists.
func (s *SQLiteStorage) SaveBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	query := `
		INSERT OR REPLACE INTO budgets (id, category_id, amount, period)
		VALUES (?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query,
		budget.ID,
		budget.Category.ID,
		budget.Amount,
		string(budget.Period),
	); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}

	slog.Debug("saved budget",
		"id", budget.ID,
		"category", budget.Category.ID,
		"amount", budget.Amount,
		"period", budget.Period)
	return nil
}

// GetBudget returns the budget with the given ID.
func (s *SQLiteStorage) GetBudget(ctx context.Context, id string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, category_id, amount, period
		FROM budgets
		WHERE id = ?`

	budget, err := scanBudget(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: budget %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}

	return budget, nil
}

// ListBudgets returns all budgets in creation order.
func (s *SQLiteStorage) ListBudgets(ctx context.Context) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, category_id, amount, period
		FROM budgets
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		budget, scanErr := scanBudget(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", scanErr)
		}
		budgets = append(budgets, *budget)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

// DeleteBudget removes the budget with the given ID.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: budget %s", common.ErrNotFound, id)
	}

	return nil
}

// BudgetStatuses returns every budget paired with its derived spending
// for the period containing now. Spent amounts are never stored.
func (s *SQLiteStorage) BudgetStatuses(ctx context.Context, now time.Time) ([]model.BudgetStatus, error) {
	budgets, err := s.ListBudgets(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]model.BudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		spent, sumErr := s.SumByCategorySince(ctx, budget.Category.ID, budget.Period.Start(now))
		if sumErr != nil {
			return nil, fmt.Errorf("failed to derive spending for budget %s: %w", budget.ID, sumErr)
		}
		statuses = append(statuses, model.BudgetStatus{
			Budget: budget,
			Spent:  spent,
		})
	}

	return statuses, nil
}

// scanBudget reads one budget row, resolving the category through the
// registry.
func scanBudget(row rowScanner) (*model.Budget, error) {
	var (
		budget     model.Budget
		categoryID string
		period     string
	)

	if err := row.Scan(
		&budget.ID,
		&categoryID,
		&budget.Amount,
		&period,
	); err != nil {
		return nil, err
	}

	budget.Category = model.CategoryByID(categoryID)
	budget.Period = model.Period(period)
	return &budget, nil
}
