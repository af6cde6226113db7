package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/the-receipts-must-flow/internal/common"
	"github.com/Veraticus/the-receipts-must-flow/internal/model"
)

// SaveExpense inserts an expense, or fully replaces it when the ID already
// exists. Expenses are never partially mutated in place.
func (s *SQLiteStorage) SaveExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(expense); err != nil {
		return err
	}

	items, err := json.Marshal(expense.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO expenses (id, merchant, amount, category_id, date, items, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query,
		expense.ID,
		expense.Merchant,
		expense.Amount,
		expense.Category.ID,
		expense.Date.UTC(),
		string(items),
		expense.Notes,
	); err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}

	slog.Debug("saved expense",
		"id", expense.ID,
		"merchant", expense.Merchant,
		"amount", expense.Amount)
	return nil
}

// GetExpense returns the expense with the given ID.
func (s *SQLiteStorage) GetExpense(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, merchant, amount, category_id, date, items, notes
		FROM expenses
		WHERE id = ?`

	expense, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}

	return expense, nil
}

// ListExpenses returns all expenses, newest first.
func (s *SQLiteStorage) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, merchant, amount, category_id, date, items, notes
		FROM expenses
		ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		expense, scanErr := scanExpense(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", scanErr)
		}
		expenses = append(expenses, *expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// DeleteExpense removes the expense with the given ID.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %s", common.ErrNotFound, id)
	}

	return nil
}

// SumByCategorySince returns the total spent in one category from the
// given instant onward. Used to derive budget spending at read time.
func (s *SQLiteStorage) SumByCategorySince(ctx context.Context, categoryID string, since time.Time) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return 0, err
	}

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE category_id = ? AND date >= ?`

	var total float64
	if err := s.db.QueryRowContext(ctx, query, categoryID, since.UTC()).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return total, nil
}

// CategorySummary returns total spending per category ID over a date
// range. Categories with no expenses are omitted.
func (s *SQLiteStorage) CategorySummary(ctx context.Context, start, end time.Time) (map[string]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %v is before start date %v", end, start)
	}

	query := `
		SELECT category_id, SUM(amount)
		FROM expenses
		WHERE date >= ? AND date < ?
		GROUP BY category_id`

	rows, err := s.db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query category summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summary := make(map[string]float64)
	for rows.Next() {
		var categoryID string
		var total float64
		if err := rows.Scan(&categoryID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary[categoryID] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary: %w", err)
	}

	return summary, nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanExpense.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanExpense reads one expense row, decoding items from JSON and
// resolving the category through the registry.
func scanExpense(row rowScanner) (*model.Expense, error) {
	var (
		expense    model.Expense
		categoryID string
		itemsJSON  string
	)

	if err := row.Scan(
		&expense.ID,
		&expense.Merchant,
		&expense.Amount,
		&categoryID,
		&expense.Date,
		&itemsJSON,
		&expense.Notes,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &expense.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	if expense.Items == nil {
		expense.Items = []string{}
	}

	expense.Category = model.CategoryByID(categoryID)
	return &expense, nil
}
