package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-receipts-must-flow/internal/cli"
	"github.com/Veraticus/the-receipts-must-flow/internal/common"
	"github.com/Veraticus/the-receipts-must-flow/internal/model"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage category budgets",
	}

	cmd.AddCommand(budgetsSetCmd())
	cmd.AddCommand(budgetsListCmd())
	cmd.AddCommand(budgetsDeleteCmd())
	cmd.AddCommand(budgetsStatusCmd())

	return cmd
}

func budgetsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Set a spending ceiling for a category",
		Long: `Set a budget for a category. One budget exists per category and
period; setting it again replaces the ceiling.`,
		Args: cobra.ExactArgs(2),
		RunE: runBudgetsSet,
	}

	cmd.Flags().String("period", "monthly", "budget period (weekly, monthly, yearly)")

	return cmd
}

func runBudgetsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	category, err := lookupCategory(args[0])
	if err != nil {
		return err
	}

	var amount float64
	if _, err := fmt.Sscanf(args[1], "%f", &amount); err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}

	periodFlag, _ := cmd.Flags().GetString("period")
	period := model.Period(periodFlag)

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Replace an existing budget for the same category and period instead
	// of stacking a second one.
	budget := model.NewBudget(category, amount, period)
	existing, err := store.ListBudgets(ctx)
	if err != nil {
		return err
	}
	for _, b := range existing {
		if b.Category.ID == category.ID && b.Period == period {
			budget.ID = b.ID
			break
		}
	}

	if err := budget.Validate(); err != nil {
		return err
	}
	if err := store.SaveBudget(ctx, &budget); err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %s %s budget set to %.2f (%s)",
		category.Icon, category.Name, amount, period)))
	return nil
}

func budgetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budgets, err := store.ListBudgets(ctx)
			if err != nil {
				return err
			}

			if len(budgets) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No budgets configured. Try 'receipts budgets set food 300'."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Budgets"))
			for _, b := range budgets {
				fmt.Printf("%s %-18s %10.2f / %-7s  %s\n",
					b.Category.Icon, b.Category.Name, b.Amount, b.Period,
					cli.SubtleStyle.Render(b.ID))
			}
			return nil
		},
	}
}

func budgetsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id-or-category>",
		Short: "Remove a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			err = store.DeleteBudget(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				// Allow deleting by category ID for convenience.
				budgets, listErr := store.ListBudgets(ctx)
				if listErr != nil {
					return listErr
				}
				for _, b := range budgets {
					if b.Category.ID == args[0] {
						err = store.DeleteBudget(ctx, b.ID)
						break
					}
				}
			}
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Budget removed"))
			return nil
		},
	}
}

func budgetsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show spending against each budget",
		Long: `Show every budget with the amount spent so far in its current
period. Spending is derived from recorded expenses at read time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			statuses, err := store.BudgetStatuses(ctx, time.Now())
			if err != nil {
				return err
			}

			if len(statuses) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No budgets configured."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Budget status"))
			fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("  %-18s %8s / %8s", "Category", "Spent", "Budget")))
			var totalBudget, totalSpent float64
			for _, s := range statuses {
				line := s.RemainingLine()
				styled := cli.SuccessStyle.Render(line)
				if s.OverBudget() {
					styled = cli.ErrorStyle.Render(line)
				} else if s.PercentUsed() >= 80 {
					styled = cli.WarningStyle.Render(line)
				}

				fmt.Printf("%s %-18s %8.2f / %8.2f (%3.0f%%)  %s\n",
					s.Budget.Category.Icon,
					s.Budget.Category.Name,
					s.Spent,
					s.Budget.Amount,
					s.PercentUsed(),
					styled)

				totalBudget += s.Budget.Amount
				totalSpent += s.Spent
			}

			overall := model.BudgetStatus{Budget: model.Budget{Amount: totalBudget}, Spent: totalSpent}
			fmt.Println(cli.BoldStyle.Render(fmt.Sprintf("  %-18s %8.2f / %8.2f  %s",
				"Overall", totalSpent, totalBudget, overall.RemainingLine())))
			return nil
		},
	}
}
