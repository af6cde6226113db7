package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-receipts-must-flow/internal/cli"
	"github.com/Veraticus/the-receipts-must-flow/internal/model"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Manage recorded expenses",
	}

	cmd.AddCommand(expensesAddCmd())
	cmd.AddCommand(expensesListCmd())
	cmd.AddCommand(expensesEditCmd())
	cmd.AddCommand(expensesDeleteCmd())
	cmd.AddCommand(expensesSummaryCmd())

	return cmd
}

func expensesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense manually",
		Long: `Record an expense without scanning a receipt. This is also the path
for receipts the scanner could not read.`,
		RunE: runExpensesAdd,
	}

	cmd.Flags().String("merchant", "", "merchant name (required)")
	cmd.Flags().Float64("amount", 0, "amount spent (required)")
	cmd.Flags().String("category", "other", "category ID (see 'receipts categories')")
	cmd.Flags().String("date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringSlice("item", nil, "line item, repeatable")
	cmd.Flags().String("notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("merchant")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runExpensesAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	merchant, _ := cmd.Flags().GetString("merchant")
	amount, _ := cmd.Flags().GetFloat64("amount")
	categoryID, _ := cmd.Flags().GetString("category")
	dateFlag, _ := cmd.Flags().GetString("date")
	items, _ := cmd.Flags().GetStringSlice("item")
	notes, _ := cmd.Flags().GetString("notes")

	category, err := lookupCategory(categoryID)
	if err != nil {
		return err
	}

	date, err := parseDateFlag(dateFlag)
	if err != nil {
		return err
	}

	expense := model.NewExpense(merchant, amount, category, date, items, notes)
	if err := expense.Validate(); err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveExpense(ctx, &expense); err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Recorded %s %.2f at %s (%s)",
		category.Icon, expense.Amount, expense.Merchant, expense.ID)))
	return nil
}

func expensesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			expenses, err := store.ListExpenses(ctx)
			if err != nil {
				return err
			}

			if len(expenses) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No expenses recorded yet."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Expenses"))
			fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("%-10s    %-18s %8s  %s", "Date", "Merchant", "Amount", "ID")))
			for _, e := range expenses {
				line := fmt.Sprintf("%s  %s %-18s %8.2f  %s",
					e.Date.Format("2006-01-02"),
					e.Category.Icon,
					e.Merchant,
					e.Amount,
					cli.SubtleStyle.Render(e.ID))
				fmt.Println(line)
				if e.Notes != "" {
					fmt.Println(cli.SubtleStyle.Render("    " + e.Notes))
				}
			}
			return nil
		},
	}
}

func expensesEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a recorded expense",
		Args:  cobra.ExactArgs(1),
		RunE:  runExpensesEdit,
	}

	cmd.Flags().String("merchant", "", "new merchant name")
	cmd.Flags().Float64("amount", 0, "new amount")
	cmd.Flags().String("category", "", "new category ID")
	cmd.Flags().String("date", "", "new date as YYYY-MM-DD")
	cmd.Flags().String("notes", "", "new notes")

	return cmd
}

func runExpensesEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	expense, err := store.GetExpense(ctx, args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("merchant") {
		expense.Merchant, _ = cmd.Flags().GetString("merchant")
	}
	if cmd.Flags().Changed("amount") {
		expense.Amount, _ = cmd.Flags().GetFloat64("amount")
	}
	if cmd.Flags().Changed("category") {
		categoryID, _ := cmd.Flags().GetString("category")
		category, lookupErr := lookupCategory(categoryID)
		if lookupErr != nil {
			return lookupErr
		}
		expense.Category = category
	}
	if cmd.Flags().Changed("date") {
		dateFlag, _ := cmd.Flags().GetString("date")
		date, parseErr := parseDateFlag(dateFlag)
		if parseErr != nil {
			return parseErr
		}
		expense.Date = date
	}
	if cmd.Flags().Changed("notes") {
		expense.Notes, _ = cmd.Flags().GetString("notes")
	}

	if err := expense.Validate(); err != nil {
		return err
	}
	if err := store.SaveExpense(ctx, expense); err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render("✓ Updated " + expense.ID))
	return nil
}

func expensesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteExpense(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Deleted " + args[0]))
			return nil
		},
	}
}

func expensesSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show spending per category for a date range",
		RunE:  runExpensesSummary,
	}

	cmd.Flags().String("from", "", "start date as YYYY-MM-DD (default: first of this month)")
	cmd.Flags().String("to", "", "end date as YYYY-MM-DD, exclusive (default: first of next month)")

	return cmd
}

func runExpensesSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	start, err := parseDateFlag("")
	if err != nil {
		return err
	}
	start = model.PeriodMonthly.Start(start)
	end := start.AddDate(0, 1, 0)

	if cmd.Flags().Changed("from") {
		from, _ := cmd.Flags().GetString("from")
		if start, err = parseDateFlag(from); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("to") {
		to, _ := cmd.Flags().GetString("to")
		if end, err = parseDateFlag(to); err != nil {
			return err
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summary, err := store.CategorySummary(ctx, start, end)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Spending %s to %s",
		start.Format("2006-01-02"), end.Format("2006-01-02"))))

	if len(summary) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No spending in this range."))
		return nil
	}

	var total float64
	for _, cat := range model.Categories {
		spent, ok := summary[cat.ID]
		if !ok {
			continue
		}
		fmt.Printf("%s %-18s %10.2f\n", cat.Icon, cat.Name, spent)
		total += spent
	}

	fmt.Println(cli.BoldStyle.Render(fmt.Sprintf("  %-18s %10.2f", "Total", total)))
	return nil
}
