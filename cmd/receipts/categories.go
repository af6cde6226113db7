package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-receipts-must-flow/internal/cli"
	"github.com/Veraticus/the-receipts-must-flow/internal/model"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the spending categories",
		Long: `List the fixed set of spending categories. Category IDs are what
'expenses add --category' and 'budgets set' accept.`,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cli.TitleStyle.Render("Categories"))
			for _, cat := range model.Categories {
				fmt.Printf("%s %-15s %s\n",
					cat.Icon,
					cli.BoldStyle.Render(cat.ID),
					cli.SubtleStyle.Render(cat.Name))
			}
		},
	}
}
