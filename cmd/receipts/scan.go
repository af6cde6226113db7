package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/the-receipts-must-flow/internal/cli"
	"github.com/Veraticus/the-receipts-must-flow/internal/model"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [image...]",
		Short: "Extract expenses from receipt images",
		Long: `Scan one or more receipt photos. Each image is sent to the vision
model for field extraction, categorized, and printed for review.

With --save, every result is recorded as an expense using the suggested
category. Without it, scan only prints what it found; record the expense
with 'receipts expenses add' once you have confirmed the fields.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScan,
	}

	cmd.Flags().Bool("save", false, "save each result as an expense without confirmation")
	cmd.Flags().Int("concurrency", 2, "number of images processed in parallel")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	save, _ := cmd.Flags().GetBool("save")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency < 1 {
		concurrency = 1
	}

	pipeline, err := createPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Close()

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetDescription("Scanning receipts"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	results := make([]model.ExtractionResult, len(args))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range args {
		g.Go(func() error {
			image, readErr := os.ReadFile(path)
			if readErr != nil {
				return fmt.Errorf("failed to read %s: %w", path, readErr)
			}

			result := pipeline.Extract(gctx, image, imageMIMEType(path))

			mu.Lock()
			results[i] = result
			_ = bar.Add(1)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, result := range results {
		printExtraction(args[i], result)
	}

	if !save {
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	saved := 0
	for i, result := range results {
		if result.Degraded {
			fmt.Println(cli.WarningStyle.Render(
				fmt.Sprintf("Skipping %s: extraction failed, enter it manually", args[i])))
			continue
		}

		expense := model.NewExpense(result.Merchant, result.Amount, result.SuggestedCategory, result.Date, result.Items, "")
		if err := expense.Validate(); err != nil {
			fmt.Println(cli.WarningStyle.Render(
				fmt.Sprintf("Skipping %s: %v", args[i], err)))
			continue
		}
		if err := store.SaveExpense(ctx, &expense); err != nil {
			return fmt.Errorf("failed to save expense for %s: %w", args[i], err)
		}
		saved++
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Saved %d expense(s)", saved)))
	return nil
}

func printExtraction(path string, result model.ExtractionResult) {
	fmt.Println(cli.TitleStyle.Render(filepath.Base(path)))

	if result.Degraded {
		fmt.Println(cli.ErrorStyle.Render("  " + result.Merchant))
		fmt.Println(cli.SubtleStyle.Render("  " + strings.Join(result.Items, ", ")))
		fmt.Println()
		return
	}

	fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Merchant:"), result.Merchant)
	fmt.Printf("  %s %.2f\n", cli.BoldStyle.Render("Amount:"), result.Amount)
	fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Date:"), result.Date.Format("2006-01-02"))
	fmt.Printf("  %s %s %s\n", cli.BoldStyle.Render("Category:"),
		result.SuggestedCategory.Icon, result.SuggestedCategory.Name)
	fmt.Printf("  %s %.0f%%\n", cli.BoldStyle.Render("Confidence:"), result.Confidence*100)
	if len(result.Items) > 0 {
		fmt.Printf("  %s %s\n", cli.BoldStyle.Render("Items:"), strings.Join(result.Items, ", "))
	}
	fmt.Println()
}

// imageMIMEType maps a file extension to the MIME type sent to the vision
// model. Unknown extensions are treated as JPEG.
func imageMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
