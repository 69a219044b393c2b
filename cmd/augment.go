package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alpkeskin/gotoon"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pders01/copycode/internal/config"
	"github.com/pders01/copycode/internal/models"
	"github.com/pders01/copycode/internal/site"
)

var (
	augmentDryRun  bool
	augmentJSON    bool
	augmentToon    bool
	augmentInclude []string
	augmentExclude []string
	augmentWorkers int
	augmentIDs     bool
)

var augmentCmd = &cobra.Command{
	Use:   "augment [site-dir]",
	Short: "Add copy buttons to every code block of a built site",
	Long: `Walk the site output directory and decorate each rendered code block
with a wrapper and a copy button. Pages are rewritten in place; pages without
new blocks are left untouched.

Examples:
  copycode augment public
  copycode augment site --exclude "drafts/**"
  copycode augment public --dry-run --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAugment,
}

func init() {
	rootCmd.AddCommand(augmentCmd)

	augmentCmd.Flags().BoolVar(&augmentDryRun, "dry-run", false, "Report what would change without writing")
	augmentCmd.Flags().BoolVar(&augmentJSON, "json", false, "Output as JSON")
	augmentCmd.Flags().BoolVar(&augmentToon, "toon", false, "Output in LLM-friendly toon format")
	augmentCmd.Flags().StringSliceVar(&augmentInclude, "include", []string{}, "Page patterns to include (default from config)")
	augmentCmd.Flags().StringSliceVar(&augmentExclude, "exclude", []string{}, "Page patterns to exclude")
	augmentCmd.Flags().IntVar(&augmentWorkers, "workers", 0, "Pages processed in parallel (default from config)")
	augmentCmd.Flags().BoolVar(&augmentIDs, "ids", false, "Link each button to its block with a data-copy-id")
}

// siteOptions merges config with the flags of augment and watch
func siteOptions(include, exclude []string, workers int, ids, dryRun bool) (site.Options, error) {
	cfg, err := config.Load()
	if err != nil {
		return site.Options{}, err
	}

	opts := site.Options{
		Include:  cfg.Augment.Include,
		Exclude:  append(append([]string{}, cfg.Augment.Exclude...), exclude...),
		Workers:  cfg.Augment.Workers,
		DryRun:   dryRun,
		Augment:  cfg.AugmentOptions(),
		Reporter: newLogger(),
	}
	if len(include) > 0 {
		opts.Include = include
	}
	if workers > 0 {
		opts.Workers = workers
	}
	if ids {
		opts.Augment.IDs = true
	}
	return opts, nil
}

func siteRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func runAugment(cmd *cobra.Command, args []string) error {
	opts, err := siteOptions(augmentInclude, augmentExclude, augmentWorkers, augmentIDs, augmentDryRun)
	if err != nil {
		return err
	}

	report, err := site.Process(commandContext(cmd), siteRoot(args), opts)
	if err != nil {
		return err
	}

	if err := printReport(report); err != nil {
		return err
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d page(s) failed", report.Failed)
	}
	return nil
}

func printReport(report *models.Report) error {
	if augmentJSON {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if augmentToon {
		output, err := gotoon.Encode(report)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	if len(report.Files) == 0 {
		fmt.Println("No pages found")
		return nil
	}

	for _, f := range report.Files {
		switch f.Status {
		case models.StatusAugmented:
			fmt.Printf("  ✓ %s (%d button(s))\n", f.Path, f.Controls)
		case models.StatusFailed:
			fmt.Fprintf(os.Stderr, "  ✗ %s: %s\n", f.Path, f.Error)
		}
	}

	verb := "Augmented"
	if report.DryRun {
		verb = "Would augment"
	}
	fmt.Printf("\n%s %d of %d page(s): %d button(s), %s written, %s\n",
		verb, report.Augmented, len(report.Files), report.Controls,
		humanize.Bytes(uint64(report.BytesTotal)), report.Duration.Round(time.Millisecond))

	return nil
}
