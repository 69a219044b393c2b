package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pders01/copycode/internal/models"
	"github.com/pders01/copycode/internal/site"
)

var (
	watchInclude []string
	watchExclude []string
	watchIDs     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [site-dir]",
	Short: "Keep a site augmented while it is rebuilt",
	Long: `Augment the site once, then watch it and augment every page the site
generator writes again. Stop with Ctrl-C.

Example:
  copycode watch public`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSliceVar(&watchInclude, "include", []string{}, "Page patterns to include (default from config)")
	watchCmd.Flags().StringSliceVar(&watchExclude, "exclude", []string{}, "Page patterns to exclude")
	watchCmd.Flags().BoolVar(&watchIDs, "ids", false, "Link each button to its block with a data-copy-id")
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := siteOptions(watchInclude, watchExclude, 0, watchIDs, false)
	if err != nil {
		return err
	}
	root := siteRoot(args)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := site.Process(ctx, root, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Augmented %d of %d page(s), watching %s\n", report.Augmented, len(report.Files), root)

	return watchSite(ctx, root, opts)
}

func watchSite(ctx context.Context, root string, opts site.Options) error {
	return site.Watch(ctx, root, opts, func(fr models.FileReport) {
		if fr.Status == models.StatusFailed {
			fmt.Fprintf(os.Stderr, "  ✗ %s: %s\n", fr.Path, fr.Error)
			return
		}
		fmt.Printf("  ✓ %s (%d button(s))\n", fr.Path, fr.Controls)
	})
}
