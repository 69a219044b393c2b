package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/pders01/copycode/internal/site"
)

var (
	scanJSON bool
	scanToon bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <page.html>",
	Short: "List the code blocks of a page",
	Long: `Show every code block discovery finds on a page and whether it would
get a copy button. Skipped blocks carry a reason:
  inline     - code not inside a <pre>
  decorated  - block already has a copy button
  duplicate  - another code element of the same <pre> was picked

The number in brackets is the one copy takes; blocks without a button show -.

Examples:
  copycode scan public/index.html
  copycode scan public/index.html --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Output as JSON")
	scanCmd.Flags().BoolVar(&scanToon, "toon", false, "Output in LLM-friendly toon format")
}

func runScan(cmd *cobra.Command, args []string) error {
	scan, err := site.Scan(args[0])
	if err != nil {
		return err
	}

	if scanJSON {
		output, err := json.MarshalIndent(scan, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if scanToon {
		output, err := gotoon.Encode(scan)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	if len(scan.Blocks) == 0 {
		fmt.Println("No code blocks found")
		return nil
	}

	fmt.Printf("Found %d code block(s), %d with a copy button:\n\n", len(scan.Blocks), scan.Decorated)
	for _, b := range scan.Blocks {
		status := "eligible"
		if !b.Eligible {
			status = "skipped (" + b.Reason + ")"
		}
		slot := "-"
		if b.Control >= 0 {
			slot = strconv.Itoa(b.Control)
		}
		fmt.Printf("  [%s] %s\n", slot, status)
		fmt.Printf("      Lines:   %d\n", b.Lines)
		fmt.Printf("      Preview: %s\n", b.Preview)
	}

	return nil
}
