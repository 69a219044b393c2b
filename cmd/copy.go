package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/copycode/internal/augment"
	"github.com/pders01/copycode/internal/clipboard"
	"github.com/pders01/copycode/internal/config"
	"github.com/pders01/copycode/internal/diag"
	"github.com/pders01/copycode/internal/dom"
	"github.com/pders01/copycode/internal/sched"
)

var (
	copyWait bool
)

// Pathway constructors, replaced in tests
var (
	newPrimary  = func() augment.Primary { return clipboard.NewSystem() }
	newFallback = func(r diag.Reporter) augment.Fallback {
		f := clipboard.NewFallback()
		f.Reporter = r
		return f
	}
)

var copyCmd = &cobra.Command{
	Use:   "copy <page.html> [index]",
	Short: "Press a page's copy button from the terminal",
	Long: `Activate the copy button of one code block and put the block's text on
the system clipboard. The page may be augmented already or not; it is never
modified on disk.

The system clipboard is tried first. If it is unavailable or refuses the
write, the text is handed to pbcopy, wl-copy, xclip, xsel or clip.

Blocks are numbered from 0 in page order, the same numbers scan shows.

Examples:
  copycode copy public/index.html
  copycode copy public/index.html 2 --wait`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)

	copyCmd.Flags().BoolVar(&copyWait, "wait", false, "Wait for the button label to revert")
}

func runCopy(cmd *cobra.Command, args []string) error {
	index := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid block index: %s", args[1])
		}
		index = n
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	root, err := dom.Parse(f)
	if err != nil {
		return err
	}

	logger := newLogger()
	a := augment.New(cfg.AugmentOptions(),
		augment.WithCopier(clipboard.NewCopier(newPrimary(), newFallback(logger), logger)),
		augment.WithScheduler(sched.Real{}),
		augment.WithReporter(logger),
	)

	controls := a.Attach(root)
	if len(controls) == 0 {
		return fmt.Errorf("no code blocks found in %s", args[0])
	}
	if index >= len(controls) {
		return fmt.Errorf("block index %d out of range (page has %d)", index, len(controls))
	}

	control := controls[index]
	fmt.Printf("[%s] block %d\n", control.Label(), index)

	outcome := <-control.Activate(commandContext(cmd))
	if !outcome.Copied {
		fmt.Printf("[%s] nothing copied\n", control.Label())
		return fmt.Errorf("could not copy block %d: %w", index, outcome.Err)
	}

	fmt.Printf("[%s] %d byte(s) via %s pathway\n", control.Label(), len(outcome.Text), outcome.Pathway)

	if copyWait {
		deadline := time.Now().Add(a.Options().Delay + time.Second)
		for control.State() == augment.Acknowledged && time.Now().Before(deadline) {
			time.Sleep(50 * time.Millisecond)
		}
		fmt.Printf("[%s]\n", control.Label())
	}

	return nil
}
