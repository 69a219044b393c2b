package site

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/pders01/copycode/internal/augment"
	"github.com/pders01/copycode/internal/diag"
	"github.com/pders01/copycode/internal/dom"
	"github.com/pders01/copycode/internal/models"
)

// Process augments every selected page under root. Pages that fail are
// recorded in the report and reported as diagnostics; they do not stop the
// pass. An error is returned only when the site cannot be listed or ctx ends.
func Process(ctx context.Context, root string, opts Options) (*models.Report, error) {
	started := time.Now()

	pages, err := Find(root, opts.include(), opts.Exclude)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]models.FileReport, len(pages))
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for i, rel := range pages {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ProcessFile(filepath.Join(root, filepath.FromSlash(rel)), opts)
			results[i].Path = rel
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("augment interrupted: %w", err)
	}

	report := &models.Report{
		Root:      root,
		StartedAt: started,
		Duration:  time.Since(started),
		DryRun:    opts.DryRun,
		Files:     results,
	}
	report.Tally()
	return report, nil
}

// ProcessFile augments a single page in place
func ProcessFile(path string, opts Options) models.FileReport {
	fr := models.FileReport{Path: path}

	fail := func(err error) models.FileReport {
		fr.Status = models.StatusFailed
		fr.Error = err.Error()
		opts.reporter().Report(diag.Record{
			Time:    time.Now(),
			Source:  "site",
			Message: "failed to augment " + path,
			Err:     err,
		})
		return fr
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(fmt.Errorf("failed to stat page: %w", err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("failed to read page: %w", err))
	}

	root, err := dom.Parse(bytes.NewReader(data))
	if err != nil {
		return fail(err)
	}

	for _, c := range augment.Discover(root) {
		if !c.Eligible() {
			fr.Skipped++
		}
	}

	controls := augment.New(opts.Augment).Augment(root)
	fr.Controls = len(controls)
	if fr.Controls == 0 {
		fr.Status = models.StatusUnchanged
		return fr
	}
	fr.Status = models.StatusAugmented

	var buf bytes.Buffer
	if err := dom.Render(&buf, root); err != nil {
		return fail(err)
	}
	fr.Bytes = int64(buf.Len())

	if opts.DryRun {
		return fr
	}
	if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return fail(fmt.Errorf("failed to write page: %w", err))
	}
	return fr
}
