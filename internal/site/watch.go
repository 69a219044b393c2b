package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pders01/copycode/internal/diag"
	"github.com/pders01/copycode/internal/models"
)

// settle is how long a page must stay quiet before it is processed, so a
// generator that writes in several chunks is not caught halfway.
const settle = 150 * time.Millisecond

// Watch keeps the pages under root augmented until ctx is done. Every page
// that changes is processed again; onReport receives the result for each page
// that was augmented or failed. Writes made by Watch itself settle as
// unchanged on the next round.
func Watch(ctx context.Context, root string, opts Options, onReport func(models.FileReport)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	all, err := dirs(root)
	if err != nil {
		return err
	}
	for _, d := range all {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						opts.reporter().Report(diag.Record{Time: time.Now(), Source: "watch", Message: "failed to watch new directory", Err: err})
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			rel, err := filepath.Rel(root, event.Name)
			if err != nil {
				continue
			}
			ok, err = Matches(rel, opts.include(), opts.Exclude)
			if err != nil || !ok {
				continue
			}
			pending[rel] = true
			timer.Reset(settle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.reporter().Report(diag.Record{Time: time.Now(), Source: "watch", Message: "watcher error", Err: err})

		case <-timer.C:
			var rels []string
			for rel := range pending {
				rels = append(rels, rel)
			}
			sort.Strings(rels)
			clear(pending)

			for _, rel := range rels {
				fr := ProcessFile(filepath.Join(root, rel), opts)
				fr.Path = filepath.ToSlash(rel)
				if fr.Status != models.StatusUnchanged && onReport != nil {
					onReport(fr)
				}
			}
		}
	}
}
