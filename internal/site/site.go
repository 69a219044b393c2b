// Package site runs the augmenter over the pages of a built static site.
package site

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pders01/copycode/internal/augment"
	"github.com/pders01/copycode/internal/diag"
)

// Options controls a pass over a site
type Options struct {
	Include  []string
	Exclude  []string
	Workers  int
	DryRun   bool
	Augment  augment.Options
	Reporter diag.Reporter
}

func (o Options) include() []string {
	if len(o.Include) == 0 {
		return []string{"**/*.html"}
	}
	return o.Include
}

func (o Options) reporter() diag.Reporter {
	if o.Reporter == nil {
		return diag.Discard{}
	}
	return o.Reporter
}

// Find lists the pages under root matching the include patterns and none of
// the exclude patterns. Paths are slash-separated, relative to root, sorted.
func Find(root string, include, exclude []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat site root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site root is not a directory: %s", root)
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var pages []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true

			excluded, err := matchAny(exclude, m)
			if err != nil {
				return nil, err
			}
			if !excluded {
				pages = append(pages, m)
			}
		}
	}

	sort.Strings(pages)
	return pages, nil
}

// Matches reports whether a relative page path is selected by the patterns
func Matches(rel string, include, exclude []string) (bool, error) {
	rel = filepath.ToSlash(rel)
	included, err := matchAny(include, rel)
	if err != nil || !included {
		return false, err
	}
	excluded, err := matchAny(exclude, rel)
	if err != nil {
		return false, err
	}
	return !excluded, nil
}

func matchAny(patterns []string, name string) (bool, error) {
	for _, p := range patterns {
		ok, err := doublestar.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// dirs lists root and every directory below it
func dirs(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk site: %w", err)
	}
	return out, nil
}
