package site

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/pders01/copycode/internal/augment"
	"github.com/pders01/copycode/internal/dom"
	"github.com/pders01/copycode/internal/models"
)

const previewLen = 60

// Scan lists the code blocks of a page without modifying it
func Scan(path string) (*models.PageScan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	root, err := dom.Parse(f)
	if err != nil {
		return nil, err
	}

	a := augment.New(augment.DefaultOptions())
	candidates := augment.Discover(root)
	scan := &models.PageScan{Path: path, Decorated: len(a.Bind(root))}

	// number blocks the way the copy command reaches them
	slots := make(map[*html.Node]int)
	for _, c := range a.Attach(root) {
		slots[c.Pre] = c.Index
	}

	for i, c := range candidates {
		text := dom.TextContent(c.Code)
		control := -1
		if c.Reason == augment.SkipNone || c.Reason == augment.SkipDecorated {
			if n, ok := slots[c.Pre]; ok {
				control = n
			}
		}
		scan.Blocks = append(scan.Blocks, models.BlockInfo{
			Index:    i,
			Control:  control,
			Eligible: c.Eligible(),
			Reason:   string(c.Reason),
			Lines:    countLines(text),
			Preview:  preview(text),
		})
	}

	return scan, nil
}

func countLines(text string) int {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}

func preview(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if runes := []rune(line); len(runes) > previewLen {
		line = string(runes[:previewLen]) + "..."
	}
	return line
}
