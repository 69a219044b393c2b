package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SamplePage is a small rendered documentation page with two fenced blocks,
// one highlighted block and an inline code span
const SamplePage = `<!DOCTYPE html>
<html><head><title>Guide</title></head>
<body>
<p>Install with <code>go install</code>.</p>
<pre><code>print(1)</code></pre>
<div class="highlight"><pre><span></span><code>x = 1
y = 2
</code></pre></div>
</body></html>
`

// TempSite is a temporary static site output directory for testing
type TempSite struct {
	Path string
	T    *testing.T
}

// NewTempSite creates an empty site directory that is removed with the test
func NewTempSite(t *testing.T) *TempSite {
	t.Helper()

	return &TempSite{
		Path: t.TempDir(),
		T:    t,
	}
}

// CreateFile creates a file in the site
func (s *TempSite) CreateFile(name, content string) string {
	s.T.Helper()
	path := filepath.Join(s.Path, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		s.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		s.T.Fatalf("failed to create file: %v", err)
	}
	return path
}

// ReadFile returns the current content of a file in the site
func (s *TempSite) ReadFile(name string) string {
	s.T.Helper()
	data, err := os.ReadFile(filepath.Join(s.Path, filepath.FromSlash(name)))
	if err != nil {
		s.T.Fatalf("failed to read file: %v", err)
	}
	return string(data)
}

// CountButtons counts the copy buttons in a page
func (s *TempSite) CountButtons(name string) int {
	s.T.Helper()
	return strings.Count(s.ReadFile(name), `class="copy-button"`)
}

// CountWrappers counts the code block wrappers in a page
func (s *TempSite) CountWrappers(name string) int {
	s.T.Helper()
	return strings.Count(s.ReadFile(name), `class="code-block-wrapper"`)
}

// Chdir switches into the site for the rest of the test
func (s *TempSite) Chdir() {
	s.T.Helper()
	oldWd, err := os.Getwd()
	if err != nil {
		s.T.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(s.Path); err != nil {
		s.T.Fatalf("failed to chdir: %v", err)
	}
	s.T.Cleanup(func() { os.Chdir(oldWd) })
}
