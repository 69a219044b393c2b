package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/pders01/copycode/internal/augment"
	"github.com/pders01/copycode/internal/diag"
	"github.com/pders01/copycode/internal/testutil"
)

type stubPrimary struct {
	available bool
	err       error
	got       string
}

func (p *stubPrimary) Available() bool { return p.available }

func (p *stubPrimary) WriteText(ctx context.Context, text string) error {
	p.got = text
	return p.err
}

type stubFallback struct {
	err error
	got string
}

func (f *stubFallback) CopyText(ctx context.Context, text string) error {
	f.got = text
	return f.err
}

func stubPathways(t *testing.T, p *stubPrimary, f *stubFallback) {
	t.Helper()
	oldPrimary, oldFallback := newPrimary, newFallback
	newPrimary = func() augment.Primary { return p }
	newFallback = func(diag.Reporter) augment.Fallback { return f }
	t.Cleanup(func() {
		newPrimary, newFallback = oldPrimary, oldFallback
	})
}

func TestCopyCommand(t *testing.T) {
	s := testutil.NewTempSite(t)
	path := s.CreateFile("index.html", testutil.SamplePage)

	tests := []struct {
		name         string
		args         []string
		primary      *stubPrimary
		fallback     *stubFallback
		wantPrimary  string
		wantFallback string
		wantErr      bool
	}{
		{
			name:        "primary copies first block",
			args:        []string{path},
			primary:     &stubPrimary{available: true},
			fallback:    &stubFallback{},
			wantPrimary: "print(1)",
		},
		{
			name:         "fallback after rejection",
			args:         []string{path, "1"},
			primary:      &stubPrimary{available: true, err: errors.New("denied")},
			fallback:     &stubFallback{},
			wantPrimary:  "x = 1\ny = 2\n",
			wantFallback: "x = 1\ny = 2\n",
		},
		{
			name:     "both pathways fail",
			args:     []string{path},
			primary:  &stubPrimary{available: false},
			fallback: &stubFallback{err: errors.New("no copy command")},
			wantErr:  true,
		},
		{
			name:     "index out of range",
			args:     []string{path, "5"},
			primary:  &stubPrimary{available: true},
			fallback: &stubFallback{},
			wantErr:  true,
		},
		{
			name:     "invalid index",
			args:     []string{path, "first"},
			primary:  &stubPrimary{available: true},
			fallback: &stubFallback{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubPathways(t, tt.primary, tt.fallback)
			copyWait = false

			err := runCopy(nil, tt.args)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("copy command failed: %v", err)
			}
			if tt.primary.got != tt.wantPrimary {
				t.Errorf("expected primary payload %q, got %q", tt.wantPrimary, tt.primary.got)
			}
			if tt.fallback.got != tt.wantFallback {
				t.Errorf("expected fallback payload %q, got %q", tt.wantFallback, tt.fallback.got)
			}
		})
	}
}

func TestCopyAugmentedPage(t *testing.T) {
	s := testutil.NewTempSite(t)
	s.CreateFile("index.html", testutil.SamplePage)

	resetAugmentFlags()
	if err := runAugment(nil, []string{s.Path}); err != nil {
		t.Fatalf("augment command failed: %v", err)
	}
	augmented := s.ReadFile("index.html")

	p := &stubPrimary{available: true}
	stubPathways(t, p, &stubFallback{})

	if err := runCopy(nil, []string{s.Path + "/index.html", "1"}); err != nil {
		t.Fatalf("copy command failed: %v", err)
	}
	if p.got != "x = 1\ny = 2\n" {
		t.Errorf("unexpected payload %q", p.got)
	}
	if s.ReadFile("index.html") != augmented {
		t.Error("copy must not modify the page")
	}
}

func TestCopyPartiallyAugmentedPage(t *testing.T) {
	s := testutil.NewTempSite(t)
	path := s.CreateFile("partial.html", `<html><body>
<pre><code>plain first</code></pre>
<div class="code-block-wrapper"><pre><code>already wrapped</code></pre><button class="copy-button" type="button">Copy</button></div>
<pre><code>plain last</code></pre>
</body></html>`)

	tests := []struct {
		index string
		want  string
	}{
		{index: "0", want: "plain first"},
		{index: "1", want: "already wrapped"},
		{index: "2", want: "plain last"},
	}

	for _, tt := range tests {
		t.Run("block "+tt.index, func(t *testing.T) {
			p := &stubPrimary{available: true}
			stubPathways(t, p, &stubFallback{})
			copyWait = false

			if err := runCopy(nil, []string{path, tt.index}); err != nil {
				t.Fatalf("copy command failed: %v", err)
			}
			if p.got != tt.want {
				t.Errorf("expected payload %q, got %q", tt.want, p.got)
			}
		})
	}

	stubPathways(t, &stubPrimary{available: true}, &stubFallback{})
	if err := runCopy(nil, []string{path, "3"}); err == nil {
		t.Error("expected error for index past the last block")
	}
}

func TestCopyNoBlocks(t *testing.T) {
	s := testutil.NewTempSite(t)
	path := s.CreateFile("plain.html", "<html><body><p>nothing</p></body></html>")
	stubPathways(t, &stubPrimary{available: true}, &stubFallback{})

	if err := runCopy(nil, []string{path}); err == nil {
		t.Error("expected error for page without code blocks")
	}
}
