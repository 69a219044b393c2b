package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/pders01/copycode/internal/diag"
)

type stubPrimary struct {
	available bool
	err       error
	panics    bool
	got       string
}

func (p *stubPrimary) Available() bool { return p.available }

func (p *stubPrimary) WriteText(ctx context.Context, text string) error {
	if p.panics {
		panic("clipboard backend crashed")
	}
	p.got = text
	return p.err
}

type stubLegacy struct {
	err    error
	panics bool
	got    string
}

func (l *stubLegacy) CopyText(ctx context.Context, text string) error {
	if l.panics {
		panic("copy command crashed")
	}
	l.got = text
	return l.err
}

func TestCopierCopy(t *testing.T) {
	tests := []struct {
		name        string
		primary     *stubPrimary
		fallback    *stubLegacy
		wantPathway Pathway
		wantErrs    []error
		wantSources []string
	}{
		{
			name:        "primary copies",
			primary:     &stubPrimary{available: true},
			fallback:    &stubLegacy{},
			wantPathway: PathwayPrimary,
		},
		{
			name:        "primary unavailable",
			primary:     &stubPrimary{available: false},
			fallback:    &stubLegacy{},
			wantPathway: PathwayFallback,
		},
		{
			name:        "primary rejects",
			primary:     &stubPrimary{available: true, err: ErrRejected},
			fallback:    &stubLegacy{},
			wantPathway: PathwayFallback,
			wantSources: []string{"primary"},
		},
		{
			name:        "primary panics",
			primary:     &stubPrimary{available: true, panics: true},
			fallback:    &stubLegacy{},
			wantPathway: PathwayFallback,
			wantSources: []string{"primary"},
		},
		{
			name:        "both fail",
			primary:     &stubPrimary{available: true, err: ErrRejected},
			fallback:    &stubLegacy{err: ErrCommandFailed},
			wantPathway: PathwayNone,
			wantErrs:    []error{ErrRejected, ErrCommandFailed},
			wantSources: []string{"primary", "fallback"},
		},
		{
			name:        "fallback panics",
			primary:     &stubPrimary{available: false},
			fallback:    &stubLegacy{panics: true},
			wantPathway: PathwayNone,
			wantErrs:    []error{ErrCommandFailed},
			wantSources: []string{"fallback"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &diag.Recorder{}
			c := NewCopier(tt.primary, tt.fallback, rec)

			got, err := c.Copy(context.Background(), "ls -la\n")

			if got != tt.wantPathway {
				t.Errorf("expected pathway %s, got %s", tt.wantPathway, got)
			}
			if len(tt.wantErrs) == 0 && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("expected error wrapping %v, got %v", want, err)
				}
			}

			recs := rec.Records()
			if len(recs) != len(tt.wantSources) {
				t.Fatalf("expected %d diagnostics, got %+v", len(tt.wantSources), recs)
			}
			for i, src := range tt.wantSources {
				if recs[i].Source != src {
					t.Errorf("diagnostic %d: expected source %s, got %s", i, src, recs[i].Source)
				}
			}
		})
	}
}

func TestCopierWithoutFallback(t *testing.T) {
	c := NewCopier(nil, nil, nil)

	got, err := c.Copy(context.Background(), "x")
	if got != PathwayNone {
		t.Errorf("expected no pathway, got %s", got)
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
