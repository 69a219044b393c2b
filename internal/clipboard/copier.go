package clipboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pders01/copycode/internal/diag"
)

// Pathway names the mechanism that placed text on the clipboard
type Pathway string

const (
	PathwayNone     Pathway = "none"
	PathwayPrimary  Pathway = "primary"
	PathwayFallback Pathway = "fallback"
)

// Primary is the preferred pathway. Available is checked on every copy;
// absence routes straight to the fallback.
type Primary interface {
	Available() bool
	WriteText(ctx context.Context, text string) error
}

// Legacy is the synchronous pathway used when the primary is absent or
// refuses the write
type Legacy interface {
	CopyText(ctx context.Context, text string) error
}

// Copier tries the primary pathway and then the legacy one
type Copier struct {
	Primary  Primary
	Fallback Legacy
	Reporter diag.Reporter
}

// NewCopier combines the two pathways. Either may be nil.
func NewCopier(p Primary, f Legacy, r diag.Reporter) *Copier {
	return &Copier{Primary: p, Fallback: f, Reporter: r}
}

// Copy places text on the clipboard and returns the pathway that did it.
// A primary failure the fallback recovers from is reported as a diagnostic
// only. When nothing was copied, both failures are reported and the
// returned error wraps their kinds.
func (c *Copier) Copy(ctx context.Context, text string) (Pathway, error) {
	var primaryErr error
	if c.Primary != nil && c.Primary.Available() {
		primaryErr = guard(ErrRejected, PathwayPrimary, func() error {
			return c.Primary.WriteText(ctx, text)
		})
		if primaryErr == nil {
			return PathwayPrimary, nil
		}
		c.report(PathwayPrimary, "failed to copy text", primaryErr)
	}

	err := guard(ErrCommandFailed, PathwayFallback, func() error {
		if c.Fallback == nil {
			return fmt.Errorf("%w: no fallback copy mechanism configured", ErrUnavailable)
		}
		return c.Fallback.CopyText(ctx, text)
	})
	if err != nil {
		c.report(PathwayFallback, "could not copy text", err)
		return PathwayNone, errors.Join(primaryErr, err)
	}
	return PathwayFallback, nil
}

func (c *Copier) report(p Pathway, msg string, err error) {
	if c.Reporter == nil {
		return
	}
	c.Reporter.Report(diag.Record{
		Time:    time.Now(),
		Source:  string(p),
		Message: msg,
		Err:     err,
	})
}

// guard turns a panic inside a pathway into an error of the given kind
func guard(kind error, p Pathway, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s pathway panicked: %v", kind, p, r)
		}
	}()
	return fn()
}
