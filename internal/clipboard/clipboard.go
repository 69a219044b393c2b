// Package clipboard implements the two copy pathways: the system clipboard
// library and a platform copy command fed from a temporary surface.
package clipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

var (
	// ErrUnavailable means the pathway cannot run in this environment
	ErrUnavailable = errors.New("clipboard unavailable")
	// ErrRejected means the clipboard refused the write
	ErrRejected = errors.New("clipboard write rejected")
	// ErrCommandFailed means the copy command ran and reported failure
	ErrCommandFailed = errors.New("copy command failed")
)

// System writes through github.com/atotto/clipboard
type System struct {
	write     func(string) error
	supported func() bool
}

// NewSystem returns the primary pathway backed by the OS clipboard
func NewSystem() *System {
	return &System{
		write:     clipboard.WriteAll,
		supported: func() bool { return !clipboard.Unsupported },
	}
}

// Available reports whether the library found a clipboard backend
func (s *System) Available() bool {
	return s.supported()
}

// WriteText copies text, giving up when ctx is done. The library call itself
// cannot be interrupted and finishes in the background.
func (s *System) WriteText(ctx context.Context, text string) error {
	if !s.Available() {
		return ErrUnavailable
	}

	done := make(chan error, 1)
	go func() {
		done <- s.write(text)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrRejected, ctx.Err())
	}
}
