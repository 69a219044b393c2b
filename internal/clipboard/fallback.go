package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/afero"

	"github.com/pders01/copycode/internal/diag"
)

// waitDelay bounds how long Run waits on inherited pipes after the copy
// program exits
const waitDelay = 2 * time.Second

// Command is a platform copy program that reads the text on stdin
type Command struct {
	Name string
	Args []string
}

// DefaultCommands returns the copy programs to try, in order, for goos
func DefaultCommands(goos string) []Command {
	cmds := []Command{
		{Name: "pbcopy"},                                           // macOS
		{Name: "wl-copy"},                                          // Wayland
		{Name: "xclip", Args: []string{"-selection", "clipboard"}}, // X11
		{Name: "xsel", Args: []string{"--clipboard", "--input"}},   // X11
	}
	if goos == "windows" {
		cmds = append([]Command{{Name: "clip"}}, cmds...)
	}
	return cmds
}

// Runner locates and runs external programs
type Runner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, path string, args []string, stdin io.Reader) error
}

// ExecRunner runs programs with os/exec
type ExecRunner struct{}

// LookPath searches PATH for the named program
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run starts the program with stdin attached and waits for it to exit.
// Output is not captured: xclip and wl-copy leave a child behind that owns
// the selection and would hold captured pipes open until another program
// takes the clipboard.
func (ExecRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) error {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = stdin
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		// the program exited cleanly but a child still holds stdin
		if errors.Is(err, exec.ErrWaitDelay) {
			return nil
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Fallback stages the text on a hidden temporary surface and hands it to the
// first copy program found on the system. The surface is removed on every
// exit path.
type Fallback struct {
	Fs       afero.Fs
	Dir      string
	Runner   Runner
	Commands []Command
	// Reporter receives cleanup failures that happen after a copy succeeded
	Reporter diag.Reporter
}

// NewFallback returns a fallback using the OS filesystem and programs
func NewFallback() *Fallback {
	return &Fallback{
		Fs:       afero.NewOsFs(),
		Dir:      os.TempDir(),
		Runner:   ExecRunner{},
		Commands: DefaultCommands(runtime.GOOS),
		Reporter: diag.Discard{},
	}
}

// CopyText runs the synchronous copy command on text. Failing to remove the
// surface afterwards does not undo the copy; it is reported, not returned.
func (f *Fallback) CopyText(ctx context.Context, text string) error {
	surface, err := afero.TempFile(f.Fs, f.Dir, ".copycode-*")
	if err != nil {
		return fmt.Errorf("failed to create copy surface: %w", err)
	}
	defer f.discard(surface)

	if _, err := io.WriteString(surface, text); err != nil {
		return fmt.Errorf("failed to write copy surface: %w", err)
	}
	if _, err := surface.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind copy surface: %w", err)
	}

	path, args, ok := f.lookup()
	if !ok {
		return fmt.Errorf("%w: no copy command found", ErrUnavailable)
	}

	if err := f.Runner.Run(ctx, path, args, surface); err != nil {
		return fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}
	return nil
}

func (f *Fallback) discard(surface afero.File) {
	surface.Close()
	if err := f.Fs.Remove(surface.Name()); err != nil && f.Reporter != nil {
		f.Reporter.Report(diag.Record{
			Time:    time.Now(),
			Source:  string(PathwayFallback),
			Message: "failed to remove copy surface",
			Err:     err,
		})
	}
}

func (f *Fallback) lookup() (string, []string, bool) {
	for _, c := range f.Commands {
		path, err := f.Runner.LookPath(c.Name)
		if err != nil {
			continue
		}
		return path, c.Args, true
	}
	return "", nil, false
}
