package augment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/pders01/copycode/internal/clipboard"
	"github.com/pders01/copycode/internal/diag"
	"github.com/pders01/copycode/internal/dom"
	"github.com/pders01/copycode/internal/sched"
)

// Primary is the preferred clipboard pathway
type Primary = clipboard.Primary

// Fallback is the legacy synchronous copy pathway
type Fallback = clipboard.Legacy

// Copier places text on the clipboard through whichever pathway works
type Copier interface {
	Copy(ctx context.Context, text string) (Pathway, error)
}

// State is the presentational state of a control
type State int

const (
	Neutral State = iota
	Acknowledged
)

func (s State) String() string {
	switch s {
	case Neutral:
		return "neutral"
	case Acknowledged:
		return "acknowledged"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pathway records which mechanism placed the text on the clipboard
type Pathway = clipboard.Pathway

const (
	PathwayNone     = clipboard.PathwayNone
	PathwayPrimary  = clipboard.PathwayPrimary
	PathwayFallback = clipboard.PathwayFallback
)

// Outcome is the settled result of one activation. Err is the failure that
// kept the text off the clipboard; it has already been reported.
type Outcome struct {
	Text    string
	Copied  bool
	Pathway Pathway
	Err     error
}

// Control is the copy button attached to one code block
type Control struct {
	Index   int
	Wrapper *html.Node
	Pre     *html.Node
	Code    *html.Node
	Button  *html.Node

	aug *Augmenter

	mu      sync.Mutex
	state   State
	neutral string
	gen     int
	pending sched.Timer
}

// Text is the block's current text, read verbatim
func (c *Control) Text() string {
	return dom.TextContent(c.Code)
}

// Label returns the text currently shown on the button
func (c *Control) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return dom.TextContent(c.Button)
}

// State returns whether the control is showing the acknowledgment
func (c *Control) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Activate copies the block's text as it is right now. It returns at once;
// the copy settles in the background and its outcome is delivered on the
// returned channel, which is then closed. Failures go to the diagnostic
// channel; Outcome.Err repeats them for callers that want the kind.
func (c *Control) Activate(ctx context.Context) <-chan Outcome {
	text := c.Text()
	out := make(chan Outcome, 1)

	go func() {
		defer close(out)
		pathway, err := c.copy(ctx, text)
		outcome := Outcome{Text: text, Pathway: pathway, Copied: pathway != PathwayNone, Err: err}
		if outcome.Copied {
			c.acknowledge()
		}
		out <- outcome
	}()

	return out
}

// copy never panics; a misbehaving copier is reported like a failed copy
func (c *Control) copy(ctx context.Context, text string) (p Pathway, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = PathwayNone, fmt.Errorf("copy panicked: %v", r)
			c.aug.reporter.Report(diag.Record{
				Time:    time.Now(),
				Source:  string(PathwayNone),
				Message: "could not copy text",
				Err:     err,
			})
		}
	}()
	return c.aug.copier.Copy(ctx, text)
}

// acknowledge shows the copied label and schedules the reversion. A pending
// reversion is cancelled and rescheduled, and the label restored is the one
// shown before the first acknowledgment.
func (c *Control) acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Neutral {
		c.neutral = dom.TextContent(c.Button)
	}
	if c.pending != nil {
		c.pending.Stop()
	}

	dom.SetText(c.Button, c.aug.opts.CopiedLabel)
	dom.AddClass(c.Button, CopiedClass)
	c.state = Acknowledged

	c.gen++
	gen := c.gen
	c.pending = c.aug.sched.AfterFunc(c.aug.opts.Delay, func() { c.revert(gen) })
}

func (c *Control) revert(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// a timer that lost the race with Stop
	if gen != c.gen || c.state != Acknowledged {
		return
	}

	dom.SetText(c.Button, c.neutral)
	dom.RemoveClass(c.Button, CopiedClass)
	c.state = Neutral
	c.pending = nil
}
