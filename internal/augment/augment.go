// Package augment decorates rendered code blocks with a copy-to-clipboard
// control and implements what happens when that control is activated.
package augment

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pders01/copycode/internal/clipboard"
	"github.com/pders01/copycode/internal/diag"
	"github.com/pders01/copycode/internal/dom"
	"github.com/pders01/copycode/internal/sched"
)

// Classes shared with the stylesheet of the site
const (
	WrapperClass = "code-block-wrapper"
	ButtonClass  = "copy-button"
	CopiedClass  = "copied"
)

const (
	DefaultLabel       = "Copy"
	DefaultCopiedLabel = "Copied!"
	DefaultAriaLabel   = "Copy code to clipboard"
	DefaultDelay       = 2000 * time.Millisecond
)

// Attributes linking a control to its block when IDs are enabled
const (
	IDAttr     = "data-copy-id"
	TargetAttr = "data-copy-target"
)

// Options configures the generated markup and acknowledgment
type Options struct {
	Label       string
	CopiedLabel string
	AriaLabel   string
	Delay       time.Duration
	// IDs stamps each wrapper and its button with a shared identifier
	IDs bool
}

// DefaultOptions returns the stock labels and a 2s acknowledgment
func DefaultOptions() Options {
	return Options{
		Label:       DefaultLabel,
		CopiedLabel: DefaultCopiedLabel,
		AriaLabel:   DefaultAriaLabel,
		Delay:       DefaultDelay,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Label == "" {
		o.Label = d.Label
	}
	if o.CopiedLabel == "" {
		o.CopiedLabel = d.CopiedLabel
	}
	if o.AriaLabel == "" {
		o.AriaLabel = d.AriaLabel
	}
	if o.Delay <= 0 {
		o.Delay = d.Delay
	}
	return o
}

// Augmenter decorates documents. Its capabilities are injected so the whole
// flow can run against fakes.
type Augmenter struct {
	opts     Options
	primary  Primary
	fallback Fallback
	copier   Copier
	sched    sched.Scheduler
	reporter diag.Reporter
}

// Option customizes an Augmenter
type Option func(*Augmenter)

// WithPrimary sets the preferred clipboard pathway
func WithPrimary(p Primary) Option {
	return func(a *Augmenter) { a.primary = p }
}

// WithFallback sets the legacy copy pathway
func WithFallback(f Fallback) Option {
	return func(a *Augmenter) { a.fallback = f }
}

// WithCopier replaces the pathway routing. Primary and fallback pathways
// given with WithPrimary and WithFallback are then ignored.
func WithCopier(c Copier) Option {
	return func(a *Augmenter) { a.copier = c }
}

// WithScheduler sets the timer used for acknowledgment reversion
func WithScheduler(s sched.Scheduler) Option {
	return func(a *Augmenter) { a.sched = s }
}

// WithReporter sets where diagnostics go
func WithReporter(r diag.Reporter) Option {
	return func(a *Augmenter) { a.reporter = r }
}

// New creates an Augmenter. Without a scheduler the runtime timer is used;
// without a reporter diagnostics are dropped. Without a copier the primary
// and fallback pathways are combined by clipboard.Copier.
func New(opts Options, options ...Option) *Augmenter {
	a := &Augmenter{
		opts:     opts.withDefaults(),
		sched:    sched.Real{},
		reporter: diag.Discard{},
	}
	for _, o := range options {
		o(a)
	}
	if a.copier == nil {
		a.copier = clipboard.NewCopier(a.primary, a.fallback, a.reporter)
	}
	return a
}

// Options returns the effective options
func (a *Augmenter) Options() Options {
	return a.opts
}

// Augment wraps every eligible code block under root and returns the controls
// it created, in document order. Blocks already decorated are left alone, so
// running it again on the same tree creates nothing.
func (a *Augmenter) Augment(root *html.Node) []*Control {
	var controls []*Control
	for _, c := range Discover(root) {
		if !c.Eligible() {
			continue
		}

		wrapper := dom.NewElement(atom.Div, WrapperClass)
		if err := dom.Wrap(c.Pre, wrapper); err != nil {
			// a detached <pre> has nowhere to put the wrapper
			continue
		}

		button := a.newButton()
		wrapper.AppendChild(button)

		if a.opts.IDs {
			id := uuid.NewString()
			dom.SetAttr(wrapper, IDAttr, id)
			dom.SetAttr(button, TargetAttr, id)
		}

		controls = append(controls, a.bind(len(controls), wrapper, c.Pre, c.Code, button))
	}
	return controls
}

// Bind returns controls for a tree that was augmented earlier, for example a
// page read back from disk. Buttons whose wrapper holds no code block are
// ignored.
func (a *Augmenter) Bind(root *html.Node) []*Control {
	var controls []*Control
	buttons := dom.FindAll(root, func(n *html.Node) bool {
		return n.DataAtom == atom.Button && dom.HasClass(n, ButtonClass)
	})
	for _, button := range buttons {
		wrapper := button.Parent
		if wrapper == nil || !dom.HasClass(wrapper, WrapperClass) {
			continue
		}

		var pre *html.Node
		for n := wrapper.FirstChild; n != nil; n = n.NextSibling {
			if dom.IsElement(n, atom.Pre) {
				pre = n
				break
			}
		}
		if pre == nil {
			continue
		}

		code := pre
		if found := dom.FindAll(pre, func(n *html.Node) bool { return n.DataAtom == atom.Code }); len(found) > 0 {
			code = found[0]
		}

		controls = append(controls, a.bind(len(controls), wrapper, pre, code, button))
	}
	return controls
}

// Attach returns a control for every code block under root. Blocks an
// earlier run decorated are bound, the rest are augmented now. Controls are
// in document order and indexed from zero.
func (a *Augmenter) Attach(root *html.Node) []*Control {
	controls := append(a.Bind(root), a.Augment(root)...)

	order := make(map[*html.Node]int)
	dom.Walk(root, func(n *html.Node) bool {
		order[n] = len(order)
		return true
	})
	slices.SortStableFunc(controls, func(x, y *Control) int {
		return cmp.Compare(order[x.Wrapper], order[y.Wrapper])
	})
	for i, c := range controls {
		c.Index = i
	}
	return controls
}

func (a *Augmenter) newButton() *html.Node {
	button := dom.NewElement(atom.Button, ButtonClass)
	dom.SetAttr(button, "type", "button")
	dom.SetAttr(button, "aria-label", a.opts.AriaLabel)
	dom.SetText(button, a.opts.Label)
	return button
}

func (a *Augmenter) bind(index int, wrapper, pre, code, button *html.Node) *Control {
	return &Control{
		Index:   index,
		Wrapper: wrapper,
		Pre:     pre,
		Code:    code,
		Button:  button,
		aug:     a,
		state:   Neutral,
	}
}
