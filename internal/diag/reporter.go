package diag

import (
	"io"
	"sync"

	"github.com/fatih/color"
)

// Reporter emits diagnostics immediately. Implementations must not fail.
type Reporter interface {
	Report(kind Kind, msg string, loc *Location)
}

// WriterReporter prints diagnostics to a writer, one per line, with a
// colored severity prefix.
type WriterReporter struct {
	mu  sync.Mutex
	w   io.Writer
	err *color.Color
	wrn *color.Color
}

// NewWriterReporter returns a reporter writing to w. Color output follows
// fatih/color's terminal detection unless noColor is set.
func NewWriterReporter(w io.Writer, noColor bool) *WriterReporter {
	r := &WriterReporter{
		w:   w,
		err: color.New(color.FgRed, color.Bold),
		wrn: color.New(color.FgYellow, color.Bold),
	}
	if noColor {
		r.err.DisableColor()
		r.wrn.DisableColor()
	}
	return r
}

func (r *WriterReporter) Report(kind Kind, msg string, loc *Location) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := r.wrn
	if kind == Error {
		prefix = r.err
	}
	_, _ = prefix.Fprint(r.w, kind.String()+":")
	d := Diagnostic{Kind: kind, Message: msg, Location: loc}
	_, _ = io.WriteString(r.w, " "+d.String()+"\n")
}

// Collector keeps every reported diagnostic in memory.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (c *Collector) Report(kind Kind, msg string, loc *Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, Diagnostic{Kind: kind, Message: msg, Location: loc})
}

// Items returns a copy of the collected diagnostics.
func (c *Collector) Items() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Count returns how many diagnostics of the given kind were collected.
func (c *Collector) Count(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// MultiReporter fans diagnostics out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(kind Kind, msg string, loc *Location) {
	for _, r := range m {
		if r != nil {
			r.Report(kind, msg, loc)
		}
	}
}
