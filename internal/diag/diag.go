// Package diag collects and reports processing diagnostics.
//
// Warnings are reported as soon as they are found. Errors are queued in a
// Sink and reported together, once, when the host signals the final round,
// so a failed build shows every error rather than only the first.
package diag

import (
	"fmt"
	"strings"
)

// Kind is the severity of a diagnostic.
type Kind uint8

const (
	Warning Kind = iota
	Error
)

func (k Kind) String() string {
	switch k {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// Location points at the source element a diagnostic is about.
type Location struct {
	File   string
	Line   int
	Symbol string
}

func (l Location) String() string {
	var b strings.Builder
	if l.File != "" {
		b.WriteString(l.File)
		if l.Line > 0 {
			fmt.Fprintf(&b, ":%d", l.Line)
		}
	}
	if l.Symbol != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(l.Symbol)
	}
	return b.String()
}

// Diagnostic is one reported problem. Location is nil for diagnostics that
// are not tied to a single source element.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Location *Location
}

func (d Diagnostic) String() string {
	if d.Location == nil {
		return d.Message
	}
	if loc := d.Location.String(); loc != "" {
		return loc + ": " + d.Message
	}
	return d.Message
}
