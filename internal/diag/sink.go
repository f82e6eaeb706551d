package diag

import (
	"strings"
	"sync"
)

// Sink queues errors across processing rounds until Flush.
type Sink struct {
	mu       sync.Mutex
	reporter Reporter
	pending  []Diagnostic
	flushed  bool
}

// NewSink returns a sink that reports through r on flush.
func NewSink(r Reporter) *Sink {
	return &Sink{reporter: r}
}

// RecordError queues an error. It panics if the sink was already flushed:
// an error recorded after the final round would never be reported.
func (s *Sink) RecordError(msg string, loc *Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flushed {
		panic("diag: RecordError called after FlushIfAny: " + msg)
	}
	s.pending = append(s.pending, Diagnostic{Kind: Error, Message: msg, Location: loc})
}

// Pending returns a copy of the queued errors.
func (s *Sink) Pending() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Diagnostic, len(s.pending))
	copy(out, s.pending)
	return out
}

// Len returns the number of queued errors.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// FlushIfAny reports every queued error as one combined error and clears
// the queue. Each entry is preceded by a blank line. It returns the number
// of errors reported; with nothing queued it reports nothing.
func (s *Sink) FlushIfAny() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushed = true
	if len(s.pending) == 0 {
		return 0
	}

	var b strings.Builder
	for _, d := range s.pending {
		b.WriteString("\n\n")
		b.WriteString(d.String())
	}
	n := len(s.pending)
	if s.reporter != nil {
		s.reporter.Report(Error, b.String(), nil)
	}
	s.pending = nil
	return n
}
