// Package processor drives aggregation over the rounds of one compilation.
//
// A Processor is created once per compilation (the init phase), receives
// one Process call per round, and is finished exactly once after the host
// knows no further rounds will occur. Finishing flushes every deferred error
// as a single report.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/phobologic/stylegen/internal/aggregate"
	"github.com/phobologic/stylegen/internal/diag"
	"github.com/phobologic/stylegen/internal/model"
)

var (
	// ErrProcessingFailed is returned by Finish when errors were reported.
	ErrProcessingFailed = errors.New("styleable processing failed")
	// ErrFinished is returned when a round or a second finish is requested
	// after Finish.
	ErrFinished = errors.New("processor already finished")
)

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for round progress.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// Processor holds the state that spans every round of a compilation.
type Processor struct {
	sink     *diag.Sink
	agg      *aggregate.Aggregator
	logger   *slog.Logger
	rounds   int
	finished bool
}

// New starts a compilation. Warnings and the final error report go to
// reporter.
func New(reporter diag.Reporter, opts ...Option) *Processor {
	sink := diag.NewSink(reporter)
	p := &Processor{
		sink:   sink,
		agg:    aggregate.New(sink, reporter),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs one round and returns the models it produced.
func (p *Processor) Process(ctx context.Context, in aggregate.Input) ([]*model.StyleableInfo, error) {
	if p.finished {
		return nil, ErrFinished
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.rounds++
	before := p.sink.Len()
	models := p.agg.Process(in)

	p.logger.DebugContext(ctx, "round processed",
		"round", p.rounds,
		"marked", len(in.Marked),
		"declarations", len(in.Declarations),
		"models", len(models),
		"errors", p.sink.Len()-before,
	)
	return models, nil
}

// Finish is the final-round hook. It reports all deferred errors at once.
func (p *Processor) Finish() error {
	if p.finished {
		return ErrFinished
	}
	p.finished = true

	n := p.sink.FlushIfAny()
	p.logger.Debug("processing finished", "rounds", p.rounds, "models", len(p.agg.Models()), "errors", n)
	if n > 0 {
		return fmt.Errorf("%w: %d error(s)", ErrProcessingFailed, n)
	}
	return nil
}

// Models returns the models produced by every round so far.
func (p *Processor) Models() []*model.StyleableInfo {
	return p.agg.Models()
}

// Rounds returns how many rounds were processed.
func (p *Processor) Rounds() int {
	return p.rounds
}
