// Package aggregate merges the declarations found in one processing round
// into validated per-class styleable models.
package aggregate

import (
	"errors"

	"github.com/phobologic/stylegen/internal/classinfo"
	"github.com/phobologic/stylegen/internal/diag"
	"github.com/phobologic/stylegen/internal/model"
)

const (
	MsgMissingStyleable = "Uses @Attr, @StyleableChild and/or @Style but is not annotated with @Styleable."
	MsgMissingValue     = "@Styleable is missing its value parameter (@Attr or @StyleableChild won't work otherwise)"
	MsgUnnecessaryValue = "No need to specify the @Styleable value parameter if no class members are annotated with @Attr"
)

// Input is what the scanner found in one round.
type Input struct {
	// Marked lists the classes carrying the styleable marker, in scan order.
	Marked []model.MarkedClass
	// Declarations holds member-level markers of every kind.
	Declarations []model.Declaration
}

// bucket gathers all declarations owned by one class.
type bucket struct {
	owner       model.ClassRef
	children    []model.ChildDecl
	beforeHooks []model.BeforeHookDecl
	afterHooks  []model.AfterHookDecl
	attrs       []model.AttrDecl
	styles      []model.StyleDecl
}

// needsMarker reports whether the bucket holds declarations that are only
// valid on a styleable class. Hooks alone do not.
func (b *bucket) needsMarker() bool {
	return len(b.children) > 0 || len(b.attrs) > 0 || len(b.styles) > 0
}

// group buckets declarations by owning class, keeping first-appearance
// order of classes and declaration order within each class.
func group(decls []model.Declaration) ([]*bucket, map[string]*bucket) {
	var order []*bucket
	byClass := make(map[string]*bucket)
	for _, d := range decls {
		key := d.Owner().QualifiedName()
		b, ok := byClass[key]
		if !ok {
			b = &bucket{owner: d.Owner()}
			byClass[key] = b
			order = append(order, b)
		}
		switch d := d.(type) {
		case model.ChildDecl:
			b.children = append(b.children, d)
		case model.BeforeHookDecl:
			b.beforeHooks = append(b.beforeHooks, d)
		case model.AfterHookDecl:
			b.afterHooks = append(b.afterHooks, d)
		case model.AttrDecl:
			b.attrs = append(b.attrs, d)
		case model.StyleDecl:
			b.styles = append(b.styles, d)
		}
	}
	return order, byClass
}

// Aggregator holds the models produced across rounds. It is not safe for
// concurrent use; rounds are expected to run one at a time.
type Aggregator struct {
	sink     *diag.Sink
	reporter diag.Reporter
	models   []*model.StyleableInfo
}

// New returns an aggregator queuing errors in sink and reporting warnings
// through reporter.
func New(sink *diag.Sink, reporter diag.Reporter) *Aggregator {
	return &Aggregator{sink: sink, reporter: reporter}
}

// Process aggregates one round and returns the models it produced. The
// models are also appended to the cumulative list returned by Models.
//
// A member-level marker on a class without the styleable marker fails the
// whole round: one error is recorded for the first such class and no model
// is produced.
func (a *Aggregator) Process(in Input) []*model.StyleableInfo {
	buckets, byClass := group(in.Declarations)

	marked := make(map[string]struct{}, len(in.Marked))
	for _, mc := range in.Marked {
		marked[mc.Class.QualifiedName()] = struct{}{}
	}

	for _, b := range buckets {
		if _, ok := marked[b.owner.QualifiedName()]; ok || !b.needsMarker() {
			continue
		}
		a.sink.RecordError(MsgMissingStyleable, locationOf(b.owner))
		return nil
	}

	var produced []*model.StyleableInfo
	for _, mc := range in.Marked {
		b := byClass[mc.Class.QualifiedName()]
		if b == nil {
			b = &bucket{owner: mc.Class}
		}
		if info := a.build(mc, b); info != nil {
			produced = append(produced, info)
		}
	}

	a.models = append(a.models, produced...)
	return produced
}

func (a *Aggregator) build(mc model.MarkedClass, b *bucket) *model.StyleableInfo {
	base := classinfo.Extract(mc)
	loc := locationOf(mc.Class)

	info, err := model.NewStyleableInfo(base, b.children, b.beforeHooks, b.afterHooks, b.attrs, b.styles)
	if errors.Is(err, model.ErrMissingResourceName) {
		a.sink.RecordError(MsgMissingValue, loc)
		return nil
	}
	if err != nil {
		a.sink.RecordError(err.Error(), loc)
		return nil
	}

	if base.StyleableResourceName != "" && len(b.children) == 0 && len(b.attrs) == 0 {
		if a.reporter != nil {
			a.reporter.Report(diag.Warning, MsgUnnecessaryValue, loc)
		}
	}
	return info
}

// Models returns every model produced so far, across all rounds.
func (a *Aggregator) Models() []*model.StyleableInfo {
	out := make([]*model.StyleableInfo, len(a.models))
	copy(out, a.models)
	return out
}

func locationOf(c model.ClassRef) *diag.Location {
	return &diag.Location{File: c.File, Line: c.Line, Symbol: c.QualifiedName()}
}
