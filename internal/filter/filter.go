// Package filter selects styleables by qualified class name.
package filter

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/phobologic/stylegen/internal/model"
)

// Matcher matches qualified class names against include and exclude globs.
// Patterns use '.' as separator: "app.*" matches app.Card but not
// app.ui.Card; "app.**" matches both.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// New compiles the include and exclude patterns.
func New(include, exclude []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range include {
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", p, err)
		}
		m.include = append(m.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		m.exclude = append(m.exclude, g)
	}
	return m, nil
}

// Empty reports whether the matcher accepts everything.
func (m *Matcher) Empty() bool {
	return len(m.include) == 0 && len(m.exclude) == 0
}

// Match reports whether name is selected: it matches an include pattern
// (or there are none) and no exclude pattern.
func (m *Matcher) Match(name string) bool {
	for _, g := range m.exclude {
		if g.Match(name) {
			return false
		}
	}
	if len(m.include) == 0 {
		return true
	}
	for _, g := range m.include {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Select returns a new Report with only the matching styleables. Edges and
// the generation order are restricted to selected classes.
// If the matcher is empty, the original report is returned.
func (m *Matcher) Select(r *model.Report) *model.Report {
	if m.Empty() {
		return r
	}

	selected := make(map[string]struct{})
	var styleables []*model.StyleableInfo
	for _, s := range r.Styleables {
		name := s.Class.QualifiedName()
		if m.Match(name) {
			selected[name] = struct{}{}
			styleables = append(styleables, s)
		}
	}

	var edges []model.ChildEdge
	for _, e := range r.Edges {
		_, parentOK := selected[e.Parent]
		_, childOK := selected[e.Child]
		if parentOK && childOK {
			edges = append(edges, e)
		}
	}

	var order []string
	for _, name := range r.Order {
		if _, ok := selected[name]; ok {
			order = append(order, name)
		}
	}

	return &model.Report{
		Root:       r.Root,
		Styleables: styleables,
		Edges:      edges,
		Order:      order,
	}
}
