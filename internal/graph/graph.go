// Package graph links styleables through their styleable children and
// computes the order in which generated code must be produced.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/phobologic/stylegen/internal/lang"
	"github.com/phobologic/stylegen/internal/model"
)

// ErrChildCycle is returned when styleables contain each other as children.
var ErrChildCycle = errors.New("styleable child cycle")

// resolver finds the styleable a child's target type refers to.
type resolver struct {
	byQualified map[string]*model.StyleableInfo
	bySimple    map[string][]*model.StyleableInfo
}

func newResolver(models []*model.StyleableInfo) *resolver {
	r := &resolver{
		byQualified: make(map[string]*model.StyleableInfo, len(models)),
		bySimple:    make(map[string][]*model.StyleableInfo),
	}
	for _, m := range models {
		r.byQualified[m.Class.QualifiedName()] = m
		simple := lang.LastSegment(m.Class.Name)
		r.bySimple[simple] = append(r.bySimple[simple], m)
	}
	return r
}

// resolve prefers an exact qualified match, then a same-package class, then
// a unique simple-name match.
func (r *resolver) resolve(target string, from model.ClassRef) *model.StyleableInfo {
	target = stripTypeArgs(target)
	if m, ok := r.byQualified[target]; ok {
		return m
	}
	candidates := r.bySimple[lang.LastSegment(target)]
	for _, m := range candidates {
		if m.Class.Package == from.Package {
			return m
		}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	return nil
}

func stripTypeArgs(t string) string {
	if i := strings.IndexByte(t, '<'); i >= 0 {
		return strings.TrimSpace(t[:i])
	}
	return strings.TrimSpace(t)
}

// ChildEdges returns an edge for every child whose target type is itself a
// styleable. Edges are sorted by parent, then child, then member.
func ChildEdges(models []*model.StyleableInfo) []model.ChildEdge {
	r := newResolver(models)

	var edges []model.ChildEdge
	for _, m := range models {
		for _, c := range m.Children {
			target := r.resolve(c.TargetType, m.Class)
			if target == nil {
				continue
			}
			edges = append(edges, model.ChildEdge{
				Parent: m.Class.QualifiedName(),
				Child:  target.Class.QualifiedName(),
				Member: c.Name,
			})
		}
	}

	// Sort for deterministic output
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Parent != edges[j].Parent {
			return edges[i].Parent < edges[j].Parent
		}
		if edges[i].Child != edges[j].Child {
			return edges[i].Child < edges[j].Child
		}
		return edges[i].Member < edges[j].Member
	})
	return edges
}

// GenerationOrder returns qualified class names ordered so that every
// styleable child comes before the styleables containing it. Ties are
// broken by name.
func GenerationOrder(models []*model.StyleableInfo) ([]string, error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	for _, m := range models {
		err := g.AddVertex(m.Class.QualifiedName())
		if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("adding %s: %w", m.Class.QualifiedName(), err)
		}
	}

	for _, e := range ChildEdges(models) {
		if e.Parent == e.Child {
			return nil, fmt.Errorf("%s contains itself through %s: %w", e.Parent, e.Member, ErrChildCycle)
		}
		err := g.AddEdge(e.Child, e.Parent)
		switch {
		case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
		case errors.Is(err, graph.ErrEdgeCreatesCycle):
			return nil, fmt.Errorf("%s and %s contain each other: %w", e.Parent, e.Child, ErrChildCycle)
		default:
			return nil, fmt.Errorf("linking %s to %s: %w", e.Parent, e.Child, err)
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, fmt.Errorf("sorting styleables: %w", err)
	}
	return order, nil
}
