// Package render writes a Report as YAML or as human-readable tables.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/stylegen/internal/model"
)

type reportDoc struct {
	Root       string         `yaml:"root"`
	Styleables []styleableDoc `yaml:"styleables"`
	Edges      []edgeDoc      `yaml:"edges,omitempty"`
	Order      []string       `yaml:"order,omitempty"`
}

type styleableDoc struct {
	Class       string     `yaml:"class"`
	File        string     `yaml:"file"`
	Line        int        `yaml:"line"`
	Resource    string     `yaml:"resource,omitempty"`
	Flags       []string   `yaml:"flags,omitempty"`
	Attrs       []attrDoc  `yaml:"attrs,omitempty"`
	Children    []attrDoc  `yaml:"children,omitempty"`
	Styles      []styleDoc `yaml:"styles,omitempty"`
	BeforeHooks []string   `yaml:"before_hooks,omitempty"`
	AfterHooks  []string   `yaml:"after_hooks,omitempty"`
}

// attrDoc describes both attributes and children: a member bound to a
// resource identifier.
type attrDoc struct {
	Member   string `yaml:"member"`
	Resource string `yaml:"resource"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type,omitempty"`
	Default  string `yaml:"default,omitempty"`
}

type styleDoc struct {
	Member  string `yaml:"member"`
	Name    string `yaml:"name"`
	Default bool   `yaml:"default,omitempty"`
}

type edgeDoc struct {
	Parent string `yaml:"parent"`
	Child  string `yaml:"child"`
	Member string `yaml:"member"`
}

func toDoc(r *model.Report) reportDoc {
	doc := reportDoc{Root: r.Root, Styleables: []styleableDoc{}, Order: r.Order}
	for _, s := range r.Styleables {
		sd := styleableDoc{
			Class:    s.Class.QualifiedName(),
			File:     s.Class.File,
			Line:     s.Class.Line,
			Resource: s.StyleableResourceName,
			Flags:    s.Flags.Names(),
		}
		for _, a := range s.Attrs {
			sd.Attrs = append(sd.Attrs, attrDoc{
				Member: a.Name, Resource: a.ResourceName, Name: s.AttrMemberName(a),
				Type: a.ValueType, Default: a.DefaultValue,
			})
		}
		for _, c := range s.Children {
			sd.Children = append(sd.Children, attrDoc{
				Member: c.Name, Resource: c.ResourceName, Name: s.ChildMemberName(c),
				Type: c.TargetType, Default: c.DefaultValue,
			})
		}
		for _, st := range s.Styles {
			sd.Styles = append(sd.Styles, styleDoc{Member: st.Name, Name: st.StyleName, Default: st.IsDefault})
		}
		for _, h := range s.BeforeHooks {
			sd.BeforeHooks = append(sd.BeforeHooks, h.Name)
		}
		for _, h := range s.AfterHooks {
			sd.AfterHooks = append(sd.AfterHooks, h.Name)
		}
		doc.Styleables = append(doc.Styleables, sd)
	}
	for _, e := range r.Edges {
		doc.Edges = append(doc.Edges, edgeDoc{Parent: e.Parent, Child: e.Child, Member: e.Member})
	}
	return doc
}

// YAML encodes the report as a YAML document.
func YAML(w io.Writer, r *model.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDoc(r)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// Table writes one summary table of styleables followed by a table of
// generated member names.
func Table(w io.Writer, r *model.Report) error {
	summary := newTable()
	summary.SetTitle("Styleables")
	summary.AppendHeader(table.Row{"Class", "Resource", "Attrs", "Children", "Styles", "Hooks", "Location"})
	for _, s := range r.Styleables {
		summary.AppendRow(table.Row{
			s.Class.QualifiedName(),
			s.StyleableResourceName,
			len(s.Attrs),
			len(s.Children),
			len(s.Styles),
			len(s.BeforeHooks) + len(s.AfterHooks),
			fmt.Sprintf("%s:%d", s.Class.File, s.Class.Line),
		})
	}
	summary.AppendFooter(table.Row{fmt.Sprintf("%d styleable(s)", len(r.Styleables))})

	members := newTable()
	members.SetTitle("Members")
	members.AppendHeader(table.Row{"Class", "Kind", "Member", "Resource", "Name"})
	for _, s := range r.Styleables {
		for _, a := range s.Attrs {
			members.AppendRow(table.Row{s.Class.QualifiedName(), model.KindAttr.String(), a.Name, a.ResourceName, s.AttrMemberName(a)})
		}
		for _, c := range s.Children {
			members.AppendRow(table.Row{s.Class.QualifiedName(), model.KindChild.String(), c.Name, c.ResourceName, s.ChildMemberName(c)})
		}
	}

	parts := []string{summary.Render(), members.Render()}
	if len(r.Order) > 0 {
		parts = append(parts, "Generation order: "+strings.Join(r.Order, " → "))
	}
	_, err := io.WriteString(w, strings.Join(parts, "\n\n")+"\n")
	return err
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	return tbl
}
