// Package scan extracts styleable markers from source files using
// tree-sitter.
package scan

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/stylegen/internal/classinfo"
	"github.com/phobologic/stylegen/internal/lang"
	"github.com/phobologic/stylegen/internal/model"
)

// Markers names the annotations recognized by the scanner. Names are
// matched against the last segment of the annotation name, so both
// @Styleable and @com.airbnb.paris.annotations.Styleable match "Styleable".
type Markers struct {
	Styleable   string `mapstructure:"styleable" yaml:"styleable"`
	Attr        string `mapstructure:"attr" yaml:"attr"`
	Child       string `mapstructure:"child" yaml:"child"`
	Style       string `mapstructure:"style" yaml:"style"`
	BeforeStyle string `mapstructure:"before_style" yaml:"before_style"`
	AfterStyle  string `mapstructure:"after_style" yaml:"after_style"`
}

// DefaultMarkers returns the Paris annotation names.
func DefaultMarkers() Markers {
	return Markers{
		Styleable:   "Styleable",
		Attr:        "Attr",
		Child:       "StyleableChild",
		Style:       "Style",
		BeforeStyle: "BeforeStyle",
		AfterStyle:  "AfterStyle",
	}
}

// Result is everything found in one source file.
type Result struct {
	Path         string
	Package      string
	Marked       []model.MarkedClass
	Declarations []model.Declaration
}

// File parses a source file and returns its marked classes and member
// declarations. The parser must be created for l.
// path is used only for locations and should be the repo-relative path.
func File(l *lang.Language, parser *sitter.Parser, markers Markers, source []byte, path string) (*Result, error) {
	res := &Result{Path: path}
	if len(source) == 0 {
		return res, nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if l.PackageName != nil {
		res.Package = l.PackageName(root, source)
	}

	s := &scanner{markers: markers, source: source, res: res}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "class_declaration" {
			s.class(child, "")
		}
	}
	return res, nil
}

type scanner struct {
	markers Markers
	source  []byte
	res     *Result
}

func (s *scanner) text(n *sitter.Node) string {
	return lang.NodeText(n, s.source)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func (s *scanner) class(node *sitter.Node, outer string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := s.text(nameNode)
	if outer != "" {
		name = outer + "." + name
	}
	ref := model.ClassRef{
		Package: s.res.Package,
		Name:    name,
		File:    s.res.Path,
		Line:    line(nameNode),
	}

	for _, a := range s.annotations(node) {
		if a.Name == s.markers.Styleable {
			s.res.Marked = append(s.res.Marked, model.MarkedClass{Class: ref, Marker: a})
			break
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_declaration":
			s.method(member, ref)
		case "field_declaration":
			s.field(member, ref)
		case "class_declaration":
			s.class(member, name)
		}
	}
}

// method handles annotations on a method_declaration.
// Navigates: method_declaration → formal_parameters → formal_parameter → type.
func (s *scanner) method(node *sitter.Node, owner model.ClassRef) {
	annotations := s.annotations(node)
	if len(annotations) == 0 {
		return
	}
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	var paramType string
	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			if p.Type() != "formal_parameter" {
				continue
			}
			if t := p.ChildByFieldName("type"); t != nil {
				paramType = lang.CollapseWhitespace(s.text(t))
			}
			break
		}
	}

	m := model.Member{Class: owner, Name: s.text(nameNode), Line: line(nameNode)}
	for _, a := range annotations {
		s.declare(a, m, paramType)
	}
}

// field handles annotations on a field_declaration. Every declarator of the
// field gets its own declaration.
func (s *scanner) field(node *sitter.Node, owner model.ClassRef) {
	annotations := s.annotations(node)
	if len(annotations) == 0 {
		return
	}

	var fieldType string
	if t := node.ChildByFieldName("type"); t != nil {
		fieldType = lang.CollapseWhitespace(s.text(t))
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		decl := node.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		m := model.Member{Class: owner, Name: s.text(nameNode), Line: line(nameNode)}
		for _, a := range annotations {
			s.declare(a, m, fieldType)
		}
	}
}

func (s *scanner) declare(a model.Annotation, m model.Member, typ string) {
	var d model.Declaration
	switch a.Name {
	case s.markers.Attr:
		d = model.AttrDecl{
			Member:       m,
			ResourceName: resourceName(a, "value"),
			ValueType:    typ,
			DefaultValue: resourceName(a, "defaultValue"),
		}
	case s.markers.Child:
		d = model.ChildDecl{
			Member:       m,
			ResourceName: resourceName(a, "value"),
			TargetType:   typ,
			DefaultValue: resourceName(a, "defaultValue"),
		}
	case s.markers.Style:
		name := m.Name
		if v, ok := a.Arg("name"); ok {
			name = classinfo.Unquote(v)
		}
		isDefault, _ := a.Arg("isDefault")
		d = model.StyleDecl{Member: m, StyleName: name, IsDefault: isDefault == "true"}
	case s.markers.BeforeStyle:
		d = model.BeforeHookDecl{Member: m}
	case s.markers.AfterStyle:
		d = model.AfterHookDecl{Member: m}
	default:
		return
	}
	s.res.Declarations = append(s.res.Declarations, d)
}

// annotations returns the annotations in the modifiers of a declaration.
func (s *scanner) annotations(decl *sitter.Node) []model.Annotation {
	var out []model.Annotation
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		mods := decl.NamedChild(i)
		if mods.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(mods.NamedChildCount()); j++ {
			n := mods.NamedChild(j)
			switch n.Type() {
			case "marker_annotation", "annotation":
				if a, ok := s.annotation(n); ok {
					out = append(out, a)
				}
			}
		}
	}
	return out
}

// annotation reads a marker_annotation or annotation node.
// Navigates: annotation → annotation_argument_list → element_value_pair (key, value)
// or a single positional element value.
func (s *scanner) annotation(n *sitter.Node) (model.Annotation, bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return model.Annotation{}, false
	}
	a := model.Annotation{
		Name: lang.LastSegment(lang.CollapseWhitespace(s.text(nameNode))),
		Line: line(n),
	}

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return a, true
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "line_comment", "block_comment":
			continue
		case "element_value_pair":
			key := arg.ChildByFieldName("key")
			value := arg.ChildByFieldName("value")
			if key == nil || value == nil {
				continue
			}
			a.Args = append(a.Args, model.AnnotationArg{
				Key:   s.text(key),
				Value: lang.CollapseWhitespace(s.text(value)),
			})
		default:
			a.Args = append(a.Args, model.AnnotationArg{
				Key:   "value",
				Value: lang.CollapseWhitespace(s.text(arg)),
			})
		}
	}
	return a, true
}

// resourceName turns a reference such as R2.styleable.Paris_View_padding
// into the bare resource identifier.
func resourceName(a model.Annotation, key string) string {
	v, ok := a.Arg(key)
	if !ok {
		return ""
	}
	return lang.LastSegment(classinfo.Unquote(v))
}
