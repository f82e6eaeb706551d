// Package model defines core data structures for stylegen.
package model

import (
	"errors"
	"fmt"

	"github.com/phobologic/stylegen/internal/naming"
)

// ErrMissingResourceName is returned by NewStyleableInfo when attributes or
// children are declared on a class whose marker has no resource name.
var ErrMissingResourceName = errors.New("styleable resource name is empty but attributes or children are declared")

// ClassRef identifies a declared class.
type ClassRef struct {
	Package string
	Name    string // Nested classes use Outer.Inner
	File    string
	Line    int
}

// QualifiedName returns the package-qualified class name.
func (c ClassRef) QualifiedName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

func (c ClassRef) String() string {
	return c.QualifiedName()
}

// AnnotationArg is a single key/value argument of an annotation.
// Positional arguments use the key "value".
type AnnotationArg struct {
	Key   string
	Value string
}

// Annotation is a marker occurrence as written in source.
type Annotation struct {
	Name string
	Args []AnnotationArg
	Line int
}

// Arg returns the raw text of the named argument.
func (a Annotation) Arg(key string) (string, bool) {
	for _, arg := range a.Args {
		if arg.Key == key {
			return arg.Value, true
		}
	}
	return "", false
}

// MarkedClass is a class carrying the top-level styleable marker.
type MarkedClass struct {
	Class  ClassRef
	Marker Annotation
}

// DeclKind tags the variants of Declaration.
type DeclKind uint8

const (
	KindChild DeclKind = iota
	KindBeforeHook
	KindAfterHook
	KindAttr
	KindStyle
)

func (k DeclKind) String() string {
	switch k {
	case KindChild:
		return "child"
	case KindBeforeHook:
		return "before"
	case KindAfterHook:
		return "after"
	case KindAttr:
		return "attr"
	case KindStyle:
		return "style"
	}
	return "unknown"
}

// Declaration is a member-level marker occurrence. The set of
// implementations is closed: ChildDecl, BeforeHookDecl, AfterHookDecl,
// AttrDecl and StyleDecl.
type Declaration interface {
	Owner() ClassRef
	Kind() DeclKind
	declaration()
}

// Member is the part shared by every declaration variant.
type Member struct {
	Class ClassRef
	Name  string // field or method name
	Line  int
}

// Owner returns the class the member belongs to.
func (m Member) Owner() ClassRef { return m.Class }

func (Member) declaration() {}

// ChildDecl is a field styled as a child view.
type ChildDecl struct {
	Member
	ResourceName string
	TargetType   string
	DefaultValue string
}

func (ChildDecl) Kind() DeclKind { return KindChild }

// AttrDecl is a method receiving a styleable attribute value.
type AttrDecl struct {
	Member
	ResourceName string
	ValueType    string
	DefaultValue string
}

func (AttrDecl) Kind() DeclKind { return KindAttr }

// StyleDecl is a named style variant.
type StyleDecl struct {
	Member
	StyleName string
	IsDefault bool
}

func (StyleDecl) Kind() DeclKind { return KindStyle }

// BeforeHookDecl is a method invoked before a style is applied.
type BeforeHookDecl struct {
	Member
}

func (BeforeHookDecl) Kind() DeclKind { return KindBeforeHook }

// AfterHookDecl is a method invoked after a style is applied.
type AfterHookDecl struct {
	Member
}

func (AfterHookDecl) Kind() DeclKind { return KindAfterHook }

// Flags describe capabilities declared on the styleable marker.
type Flags uint8

const (
	// FlagEmptyDefaultStyle allows the class to have no default style.
	FlagEmptyDefaultStyle Flags = 1 << iota
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Names returns the names of the set flags.
func (f Flags) Names() []string {
	var names []string
	if f.Has(FlagEmptyDefaultStyle) {
		names = append(names, "emptyDefaultStyle")
	}
	return names
}

// BaseStyleableInfo is what the styleable marker itself declares.
type BaseStyleableInfo struct {
	Class                 ClassRef
	StyleableResourceName string
	Flags                 Flags
}

// StyleableInfo is the validated model of one styleable class.
// If StyleableResourceName is empty then Children and Attrs are empty too.
type StyleableInfo struct {
	BaseStyleableInfo
	Children    []ChildDecl
	BeforeHooks []BeforeHookDecl
	AfterHooks  []AfterHookDecl
	Attrs       []AttrDecl
	Styles      []StyleDecl
}

// NewStyleableInfo builds a model, rejecting attributes or children on a
// class without a resource name.
func NewStyleableInfo(
	base BaseStyleableInfo,
	children []ChildDecl,
	beforeHooks []BeforeHookDecl,
	afterHooks []AfterHookDecl,
	attrs []AttrDecl,
	styles []StyleDecl,
) (*StyleableInfo, error) {
	if base.StyleableResourceName == "" && (len(attrs) > 0 || len(children) > 0) {
		return nil, fmt.Errorf("%s: %w", base.Class, ErrMissingResourceName)
	}
	return &StyleableInfo{
		BaseStyleableInfo: base,
		Children:          children,
		BeforeHooks:       beforeHooks,
		AfterHooks:        afterHooks,
		Attrs:             attrs,
		Styles:            styles,
	}, nil
}

// AttrResourceNameToCamelCase converts a resource identifier of this class's
// group into its lower camel case member name.
func (s *StyleableInfo) AttrResourceNameToCamelCase(name string) string {
	return naming.Normalize(name, s.StyleableResourceName)
}

// AttrMemberName returns the generated member name for an attribute.
func (s *StyleableInfo) AttrMemberName(a AttrDecl) string {
	return s.AttrResourceNameToCamelCase(a.ResourceName)
}

// ChildMemberName returns the generated member name for a child.
func (s *StyleableInfo) ChildMemberName(c ChildDecl) string {
	return s.AttrResourceNameToCamelCase(c.ResourceName)
}

// ChildEdge links a styleable to a styleable child it contains.
type ChildEdge struct {
	Parent string
	Child  string
	Member string
}

// Report is the complete processed output, ready for serialization.
type Report struct {
	Root       string
	Styleables []*StyleableInfo
	Edges      []ChildEdge
	Order      []string
}
