package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/stylegen/internal/diag"
	"github.com/phobologic/stylegen/internal/model"
)

func class(name string) model.ClassRef {
	return model.ClassRef{Package: "com.example", Name: name, File: name + ".java", Line: 5}
}

func markedWith(c model.ClassRef, value string) model.MarkedClass {
	m := model.MarkedClass{Class: c, Marker: model.Annotation{Name: "Styleable"}}
	if value != "" {
		m.Marker.Args = []model.AnnotationArg{{Key: "value", Value: `"` + value + `"`}}
	}
	return m
}

func attr(c model.ClassRef, method, res string) model.AttrDecl {
	return model.AttrDecl{Member: model.Member{Class: c, Name: method, Line: 10}, ResourceName: res, ValueType: "int"}
}

func child(c model.ClassRef, field, res string) model.ChildDecl {
	return model.ChildDecl{Member: model.Member{Class: c, Name: field, Line: 8}, ResourceName: res, TargetType: "TextView"}
}

func newAggregator() (*Aggregator, *diag.Sink, *diag.Collector) {
	var c diag.Collector
	sink := diag.NewSink(&c)
	return New(sink, &c), sink, &c
}

func TestProcessBuildsModel(t *testing.T) {
	t.Parallel()
	a, sink, reported := newAggregator()
	view := class("MyView")

	models := a.Process(Input{
		Marked: []model.MarkedClass{markedWith(view, "MyView")},
		Declarations: []model.Declaration{
			child(view, "title", "MyView_title"),
			model.BeforeHookDecl{Member: model.Member{Class: view, Name: "before"}},
			attr(view, "setTitleColor", "MyView_title_color"),
			model.AfterHookDecl{Member: model.Member{Class: view, Name: "after"}},
			model.StyleDecl{Member: model.Member{Class: view, Name: "RED"}, StyleName: "red"},
			attr(view, "setPadding", "MyView_android_padding"),
		},
	})

	require.Len(t, models, 1)
	m := models[0]
	assert.Equal(t, "MyView", m.StyleableResourceName)
	assert.Len(t, m.Children, 1)
	assert.Len(t, m.BeforeHooks, 1)
	assert.Len(t, m.AfterHooks, 1)
	require.Len(t, m.Attrs, 2)
	assert.Len(t, m.Styles, 1)
	assert.Equal(t, "setTitleColor", m.Attrs[0].Name)
	assert.Equal(t, "titleColor", m.AttrMemberName(m.Attrs[0]))
	assert.Equal(t, "padding", m.AttrMemberName(m.Attrs[1]))
	assert.Equal(t, "title", m.ChildMemberName(m.Children[0]))

	assert.Zero(t, sink.Len())
	assert.Empty(t, reported.Items())
}

func TestProcessOrphanFailsRound(t *testing.T) {
	t.Parallel()
	a, sink, reported := newAggregator()
	good := class("Good")
	orphan := class("Orphan")

	models := a.Process(Input{
		Marked: []model.MarkedClass{markedWith(good, "Good")},
		Declarations: []model.Declaration{
			attr(good, "setColor", "Good_color"),
			child(orphan, "title", "Orphan_title"),
		},
	})

	assert.Empty(t, models)
	assert.Empty(t, a.Models())
	pending := sink.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, MsgMissingStyleable, pending[0].Message)
	assert.Equal(t, "com.example.Orphan", pending[0].Location.Symbol)
	assert.Empty(t, reported.Items(), "errors are deferred")
}

func TestProcessOrphanReportsFirstOnly(t *testing.T) {
	t.Parallel()
	a, sink, _ := newAggregator()

	a.Process(Input{
		Declarations: []model.Declaration{
			model.StyleDecl{Member: model.Member{Class: class("B"), Name: "S"}},
			attr(class("A"), "setX", "A_x"),
		},
	})

	pending := sink.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "com.example.B", pending[0].Location.Symbol)
}

func TestProcessHooksWithoutMarkerAreIgnored(t *testing.T) {
	t.Parallel()
	a, sink, _ := newAggregator()
	good := class("Good")

	models := a.Process(Input{
		Marked: []model.MarkedClass{markedWith(good, "")},
		Declarations: []model.Declaration{
			model.BeforeHookDecl{Member: model.Member{Class: class("Plain"), Name: "before"}},
		},
	})

	assert.Len(t, models, 1)
	assert.Zero(t, sink.Len())
}

func TestProcessMissingValue(t *testing.T) {
	t.Parallel()
	a, sink, reported := newAggregator()
	bad := class("Bad")
	ok := class("Ok")

	models := a.Process(Input{
		Marked: []model.MarkedClass{markedWith(bad, ""), markedWith(ok, "")},
		Declarations: []model.Declaration{
			attr(bad, "setColor", "Bad_color"),
		},
	})

	require.Len(t, models, 1, "sibling classes are unaffected")
	assert.Equal(t, "com.example.Ok", models[0].Class.QualifiedName())
	pending := sink.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, MsgMissingValue, pending[0].Message)
	assert.Empty(t, reported.Items())
}

func TestProcessMissingValueWithChild(t *testing.T) {
	t.Parallel()
	a, sink, _ := newAggregator()
	bad := class("Bad")

	models := a.Process(Input{
		Marked:       []model.MarkedClass{markedWith(bad, "")},
		Declarations: []model.Declaration{child(bad, "title", "Bad_title")},
	})

	assert.Empty(t, models)
	assert.Equal(t, 1, sink.Len())
}

func TestProcessUnnecessaryValue(t *testing.T) {
	t.Parallel()
	a, sink, reported := newAggregator()
	view := class("MyView")

	models := a.Process(Input{Marked: []model.MarkedClass{markedWith(view, "MyView")}})

	require.Len(t, models, 1)
	m := models[0]
	assert.Empty(t, m.Children)
	assert.Empty(t, m.BeforeHooks)
	assert.Empty(t, m.AfterHooks)
	assert.Empty(t, m.Attrs)
	assert.Empty(t, m.Styles)

	items := reported.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.Warning, items[0].Kind)
	assert.Equal(t, MsgUnnecessaryValue, items[0].Message)
	assert.Zero(t, sink.Len())
}

func TestProcessAccumulatesAcrossRounds(t *testing.T) {
	t.Parallel()
	a, _, _ := newAggregator()
	first := class("A")
	second := class("B")

	r1 := a.Process(Input{Marked: []model.MarkedClass{markedWith(first, "")}})
	r2 := a.Process(Input{Marked: []model.MarkedClass{markedWith(second, "")}})

	require.Len(t, r1, 1)
	require.Len(t, r2, 1)
	all := a.Models()
	require.Len(t, all, 2)
	assert.Equal(t, "com.example.A", all[0].Class.QualifiedName())
	assert.Equal(t, "com.example.B", all[1].Class.QualifiedName())
}

func TestProcessKeepsMarkedOrder(t *testing.T) {
	t.Parallel()
	a, _, _ := newAggregator()

	models := a.Process(Input{Marked: []model.MarkedClass{
		markedWith(class("Z"), ""),
		markedWith(class("A"), ""),
		markedWith(class("M"), ""),
	}})

	require.Len(t, models, 3)
	assert.Equal(t, "Z", models[0].Class.Name)
	assert.Equal(t, "A", models[1].Class.Name)
	assert.Equal(t, "M", models[2].Class.Name)
}
