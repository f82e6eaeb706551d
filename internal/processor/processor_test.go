package processor

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/stylegen/internal/aggregate"
	"github.com/phobologic/stylegen/internal/diag"
	"github.com/phobologic/stylegen/internal/model"
)

func styleable(name, value string) model.MarkedClass {
	mc := model.MarkedClass{
		Class:  model.ClassRef{Package: "app", Name: name, File: name + ".java", Line: 1},
		Marker: model.Annotation{Name: "Styleable"},
	}
	if value != "" {
		mc.Marker.Args = []model.AnnotationArg{{Key: "value", Value: `"` + value + `"`}}
	}
	return mc
}

func orphanAttr(name string) model.Declaration {
	return model.AttrDecl{
		Member:       model.Member{Class: model.ClassRef{Package: "app", Name: name, File: name + ".java"}, Name: "setX"},
		ResourceName: name + "_x",
	}
}

func TestRoundsAccumulate(t *testing.T) {
	t.Parallel()
	var c diag.Collector
	p := New(&c)
	ctx := context.Background()

	_, err := p.Process(ctx, aggregate.Input{Marked: []model.MarkedClass{styleable("A", "")}})
	require.NoError(t, err)
	_, err = p.Process(ctx, aggregate.Input{Marked: []model.MarkedClass{styleable("B", "")}})
	require.NoError(t, err)

	require.NoError(t, p.Finish())
	models := p.Models()
	require.Len(t, models, 2)
	assert.Equal(t, "A", models[0].Class.Name)
	assert.Equal(t, "B", models[1].Class.Name)
	assert.Equal(t, 2, p.Rounds())
	assert.Empty(t, c.Items())
}

func TestErrorsFromAllRoundsFlushOnce(t *testing.T) {
	t.Parallel()
	var c diag.Collector
	p := New(&c)
	ctx := context.Background()

	_, err := p.Process(ctx, aggregate.Input{Declarations: []model.Declaration{orphanAttr("First")}})
	require.NoError(t, err)
	_, err = p.Process(ctx, aggregate.Input{Declarations: []model.Declaration{orphanAttr("Second")}})
	require.NoError(t, err)
	assert.Empty(t, c.Items(), "nothing reported before the final round")

	err = p.Finish()
	require.ErrorIs(t, err, ErrProcessingFailed)
	assert.Contains(t, err.Error(), "2 error(s)")

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.Error, items[0].Kind)
	assert.True(t, strings.HasPrefix(items[0].Message, "\n\n"))
	assert.Contains(t, items[0].Message, "app.First")
	assert.Contains(t, items[0].Message, "app.Second")
	assert.Less(t, strings.Index(items[0].Message, "app.First"), strings.Index(items[0].Message, "app.Second"))
}

func TestFinishTwice(t *testing.T) {
	t.Parallel()
	p := New(nil)
	require.NoError(t, p.Finish())
	assert.ErrorIs(t, p.Finish(), ErrFinished)

	_, err := p.Process(context.Background(), aggregate.Input{})
	assert.ErrorIs(t, err, ErrFinished)
}

func TestProcessCanceled(t *testing.T) {
	t.Parallel()
	p := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Process(ctx, aggregate.Input{Marked: []model.MarkedClass{styleable("A", "")}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, p.Rounds())
}

func TestLoggerReceivesRounds(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := New(nil, WithLogger(logger))

	_, err := p.Process(context.Background(), aggregate.Input{Marked: []model.MarkedClass{styleable("A", "")}})
	require.NoError(t, err)
	require.NoError(t, p.Finish())

	out := buf.String()
	assert.Contains(t, out, "round processed")
	assert.Contains(t, out, "processing finished")
}
