package tracing

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanTree(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "build", "")
	require.NotEmpty(t, root.TraceID)

	_, walk := StartChildSpan(ctx, "walk")
	walk.SetAttr("files", 3)
	walk.End()
	root.End()

	assert.Same(t, root, SpanFromContext(ctx))
	assert.Equal(t, root.TraceID, walk.TraceID)
	assert.Same(t, walk, root.Child("walk"))
	assert.Nil(t, root.Child("missing"))
	assert.GreaterOrEqual(t, root.Duration, walk.Duration)
}

func TestDetachedChild(t *testing.T) {
	_, s := StartChildSpan(context.Background(), "orphan")
	assert.Empty(t, s.TraceID)
}

func TestLogWritesEverySpan(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, root := StartSpan(context.Background(), "query", "trace-1")
	_, child := StartChildSpan(ctx, "rank")
	child.End()
	root.End()
	root.Log(logger)

	out := buf.String()
	assert.Contains(t, out, "span=query")
	assert.Contains(t, out, "span=rank")
	assert.Contains(t, out, "trace_id=trace-1")
}
