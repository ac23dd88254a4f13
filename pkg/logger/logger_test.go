package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	SetupWriter(&buf, level, "json")
	return &buf
}

func TestWithComponentTagsRecords(t *testing.T) {
	buf := captureJSON(t, "info")
	WithComponent("query-cache").Info("cache invalidated", "keys_deleted", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "query-cache", rec["component"])
	assert.Equal(t, "cache invalidated", rec["msg"])
	assert.Equal(t, 3.0, rec["keys_deleted"])
}

func TestFromContextAddsRequestID(t *testing.T) {
	buf := captureJSON(t, "debug")
	ctx := WithRequestID(context.Background(), "req-1")
	FromContext(ctx).Debug("search served")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}

func TestLevelFiltering(t *testing.T) {
	buf := captureJSON(t, "warn")
	WithComponent("indexer").Info("hidden")
	assert.Zero(t, buf.Len())
}
