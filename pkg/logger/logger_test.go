package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitUnsupportedOutput(t *testing.T) {
	err := Init(Config{Output: "xml"})
	assert.ErrorIs(t, err, errs.Unsupported)
}

func TestLevelAttrReplacer(t *testing.T) {
	testcases := []struct {
		level    slog.Level
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelPanic, "PANIC"},
		{LevelFatal, "FATAL"},
		{LevelFatal + 1, "FATAL+1"},
	}
	for _, tc := range testcases {
		t.Run(tc.expected, func(t *testing.T) {
			attr := levelAttrReplacer(nil, slog.Any(LevelKey, tc.level))
			assert.Equal(t, tc.expected, attr.Value.String())
		})
	}

	attr := levelAttrReplacer(nil, slog.Any(LevelKey, slog.LevelWarn))
	assert.Equal(t, slog.LevelWarn, attr.Value.Any())
}

func TestDurationToMsAttrReplacer(t *testing.T) {
	attr := durationToMsAttrReplacer(nil, slog.Duration("took", 1500*time.Millisecond))
	assert.Equal(t, int64(1500), attr.Value.Int64())
}

func TestErrorStackTraceMiddleware(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: attrReplacerChain(errorAttrReplacer),
	})
	l := slog.New(newChainHandler(handler, middlewareErrorStackTrace()))

	l.LogAttrs(context.Background(), slog.LevelError, "failed", slogx.Error(errors.New("boom")))

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, ErrorVerboseKey)
	assert.Contains(t, out, ErrorStackTraceKey)
}
