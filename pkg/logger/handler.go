package logger

import (
	"context"
	"log/slog"

	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
)

// Keys for log attributes.
const (
	LevelKey           = slog.LevelKey
	ErrorKey           = slogx.ErrorKey
	ErrorVerboseKey    = "error_verbose"
	ErrorStackTraceKey = "error_stacktrace"
)

type (
	handleFunc func(context.Context, slog.Record) error
	middleware func(handleFunc) handleFunc
)

// chainHandler passes every record through its middlewares, first to last, before the wrapped handler.
type chainHandler struct {
	next        slog.Handler
	middlewares []middleware
	handle      handleFunc
}

func newChainHandler(next slog.Handler, middlewares ...middleware) *chainHandler {
	handle := next.Handle
	for i := len(middlewares) - 1; i >= 0; i-- {
		handle = middlewares[i](handle)
	}
	return &chainHandler{next: next, middlewares: middlewares, handle: handle}
}

func (c *chainHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return c.next.Enabled(ctx, level)
}

func (c *chainHandler) Handle(ctx context.Context, rec slog.Record) error {
	return c.handle(ctx, rec)
}

func (c *chainHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newChainHandler(c.next.WithAttrs(attrs), c.middlewares...)
}

func (c *chainHandler) WithGroup(group string) slog.Handler {
	return newChainHandler(c.next.WithGroup(group), c.middlewares...)
}
