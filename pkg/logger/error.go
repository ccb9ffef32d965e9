package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gaze-network/alkanes-indexer/pkg/logger/stacktrace"
)

// middlewareErrorStackTrace adds the verbose error and its stack trace to records carrying an error.
func middlewareErrorStackTrace() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			var extra []slog.Attr
			rec.Attrs(func(attr slog.Attr) bool {
				if attr.Key != ErrorKey {
					return true
				}
				err, ok := attr.Value.Any().(error)
				if !ok || err == nil {
					return true
				}
				extra = append(extra, slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
				if frames, ok := stacktrace.FromError(err); ok {
					extra = append(extra, slog.Any(ErrorStackTraceKey, stacktrace.Strings(frames)))
				}
				return false
			})
			if len(extra) > 0 {
				rec.AddAttrs(extra...)
			}
			return next(ctx, rec)
		}
	}
}
