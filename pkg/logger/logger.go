// nolint: sloglint
package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
)

var (
	// minimum reporting level, DEBUG until Init runs
	lvl = new(slog.LevelVar)

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: levelAttrReplacer,
	}))
)

func init() {
	lvl.Set(slog.LevelDebug)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

// Config is the logger configuration.
type Config struct {
	// Output is the log format: "text" (default) or "json".
	Output string `mapstructure:"output"`

	// Debug enables DEBUG level, source locations and error stack traces.
	Debug bool `mapstructure:"debug"`
}

// Init replaces the global logger and the slog default logger.
func Init(cfg Config) error {
	options := &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: attrReplacerChain(levelAttrReplacer, errorAttrReplacer, durationToMsAttrReplacer),
	}
	var middlewares []middleware

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
		options.AddSource = true
		middlewares = append(middlewares, middlewareErrorStackTrace())
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Output) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, options)
	case "", "text":
		handler = slog.NewTextHandler(os.Stdout, options)
	default:
		return errors.Wrapf(errs.Unsupported, "logger output %q", cfg.Output)
	}

	lvl.Set(level)
	logger = slog.New(newChainHandler(handler, middlewares...))
	slog.SetDefault(logger)
	return nil
}

// With returns a Logger that includes the given attributes in each output operation.
func With(args ...any) *slog.Logger {
	return logger.With(args...)
}

// Error logs at [slog.LevelError].
func Error(msg string, args ...any) {
	log(context.Background(), logger, slog.LevelError, msg, args...)
}

// Panic logs at [LevelPanic] and then panics.
func Panic(msg string, args ...any) {
	log(context.Background(), logger, LevelPanic, msg, args...)
	panic(msg)
}

// LogAttrs logs the attrs with the logger carried by ctx.
func LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, FromContext(ctx), level, msg, attrs...)
}

// log and logAttrs must be called directly by an exported logging function, callerPC relies on a fixed depth.
func log(ctx context.Context, l *slog.Logger, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}
	rec := slog.NewRecord(time.Now(), level, msg, callerPC())
	rec.Add(args...)
	_ = l.Handler().Handle(ctx, rec)
}

func logAttrs(ctx context.Context, l *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}
	rec := slog.NewRecord(time.Now(), level, msg, callerPC())
	rec.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, rec)
}

// callerPC returns the pc of the caller of the exported logging function.
func callerPC() uintptr {
	var pcs [1]uintptr
	// skip runtime.Callers, callerPC, log or logAttrs, and the exported function
	runtime.Callers(4, pcs[:])
	return pcs[0]
}
