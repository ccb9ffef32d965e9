// Package slogx builds the slog attributes used across the indexer.
package slogx

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gaze-network/uint128"
)

// ErrorKey is the attribute key used by [Error].
const ErrorKey = "error"

func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

func Group(key string, args ...any) slog.Attr {
	return slog.Group(key, args...)
}

// Error returns an empty attr for a nil error, which handlers drop.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(ErrorKey, err)
}

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

func Int(key string, value int) slog.Attr {
	return slog.Int64(key, int64(value))
}

func Uint64(key string, value uint64) slog.Attr {
	return slog.Uint64(key, value)
}

// Uint128 logs the amount in decimal. Values that fit in 64 bits stay numeric.
func Uint128(key string, value uint128.Uint128) slog.Attr {
	if value.Hi == 0 {
		return slog.Uint64(key, value.Lo)
	}
	return slog.String(key, value.String())
}

func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}
