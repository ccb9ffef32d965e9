package logger

import (
	"fmt"
	"log/slog"
)

const (
	LevelCritical = slog.Level(12)
	LevelPanic    = slog.Level(14)
	LevelFatal    = slog.Level(16)
)

// highest first
var extraLevels = []struct {
	level slog.Level
	name  string
}{
	{LevelFatal, "FATAL"},
	{LevelPanic, "PANIC"},
	{LevelCritical, "CRITICAL"},
}

type attrReplacer func(groups []string, attr slog.Attr) slog.Attr

func attrReplacerChain(replacers ...attrReplacer) attrReplacer {
	return func(groups []string, attr slog.Attr) slog.Attr {
		for _, replace := range replacers {
			attr = replace(groups, attr)
		}
		return attr
	}
}

// levelAttrReplacer names the levels above ERROR, e.g. FATAL or CRITICAL+1.
func levelAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) != 0 || attr.Key != LevelKey {
		return attr
	}
	level, ok := attr.Value.Any().(slog.Level)
	if !ok {
		return attr
	}
	for _, extra := range extraLevels {
		if level < extra.level {
			continue
		}
		name := extra.name
		if offset := level - extra.level; offset != 0 {
			name = fmt.Sprintf("%s%+d", name, offset)
		}
		return slog.String(attr.Key, name)
	}
	return attr
}

// durationToMsAttrReplacer logs durations as whole milliseconds.
func durationToMsAttrReplacer(_ []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindDuration {
		return attr
	}
	return slog.Int64(attr.Key, attr.Value.Duration().Milliseconds())
}

// errorAttrReplacer renders error attributes as their message so every handler prints them the same way.
func errorAttrReplacer(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key != ErrorKey || attr.Value.Kind() != slog.KindAny {
		return attr
	}
	if err, ok := attr.Value.Any().(error); ok && err != nil {
		return slog.String(ErrorKey, err.Error())
	}
	return attr
}
