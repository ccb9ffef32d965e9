// Package stacktrace reads the call stacks recorded by cockroachdb errors.
package stacktrace

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
	"github.com/samber/lo"
)

// Frame is one call site of a recorded stack.
type Frame struct {
	Function string
	File     string
	Line     int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line)
}

// FromError returns the frames, innermost first, recorded by the outermost error that carries a stack.
func FromError(err error) ([]Frame, bool) {
	for ; err != nil; err = errbase.UnwrapOnce(err) {
		if p, ok := err.(errbase.StackTraceProvider); ok {
			return resolve(p.StackTrace()), true
		}
	}
	return nil, false
}

// Strings formats each frame as "function file:line".
func Strings(frames []Frame) []string {
	return lo.Map(frames, func(f Frame, _ int) string { return f.String() })
}

// resolve drops the runtime frames at the bottom of the stack (goexit, main).
func resolve(st errbase.StackTrace) []Frame {
	pcs := make([]uintptr, len(st))
	for i, f := range st {
		pcs[i] = uintptr(f)
	}

	var frames []Frame
	it := runtime.CallersFrames(pcs)
	for {
		f, more := it.Next()
		frames = append(frames, Frame{Function: f.Function, File: f.File, Line: f.Line})
		if !more {
			break
		}
	}
	for len(frames) > 0 && strings.HasPrefix(frames[len(frames)-1].Function, "runtime.") {
		frames = frames[:len(frames)-1]
	}
	return frames
}
