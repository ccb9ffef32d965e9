package migrate

import (
	"fmt"
	"io"

	"github.com/golang-migrate/migrate/v4"
)

var _ migrate.Logger = (*consoleLogger)(nil)

// consoleLogger prints migration progress to the command output, prefixed by the module name.
type consoleLogger struct {
	out    io.Writer
	prefix string
}

func newConsoleLogger(out io.Writer, module string) *consoleLogger {
	return &consoleLogger{out: out, prefix: fmt.Sprintf("[%s] ", module)}
}

func (l *consoleLogger) Printf(format string, v ...any) {
	fmt.Fprintf(l.out, l.prefix+format, v...)
}

// Verbose is off: only applied migrations are printed.
func (l *consoleLogger) Verbose() bool {
	return false
}
