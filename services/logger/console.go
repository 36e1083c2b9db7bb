package logsvc

import (
	"fmt"
	"io"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/auth"
)

// ConsoleLogger writes leveled logs to a writer. It is used when Rollbar is not configured.
type ConsoleLogger struct {
	l *log.Logger
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(prefix string, w io.Writer, debug bool) *ConsoleLogger {
	l := log.New(prefix)
	l.SetOutput(w)
	l.SetHeader("${time_rfc3339} ${level} ${prefix}")
	l.SetLevel(log.INFO)
	if debug {
		l.SetLevel(log.DEBUG)
	}
	return &ConsoleLogger{l: l}
}

func (c *ConsoleLogger) Enable(enabled bool) {
	if enabled {
		c.l.SetLevel(log.DEBUG)
	} else {
		c.l.SetLevel(log.OFF)
	}
}

func (c *ConsoleLogger) format(msg string, args []interface{}) string {
	var b strings.Builder
	b.WriteString(msg)
	for _, arg := range args {
		if acc, ok := arg.(auth.Account); ok {
			_, _ = fmt.Fprintf(&b, " account=%s", acc.ID)
			continue
		}
		_, _ = fmt.Fprintf(&b, " | %+v", arg)
	}
	return b.String()
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) { c.l.Debug(c.format(msg, args)) }
func (c *ConsoleLogger) Info(msg string, args ...interface{})  { c.l.Info(c.format(msg, args)) }
func (c *ConsoleLogger) Warn(msg string, args ...interface{})  { c.l.Warn(c.format(msg, args)) }
func (c *ConsoleLogger) Error(msg string, args ...interface{}) { c.l.Error(c.format(msg, args)) }
func (c *ConsoleLogger) Fatal(msg string, args ...interface{}) { c.l.Fatal(c.format(msg, args)) }
