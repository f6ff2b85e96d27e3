package xlog

import (
	"fmt"

	"github.com/panjf2000/ants/v2"
)

var _ ants.Logger = (*AntsXLogger)(nil)

// AntsXLogger receives the ants pool's own messages, mostly recovered
// worker panics, so they are logged at warn level.
type AntsXLogger struct {
	logger XLogger
}

func (l *AntsXLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func NewAntsXLogger(parent XLogger) *AntsXLogger {
	xl, ok := parent.(*xLogger)
	if !ok || xl == nil {
		return &AntsXLogger{}
	}
	return &AntsXLogger{logger: newComponentLogger(xl, "Ants")}
}
