package atlast

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// logging routes engine diagnostics through a *logrus.Logger so a host can
// attach whatever hooks and formatters it already uses. A nil logger
// silences everything.
type logging struct {
	log *logrus.Logger

	markWidth int
}

// trace emits a Trace-level dispatch-loop step: a left-padded mark column
// followed by the message, keeping successive steps visually aligned.
func (l *logging) trace(mark, mess string, args ...interface{}) {
	if l.log == nil || !l.log.IsLevelEnabled(logrus.TraceLevel) {
		return
	}
	if n := l.markWidth - len(mark); n > 0 {
		mark = strings.Repeat(" ", n) + mark
	} else if n < 0 {
		l.markWidth = len(mark)
	}
	l.log.WithField("mark", mark).Tracef(mess, args...)
}

// warnf emits a Warn-level diagnostic, used for faults and non-fatal
// notices like "not unique" redefinitions.
func (l *logging) warnf(mess string, args ...interface{}) {
	if l.log == nil {
		return
	}
	l.log.Warnf(mess, args...)
}
