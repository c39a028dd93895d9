package notify

import (
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/ports"
)

// LineWriter writes whole protocol lines
type LineWriter interface {
	WriteLine(line string) error
}

// Events writes notifications as "event <level> <msg>" lines for host programs
type Events struct {
	w LineWriter
}

// Verify interface compliance at compile time
var _ ports.Notifier = (*Events)(nil)

// NewEvents creates a new Events notifier
func NewEvents(w LineWriter) *Events {
	return &Events{w: w}
}

func (e *Events) Error(msg string) { e.write(LevelError, msg) }
func (e *Events) Info(msg string)  { e.write(LevelInfo, msg) }
func (e *Events) Warn(msg string)  { e.write(LevelWarn, msg) }

func (e *Events) write(level Level, msg string) {
	if err := e.w.WriteLine(FormatEvent(level, msg)); err != nil {
		logging.Logger.Error("Failed to write event", "level", level, "error", err)
	}
}

// FormatEvent renders an event line. Line breaks in msg are folded into spaces.
func FormatEvent(level Level, msg string) string {
	return "event " + string(level) + " " + singleLine(msg)
}

func singleLine(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == '\n' || r == '\r' {
			out[i] = ' '
		}
	}
	return string(out)
}
