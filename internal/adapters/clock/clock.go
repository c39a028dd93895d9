// Package clock provides the wall clock used by the orchestrator timers.
package clock

import (
	"time"

	"github.com/renato0307/ferry/internal/ports"
)

// System implements ports.Clock with the time package
type System struct{}

// Verify interface compliance at compile time
var _ ports.Clock = System{}

// AfterFunc runs f in its own goroutine after d
func (System) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

// Now returns the current local time
func (System) Now() time.Time {
	return time.Now()
}
