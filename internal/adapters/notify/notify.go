// Package notify delivers orchestrator notifications to the user.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/ports"
	"github.com/renato0307/ferry/internal/theme"
)

// Level is the severity of a notification
type Level string

const (
	LevelError Level = "error"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
)

// Message is a single notification
type Message struct {
	Level Level
	Text  string
}

// Console prints styled notifications to a terminal
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// Verify interface compliance at compile time
var _ ports.Notifier = (*Console)(nil)

// NewConsole creates a new Console writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Error(msg string) { c.print(LevelError, msg) }
func (c *Console) Info(msg string)  { c.print(LevelInfo, msg) }
func (c *Console) Warn(msg string)  { c.print(LevelWarn, msg) }

func (c *Console) print(level Level, msg string) {
	logging.Logger.Debug("Notification", "level", level, "message", msg)

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, Render(Message{Level: level, Text: msg}))
}

// Render formats a message with the style of its level
func Render(m Message) string {
	switch m.Level {
	case LevelError:
		return theme.ErrorStyle.Render("error") + " " + m.Text
	case LevelWarn:
		return theme.WarnStyle.Render("warn") + "  " + m.Text
	default:
		return theme.InfoStyle.Render("info") + "  " + m.Text
	}
}

// Channel forwards notifications to a channel, dropping them when the
// reader falls behind
type Channel struct {
	ch chan Message
}

// Verify interface compliance at compile time
var _ ports.Notifier = (*Channel)(nil)

// NewChannel creates a Channel buffering up to size messages
func NewChannel(size int) *Channel {
	return &Channel{ch: make(chan Message, size)}
}

// Messages returns the receive side
func (c *Channel) Messages() <-chan Message {
	return c.ch
}

func (c *Channel) Error(msg string) { c.send(LevelError, msg) }
func (c *Channel) Info(msg string)  { c.send(LevelInfo, msg) }
func (c *Channel) Warn(msg string)  { c.send(LevelWarn, msg) }

func (c *Channel) send(level Level, msg string) {
	select {
	case c.ch <- Message{Level: level, Text: msg}:
	default:
		logging.Logger.Warn("Notification dropped", "level", level, "message", msg)
	}
}
