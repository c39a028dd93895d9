package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/renato0307/ferry/internal/ports"
)

// fakeWorker records commands and lets tests inject worker output
type fakeWorker struct {
	handler ports.WorkerHandler
	pid     int

	mu      sync.Mutex
	exited  bool
	killed  bool
	sendErr error
	sent    []string
}

func (w *fakeWorker) Send(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sent = append(w.sent, line)
	return w.sendErr
}

func (w *fakeWorker) Kill() error {
	w.mu.Lock()
	w.killed = true
	w.mu.Unlock()
	w.exit(errors.New("signal: killed"))
	return nil
}

func (w *fakeWorker) PID() int {
	return w.pid
}

// Emit delivers a stdout line
func (w *fakeWorker) Emit(lines ...string) {
	for _, line := range lines {
		w.handler.OnLine(line)
	}
}

// Exit delivers the exit event
func (w *fakeWorker) Exit(err error) {
	w.exit(err)
}

func (w *fakeWorker) exit(err error) {
	w.mu.Lock()
	if w.exited {
		w.mu.Unlock()
		return
	}
	w.exited = true
	w.mu.Unlock()
	w.handler.OnExit(err)
}

func (w *fakeWorker) Sent() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.sent))
	copy(out, w.sent)
	return out
}

func (w *fakeWorker) LastSent() string {
	sent := w.Sent()
	if len(sent) == 0 {
		return ""
	}
	return sent[len(sent)-1]
}

func (w *fakeWorker) Killed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.killed
}

type fakeSpawner struct {
	mu      sync.Mutex
	err     error
	workers []*fakeWorker
}

func (s *fakeSpawner) Spawn(_ context.Context, handler ports.WorkerHandler) (ports.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	w := &fakeWorker{handler: handler, pid: 1000 + len(s.workers)}
	s.workers = append(s.workers, w)
	return w, nil
}

func (s *fakeSpawner) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

func (s *fakeSpawner) Worker(i int) *fakeWorker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workers[i]
}

type fakeTimer struct {
	at      time.Time
	clock   *fakeClock
	f       func()
	fired   bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fakeClock fires timers only when advanced
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), clock: c, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.fired && !t.stopped && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	errors []string
	infos  []string
	warns  []string
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, msg)
}

func (n *recordingNotifier) Warn(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warns = append(n.warns, msg)
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

func (n *recordingNotifier) Warns() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.warns...)
}
