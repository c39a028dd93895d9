package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/ferry/internal/adapters/notify"
	"github.com/renato0307/ferry/internal/domain"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/theme"
)

const (
	maxNotifications = 5
	pollInterval     = 100 * time.Millisecond
)

// Source is the orchestrator state the transfer view polls
type Source interface {
	Progress(ctx context.Context) (domain.Progress, error)
	Queue(ctx context.Context) ([]domain.Operation, error)
}

// Completion reports a retired operation
type Completion struct {
	Err error
	ID  int64
}

type itemState int

const (
	itemPending itemState = iota
	itemProcessing
	itemDone
	itemFailed
)

type transferItem struct {
	err   error
	op    domain.Operation
	state itemState
}

type (
	completionMsg   Completion
	notificationMsg notify.Message
	snapshotMsg     struct {
		progress domain.Progress
		queue    []domain.Operation
	}
	tickMsg struct{}
)

type transferKeys struct {
	Abort key.Binding
}

func newTransferKeys() transferKeys {
	return transferKeys{
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c", "q", "esc"),
			key.WithHelp("q", "abort pending"),
		),
	}
}

// TransferModel shows the queued operations of one push or rm invocation
// until each of them is retired
type TransferModel struct {
	aborted       bool
	bar           progress.Model
	completions   <-chan Completion
	current       domain.Progress
	items         []transferItem
	keys          transferKeys
	notifications <-chan notify.Message
	recent        []notify.Message
	remaining     int
	source        Source
	title         string
}

// NewTransferModel creates a view tracking ops
func NewTransferModel(
	title string,
	ops []domain.Operation,
	source Source,
	completions <-chan Completion,
	notifications <-chan notify.Message,
) *TransferModel {
	items := make([]transferItem, len(ops))
	for i, op := range ops {
		items[i] = transferItem{op: op}
	}
	return &TransferModel{
		bar:           progress.New(progress.WithGradient(theme.ProgressGradientStart, theme.ProgressGradientEnd), progress.WithWidth(40)),
		completions:   completions,
		current:       domain.EmptyProgress(),
		items:         items,
		keys:          newTransferKeys(),
		notifications: notifications,
		remaining:     len(ops),
		source:        source,
		title:         title,
	}
}

// Aborted reports whether the user quit before every operation finished
func (m *TransferModel) Aborted() bool {
	return m.aborted
}

// Failed returns the number of operations that finished with an error
func (m *TransferModel) Failed() int {
	n := 0
	for _, item := range m.items {
		if item.state == itemFailed {
			n++
		}
	}
	return n
}

func (m *TransferModel) Init() tea.Cmd {
	if m.remaining == 0 {
		return tea.Quit
	}
	return tea.Batch(m.snapshot(), waitCompletion(m.completions), waitNotification(m.notifications))
}

func (m *TransferModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Abort) {
			logging.Logger.Info("Transfer view aborted", "remaining", m.remaining)
			m.aborted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := msg.Width - 10
		if width > 60 {
			width = 60
		}
		if width > 10 {
			m.bar.Width = width
		}
	case tickMsg:
		return m, m.snapshot()
	case snapshotMsg:
		m.applySnapshot(msg)
		return m, m.tick()
	case completionMsg:
		m.complete(Completion(msg))
		if m.remaining == 0 {
			return m, tea.Quit
		}
		return m, waitCompletion(m.completions)
	case notificationMsg:
		m.recent = append(m.recent, notify.Message(msg))
		if len(m.recent) > maxNotifications {
			m.recent = m.recent[len(m.recent)-maxNotifications:]
		}
		return m, waitNotification(m.notifications)
	}
	return m, nil
}

func (m *TransferModel) View() string {
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render(m.title))
	b.WriteString("\n")

	for _, item := range m.items {
		b.WriteString(m.renderItem(item))
		b.WriteString("\n")
	}

	if m.current.Known() {
		percent := m.current.Percent
		if percent < 0 {
			percent = 0
		}
		b.WriteString("\n")
		b.WriteString(theme.RemoteStyle.Render(m.current.File))
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(float64(percent) / 100))
		b.WriteString("\n")
	}

	if len(m.recent) > 0 {
		b.WriteString("\n")
		for _, n := range m.recent {
			b.WriteString(notify.Render(n))
			b.WriteString("\n")
		}
	}

	help := m.keys.Abort.Help()
	b.WriteString(theme.HelpStyle.Render(fmt.Sprintf("%s %s", help.Key, help.Desc)))
	b.WriteString("\n")
	return b.String()
}

func (m *TransferModel) renderItem(item transferItem) string {
	label := fmt.Sprintf("%s %s", item.op.Kind, filepath.Base(item.op.LocalPath))
	switch item.state {
	case itemDone:
		return theme.DoneStyle.Render(theme.IconDone) + " " + theme.NormalStyle.Render(label)
	case itemFailed:
		return theme.ErrorStyle.Render(theme.IconFailed) + " " + theme.NormalStyle.Render(label) +
			" " + theme.MutedStyle.Render(item.err.Error())
	case itemProcessing:
		return theme.ProcessingStyle.Render(theme.IconProcessing) + " " + theme.HighlightStyle.Render(label)
	default:
		return theme.PendingStyle.Render(theme.IconPending) + " " + theme.MutedStyle.Render(label)
	}
}

func (m *TransferModel) applySnapshot(msg snapshotMsg) {
	m.current = msg.progress
	processing := make(map[int64]bool, len(msg.queue))
	for _, op := range msg.queue {
		processing[op.ID] = op.Processing
	}
	for i := range m.items {
		item := &m.items[i]
		if item.state == itemDone || item.state == itemFailed {
			continue
		}
		if processing[item.op.ID] {
			item.state = itemProcessing
		} else {
			item.state = itemPending
		}
	}
}

func (m *TransferModel) complete(c Completion) {
	for i := range m.items {
		item := &m.items[i]
		if item.op.ID != c.ID || item.state == itemDone || item.state == itemFailed {
			continue
		}
		item.err = c.Err
		item.state = itemDone
		if c.Err != nil {
			item.state = itemFailed
		}
		m.remaining--
		return
	}
}

func (m *TransferModel) tick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *TransferModel) snapshot() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		current, err := source.Progress(ctx)
		if err != nil {
			logging.Logger.Debug("Failed to poll progress", "error", err)
			current = domain.EmptyProgress()
		}
		queue, err := source.Queue(ctx)
		if err != nil {
			logging.Logger.Debug("Failed to poll queue", "error", err)
		}
		return snapshotMsg{progress: current, queue: queue}
	}
}

func waitCompletion(ch <-chan Completion) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return completionMsg(c)
	}
}

func waitNotification(ch <-chan notify.Message) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}
