package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/renato0307/ferry/internal/adapters/notify"
	"github.com/renato0307/ferry/internal/domain"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/ports"
	"github.com/renato0307/ferry/internal/services"
	"github.com/renato0307/ferry/internal/ui"
)

const disconnectWait = 5 * time.Second

// PushCmd uploads local paths to the selected remote
type PushCmd struct {
	Paths []string `arg:"" help:"Files or directories to upload" type:"path"`
	Plain bool     `help:"Print plain messages instead of the interactive view"`
}

// Run executes the push command
func (p *PushCmd) Run(cli *CLI) error {
	return runTransfer(cli, domain.KindUpload, p.Paths, p.Plain)
}

// RmCmd deletes the remote counterparts of local paths
type RmCmd struct {
	Paths []string `arg:"" help:"Paths whose remote counterparts are deleted" type:"path"`
	Plain bool     `help:"Print plain messages instead of the interactive view"`
}

// Run executes the rm command
func (r *RmCmd) Run(cli *CLI) error {
	return runTransfer(cli, domain.KindRemove, r.Paths, r.Plain)
}

func runTransfer(cli *CLI, kind domain.OperationKind, localPaths []string, plain bool) error {
	container, err := cli.container()
	if err != nil {
		return err
	}
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	interactive := !plain && term.IsTerminal(int(os.Stdout.Fd()))
	var notifier ports.Notifier
	var channel *notify.Channel
	if interactive {
		channel = notify.NewChannel(64)
		notifier = channel
	} else {
		notifier = notify.NewConsole(os.Stderr)
	}

	targets, err := expandPaths(kind, localPaths)
	if err != nil {
		return err
	}

	completions := make(chan ui.Completion, len(targets))
	orchestrator, err := container.NewOrchestrator(notifier, services.OrchestratorConfig{
		DropQueueOnConnectFailure: true,
		OnComplete: func(op domain.Operation, err error) {
			completions <- ui.Completion{ID: op.ID, Err: err}
		},
		WorkingRoot: root,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	loopCtx, cancelLoop := context.WithCancel(context.Background())
	loopDone := make(chan error, 1)
	go func() { loopDone <- orchestrator.Run(loopCtx) }()
	defer func() {
		cancelLoop()
		<-loopDone
	}()

	var ops []domain.Operation
	var rejected int
	for _, p := range targets {
		id, err := orchestrator.Enqueue(ctx, kind, p, "")
		if err != nil {
			notifier.Error(fmt.Sprintf("%s %s: %v", kind, p, err))
			rejected++
			continue
		}
		ops = append(ops, domain.Operation{ID: id, Kind: kind, LocalPath: p})
	}

	var failed int
	if interactive {
		failed, err = watchInteractive(kind, ops, orchestrator, completions, channel)
		if err != nil {
			return err
		}
	} else {
		failed = waitPlain(ctx, len(ops), completions)
	}

	disconnect(orchestrator)

	if failed+rejected > 0 {
		return fmt.Errorf("%d of %d operations failed", failed+rejected, len(targets))
	}
	return nil
}

// expandPaths makes paths absolute. For uploads, directories are expanded
// into themselves followed by everything below them in lexical order. A
// remove of a directory stays one recursive remove.
func expandPaths(kind domain.OperationKind, localPaths []string) ([]string, error) {
	var targets []string
	for _, p := range localPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if kind != domain.KindUpload || err != nil || !info.IsDir() {
			// Missing uploads still go to the worker, which reports them
			targets = append(targets, abs)
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type()&fs.ModeSymlink != 0 {
				logging.Logger.Debug("Skipping symlink", "path", path)
				return nil
			}
			targets = append(targets, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}
	return targets, nil
}

func watchInteractive(
	kind domain.OperationKind,
	ops []domain.Operation,
	orchestrator *services.Orchestrator,
	completions <-chan ui.Completion,
	channel *notify.Channel,
) (int, error) {
	title := "ferry push"
	if kind == domain.KindRemove {
		title = "ferry rm"
	}
	model := ui.NewTransferModel(title, ops, orchestrator, completions, channel.Messages())
	if _, err := tea.NewProgram(model).Run(); err != nil {
		logging.Logger.Error("Transfer view error", "error", err)
		return 0, fmt.Errorf("error running transfer view: %w", err)
	}
	if model.Aborted() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		removed, err := orchestrator.ClearPending(ctx)
		if err != nil {
			logging.Logger.Warn("Failed to clear pending operations", "error", err)
		}
		return 0, fmt.Errorf("aborted, %d pending operations dropped", removed)
	}
	return model.Failed(), nil
}

func waitPlain(ctx context.Context, count int, completions <-chan ui.Completion) int {
	failed := 0
	for done := 0; done < count; done++ {
		select {
		case c := <-completions:
			if c.Err != nil {
				failed++
			}
		case <-ctx.Done():
			return failed + count - done
		}
	}
	return failed
}

// disconnect asks the worker to exit and waits briefly for it to go
func disconnect(orchestrator *services.Orchestrator) {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectWait)
	defer cancel()
	if err := orchestrator.Disconnect(ctx); err != nil {
		logging.Logger.Debug("Disconnect failed", "error", err)
		return
	}
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		status, err := orchestrator.ConnectionStatus(ctx)
		if err != nil || status.Phase == domain.PhaseDisconnected {
			return
		}
		select {
		case <-ctx.Done():
			logging.Logger.Warn("Worker did not exit in time")
			return
		case <-ticker.C:
		}
	}
}
