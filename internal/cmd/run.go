package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/renato0307/ferry/internal/adapters/notify"
	"github.com/renato0307/ferry/internal/domain"
	"github.com/renato0307/ferry/internal/host"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/services"
)

// RunCmd serves the editor line protocol until quit or EOF
type RunCmd struct {
	Root string `help:"Working root used to pick the server (defaults to the current directory)" type:"path"`
}

// Run executes the run command
func (r *RunCmd) Run(cli *CLI) error {
	container, err := cli.container()
	if err != nil {
		return err
	}

	root := r.Root
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	runID := uuid.New().String()
	logging.Logger = logging.Logger.With("run_id", runID)
	logging.Logger.Info("Starting host protocol", "root", root)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := host.NewWriter(os.Stdout)
	var server *host.Server
	orchestrator, err := container.NewOrchestrator(notify.NewEvents(out), services.OrchestratorConfig{
		OnComplete: func(op domain.Operation, err error) {
			server.OnComplete(op, err)
		},
		WorkingRoot: root,
	})
	if err != nil {
		return err
	}
	server = host.NewServer(orchestrator, out, root)

	loopCtx, cancelLoop := context.WithCancel(ctx)
	loopDone := make(chan error, 1)
	go func() { loopDone <- orchestrator.Run(loopCtx) }()

	serveDone := make(chan error, 1)
	go func() { serveDone <- server.Serve(ctx, os.Stdin) }()

	var serveErr error
	select {
	case serveErr = <-serveDone:
	case <-ctx.Done():
		logging.Logger.Info("Interrupted")
	}

	cancelLoop()
	<-loopDone
	logging.Logger.Info("Host protocol stopped")
	return serveErr
}
