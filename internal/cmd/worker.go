package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/renato0307/ferry/internal/adapters/sftpclient"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/worker"
)

// WorkerCmd runs the transfer worker. Stdout carries the line protocol only.
type WorkerCmd struct {
	KnownHosts string `help:"known_hosts file used to verify host keys" env:"FERRY_KNOWN_HOSTS"`
}

// Run executes the worker and exits with its status code
func (w *WorkerCmd) Run(cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	knownHosts := w.KnownHosts
	if knownHosts == "" {
		knownHosts = cli.runtime.KnownHosts
	}
	logging.Logger.Info("Worker started", "known_hosts", knownHosts)

	engine := worker.NewEngine(sftpclient.NewDialer(knownHosts), os.Stdin, os.Stdout)
	code := engine.Run(ctx)
	logging.Logger.Info("Worker exiting", "code", code)

	stop()
	cli.Close()
	os.Exit(code)
	return nil
}
