package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/renato0307/ferry/internal/adapters/sftpd"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/paths"
)

// ServeCmd starts the development SFTP server
type ServeCmd struct {
	AuthorizedKeys string `help:"authorized_keys file for public key authentication" default:"~/.ssh/authorized_keys"`
	Host           string `help:"Host to bind to" default:"localhost"`
	Password       string `help:"Password accepted for password authentication" env:"FERRY_SERVE_PASSWORD"`
	Port           string `help:"Port to listen on" default:"2222"`
	ReadOnly       bool   `help:"Reject writes"`
	User           string `help:"Only accept this user name"`
}

// Run executes the serve command
func (s *ServeCmd) Run(cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := fmt.Sprintf("%s:%s", s.Host, s.Port)
	server, err := sftpd.NewServer(sftpd.Config{
		Address:            address,
		AuthorizedKeysPath: paths.ExpandPath(s.AuthorizedKeys),
		HostKeyPath:        filepath.Join(paths.GetSSHDir(), "id_ed25519"),
		Password:           s.Password,
		ReadOnly:           s.ReadOnly,
		User:               s.User,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logging.Logger.Info("Starting ferry SFTP server", "address", address, "read_only", s.ReadOnly)
	fmt.Printf("SFTP server listening on %s\n", address)
	return server.ListenAndServe(ctx)
}
