// Package sftpd is a small SFTP server for local development and tests.
// It serves the host filesystem to authenticated users.
package sftpd

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	wishlogging "github.com/charmbracelet/wish/logging"
	"github.com/pkg/sftp"

	"github.com/renato0307/ferry/internal/logging"
)

// Config configures the development server. Password authentication is
// enabled when Password is set; public key authentication when
// AuthorizedKeysPath is set.
type Config struct {
	Address            string
	AuthorizedKeysPath string
	HostKeyPath        string
	Password           string
	ReadOnly           bool
	User               string
}

// Server is an SSH server exposing only the sftp subsystem
type Server struct {
	config     Config
	wishServer *ssh.Server
}

// NewServer creates a new development server
func NewServer(config Config) (*Server, error) {
	if config.Password == "" && config.AuthorizedKeysPath == "" {
		return nil, fmt.Errorf("at least one of password or authorized keys must be configured")
	}
	if err := os.MkdirAll(filepath.Dir(config.HostKeyPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create host key directory: %w", err)
	}

	s := &Server{config: config}
	options := []ssh.Option{
		wish.WithAddress(config.Address),
		wish.WithHostKeyPath(config.HostKeyPath),
		withSubsystem("sftp", s.sftpHandler),
		// Middleware executes in reverse order (last to first)
		wish.WithMiddleware(
			refuseShell,
			wishlogging.Middleware(),
		),
	}
	if config.Password != "" {
		options = append(options, wish.WithPasswordAuth(s.passwordAuth))
	}
	if config.AuthorizedKeysPath != "" {
		options = append(options, wish.WithPublicKeyAuth(s.publicKeyAuth))
	}

	wishServer, err := wish.NewServer(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH server: %w", err)
	}
	s.wishServer = wishServer
	return s, nil
}

// ListenAndServe serves on the configured address until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	logging.Logger.Info("Starting SFTP server", "address", listener.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.wishServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Logger.Info("Shutting down SFTP server")
	if err := s.wishServer.Close(); err != nil {
		return fmt.Errorf("failed to shutdown SFTP server: %w", err)
	}
	<-errCh
	logging.Logger.Info("SFTP server stopped")
	return nil
}

func (s *Server) sftpHandler(sess ssh.Session) {
	logging.Logger.Info("SFTP session started",
		"user", sess.User(),
		"remote_addr", sess.RemoteAddr().String())

	var options []sftp.ServerOption
	if s.config.ReadOnly {
		options = append(options, sftp.ReadOnly())
	}
	server, err := sftp.NewServer(sess, options...)
	if err != nil {
		logging.Logger.Error("Failed to start SFTP server", "error", err)
		_ = sess.Exit(1)
		return
	}
	if err := server.Serve(); err != nil && !errors.Is(err, io.EOF) {
		logging.Logger.Warn("SFTP session ended with error", "user", sess.User(), "error", err)
		return
	}
	logging.Logger.Info("SFTP session ended", "user", sess.User())
}

func (s *Server) userAllowed(user string) bool {
	return s.config.User == "" || user == s.config.User
}

func (s *Server) passwordAuth(ctx ssh.Context, password string) bool {
	ok := s.userAllowed(ctx.User()) &&
		subtle.ConstantTimeCompare([]byte(password), []byte(s.config.Password)) == 1
	if !ok {
		logging.Logger.Warn("Password authentication failed", "user", ctx.User())
	}
	return ok
}

func (s *Server) publicKeyAuth(ctx ssh.Context, key ssh.PublicKey) bool {
	fingerprint := keyFingerprint(key)
	if !s.userAllowed(ctx.User()) {
		logging.Logger.Warn("Unknown user", "user", ctx.User(), "fingerprint", fingerprint)
		return false
	}
	if !isKeyAuthorized(key, s.config.AuthorizedKeysPath) {
		logging.Logger.Warn("Unauthorized SSH key",
			"user", ctx.User(),
			"fingerprint", fingerprint,
			"key_type", key.Type())
		return false
	}
	logging.Logger.Info("SSH key authenticated",
		"user", ctx.User(),
		"fingerprint", fingerprint,
		"key_type", key.Type())
	return true
}

func withSubsystem(name string, handler ssh.SubsystemHandler) ssh.Option {
	return func(srv *ssh.Server) error {
		if srv.SubsystemHandlers == nil {
			srv.SubsystemHandlers = map[string]ssh.SubsystemHandler{}
		}
		srv.SubsystemHandlers[name] = handler
		return nil
	}
}

// refuseShell ends sessions that ask for anything but sftp
func refuseShell(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		wish.Fatalln(sess, "this server only provides the sftp subsystem")
	}
}
