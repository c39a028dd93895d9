package integration_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/renato0307/ferry/internal/adapters/sftpd"
)

const testPassword = "s3cret"

// startSFTPServer runs the development server in-process and returns its address
func startSFTPServer(t *testing.T) string {
	t.Helper()
	srv, err := sftpd.NewServer(sftpd.Config{
		HostKeyPath: filepath.Join(t.TempDir(), "ssh", "id_ed25519"),
		Password:    testPassword,
	})
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, listener) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("sftp server did not stop")
		}
	})
	return listener.Addr().String()
}
