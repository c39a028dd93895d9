package worker

import (
	"context"
	"io"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/ferry/internal/adapters/sftpclient"
	"github.com/renato0307/ferry/internal/ports"
)

// newPipeTransfer connects an SFTP client to an in-process server over pipes.
// The server operates on the local filesystem.
func newPipeTransfer(t *testing.T) *sftpclient.Transfer {
	t.Helper()
	clientRead, serverWrite := io.Pipe()
	serverRead, clientWrite := io.Pipe()

	server, err := sftp.NewServer(struct {
		io.Reader
		io.WriteCloser
	}{serverRead, serverWrite})
	require.NoError(t, err)
	// Closing the server side unblocks the client reader once Serve returns
	go func() {
		_ = server.Serve()
		_ = serverWrite.Close()
	}()

	client, err := sftp.NewClientPipe(clientRead, clientWrite)
	require.NoError(t, err)

	transfer := sftpclient.NewTransfer(client, nil)
	t.Cleanup(func() {
		_ = transfer.Close()
		_ = clientRead.Close()
		_ = serverRead.Close()
	})
	return transfer
}

// stubDialer hands out a prepared transfer and records the credentials
type stubDialer struct {
	creds    ports.Credentials
	err      error
	transfer ports.Transfer
}

func (d *stubDialer) Dial(_ context.Context, creds ports.Credentials) (ports.Transfer, error) {
	d.creds = creds
	if d.err != nil {
		return nil, d.err
	}
	return d.transfer, nil
}
