package sftpclient

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeTransfer(t *testing.T) *Transfer {
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

	transfer := NewTransfer(client, nil)
	t.Cleanup(func() {
		_ = transfer.Close()
		_ = serverRead.Close()
	})
	return transfer
}

func TestTransfer_CreateNewFileIsOwnerOnly(t *testing.T) {
	transfer := newPipeTransfer(t)
	path := filepath.Join(t.TempDir(), "new.txt")

	w, err := transfer.Create(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fileMode, info.Mode().Perm())
}

func TestTransfer_CreateTruncatesAndKeepsMode(t *testing.T) {
	transfer := newPipeTransfer(t)
	path := filepath.Join(t.TempDir(), "existing.txt")
	require.NoError(t, os.WriteFile(path, []byte("a much longer body"), 0o644))
	require.NoError(t, os.Chmod(path, 0o644))

	w, err := transfer.Create(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("short"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "short", string(got))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestTransfer_MkdirIsOwnerOnly(t *testing.T) {
	transfer := newPipeTransfer(t)
	path := filepath.Join(t.TempDir(), "dir")

	require.NoError(t, transfer.Mkdir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dirMode, info.Mode().Perm())
}

func TestTransfer_MissingPathMatchesNotExist(t *testing.T) {
	transfer := newPipeTransfer(t)
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := transfer.Stat(missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, transfer.Remove(missing), os.ErrNotExist)
}

func TestTransfer_ReadDirAndRemove(t *testing.T) {
	transfer := newPipeTransfer(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), nil, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o700))

	entries, err := transfer.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, transfer.Remove(filepath.Join(dir, "a")))
	require.NoError(t, transfer.RemoveDirectory(filepath.Join(dir, "sub")))
	entries, err = transfer.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTransfer_AliveUntilClosed(t *testing.T) {
	transfer := newPipeTransfer(t)
	assert.True(t, transfer.Alive())

	require.NoError(t, transfer.Close())

	assert.Eventually(t, func() bool { return !transfer.Alive() }, 2*time.Second, 10*time.Millisecond)
	assert.NoError(t, transfer.Close())
}

func TestTransfer_CloseReturnsAfterServerStops(t *testing.T) {
	transfer := newPipeTransfer(t)
	_, err := transfer.Stat(t.TempDir())
	require.NoError(t, err)

	closed := make(chan error, 1)
	go func() { closed <- transfer.Close() }()

	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
}
