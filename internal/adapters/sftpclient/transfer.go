package sftpclient

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/pkg/sftp"

	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/ports"
)

const (
	dirMode  os.FileMode = 0o700
	fileMode os.FileMode = 0o600
)

// Transfer implements ports.Transfer on top of an SFTP client
type Transfer struct {
	client    *sftp.Client
	closeOnce sync.Once
	conn      io.Closer
	dead      chan struct{}
}

// Verify interface compliance at compile time
var _ ports.Transfer = (*Transfer)(nil)

// NewTransfer wraps client. conn, when not nil, is the underlying connection
// closed together with the client.
func NewTransfer(client *sftp.Client, conn io.Closer) *Transfer {
	t := &Transfer{
		client: client,
		conn:   conn,
		dead:   make(chan struct{}),
	}
	go func() {
		err := client.Wait()
		logging.Logger.Debug("SFTP connection closed", "error", err)
		close(t.dead)
	}()
	return t
}

// Alive reports whether the underlying connection is still up
func (t *Transfer) Alive() bool {
	select {
	case <-t.dead:
		return false
	default:
		return true
	}
}

// Close closes the SFTP client and the connection beneath it
func (t *Transfer) Close() error {
	var err error
	t.closeOnce.Do(func() {
		err = t.client.Close()
		if t.conn != nil {
			if cerr := t.conn.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	})
	return err
}

// Create opens path for writing. Newly created files are owner read/write.
func (t *Transfer) Create(path string) (io.WriteCloser, error) {
	_, statErr := t.client.Stat(path)
	created := errors.Is(statErr, os.ErrNotExist)

	f, err := t.client.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return nil, err
	}
	if created {
		if err := f.Chmod(fileMode); err != nil {
			logging.Logger.Debug("Failed to set remote file mode", "path", path, "error", err)
		}
	}
	return f, nil
}

// Mkdir creates a single directory with owner-only permissions
func (t *Transfer) Mkdir(path string) error {
	if err := t.client.Mkdir(path); err != nil {
		return err
	}
	if err := t.client.Chmod(path, dirMode); err != nil {
		logging.Logger.Debug("Failed to set remote directory mode", "path", path, "error", err)
	}
	return nil
}

// ReadDir lists a directory
func (t *Transfer) ReadDir(path string) ([]os.FileInfo, error) {
	return t.client.ReadDir(path)
}

// Remove unlinks a file
func (t *Transfer) Remove(path string) error {
	return t.client.Remove(path)
}

// RemoveDirectory removes an empty directory
func (t *Transfer) RemoveDirectory(path string) error {
	return t.client.RemoveDirectory(path)
}

// Stat returns file information, following symlinks
func (t *Transfer) Stat(path string) (os.FileInfo, error) {
	return t.client.Stat(path)
}
