package ports

import (
	"context"
	"io"
	"os"

	"github.com/renato0307/ferry/internal/domain"
)

// Transfer is the authenticated file-transfer session the worker builds on.
// Paths are absolute remote paths. Missing paths yield errors matching
// os.ErrNotExist.
type Transfer interface {
	// Alive reports whether the session is still usable without blocking
	Alive() bool
	Close() error
	// Create opens path for writing, creating or truncating it
	Create(path string) (io.WriteCloser, error)
	// Mkdir creates a single directory with owner-only permissions
	Mkdir(path string) error
	ReadDir(path string) ([]os.FileInfo, error)
	// Remove unlinks a file
	Remove(path string) error
	// RemoveDirectory removes an empty directory
	RemoveDirectory(path string) error
	Stat(path string) (os.FileInfo, error)
}

// Credentials are the connection parameters collected by the worker handshake
type Credentials struct {
	Host     string
	Method   domain.AuthMethod
	Secret   string
	Username string
}

// TransferDialer opens an authenticated Transfer session
type TransferDialer interface {
	Dial(ctx context.Context, creds Credentials) (Transfer, error)
}
