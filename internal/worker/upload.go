package worker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/renato0307/ferry/internal/ports"
)

// ChunkSize is the size of each read from the local file
const ChunkSize = 32 * 1024

// Upload copies localPath to remotePath, creating the remote parent chain.
// A local directory only creates the remote directory chain. onProgress is
// called with each new integer percentage and at least once.
func Upload(t ports.Transfer, localPath, remotePath string, onProgress func(percent int)) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("Failed to open local file: %s", localPath)
	}

	if info.IsDir() {
		if err := EnsureDirChain(t, remotePath); err != nil {
			return fmt.Errorf("Failed to create remote directory recursively: %s: %w", remotePath, err)
		}
		return nil
	}

	parent := path.Dir(remotePath)
	if err := EnsureDirChain(t, parent); err != nil {
		return fmt.Errorf("Failed to create remote directory recursively: %s: %w", parent, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("Failed to open local file: %s", localPath)
	}
	defer src.Close()

	dst, err := t.Create(remotePath)
	if err != nil {
		return fmt.Errorf("Unable to open remote file '%s': %w", remotePath, err)
	}

	if err := copyChunks(dst, src, info.Size(), onProgress); err != nil {
		dst.Close()
		if errors.Is(err, errLocalRead) {
			return fmt.Errorf("Failed to read local file: %s: %w", localPath, err)
		}
		return fmt.Errorf("SFTP write error while writing to: %s: %w", remotePath, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("SFTP write error while writing to: %s: %w", remotePath, err)
	}
	return nil
}

var errLocalRead = errors.New("local read failed")

func copyChunks(dst io.Writer, src io.Reader, size int64, onProgress func(int)) error {
	if size <= 0 {
		onProgress(100)
	}

	buf := make([]byte, ChunkSize)
	var sent int64
	last := -1
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if err := writeFull(dst, buf[:n]); err != nil {
				return err
			}
			sent += int64(n)
			if size > 0 {
				percent := int(sent * 100 / size)
				if percent > 100 {
					percent = 100
				}
				if percent > last {
					last = percent
					onProgress(percent)
				}
			}
		}
		if rerr == io.EOF {
			if last < 0 && size > 0 {
				// The file shrank to nothing while we read it
				onProgress(100)
			}
			return nil
		}
		if rerr != nil {
			return fmt.Errorf("%w: %v", errLocalRead, rerr)
		}
	}
}

// writeFull retries partial writes until p is written. A write that makes no
// progress is an error.
func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}
