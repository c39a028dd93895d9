package worker

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/ports"
)

// MaxRemoveDepth bounds the recursion of RemoveRecursive
const MaxRemoveDepth = 64

// EnsureDirChain creates dir and every missing parent. Existing directories
// are accepted; an existing non-directory anywhere on the chain is an error.
func EnsureDirChain(t ports.Transfer, dir string) error {
	if fi, err := t.Stat(dir); err == nil && fi.IsDir() {
		return nil
	}

	prefix := ""
	if strings.HasPrefix(dir, "/") {
		prefix = "/"
	}
	for _, part := range strings.Split(dir, "/") {
		if part == "" || part == "." {
			continue
		}
		if prefix == "" || prefix == "/" {
			prefix += part
		} else {
			prefix += "/" + part
		}

		fi, err := t.Stat(prefix)
		switch {
		case err == nil:
			if !fi.IsDir() {
				return fmt.Errorf("path exists and is not a directory: %s", prefix)
			}
		case errors.Is(err, os.ErrNotExist):
			if err := t.Mkdir(prefix); err != nil {
				// Someone else may have created it in the meantime
				if fi, serr := t.Stat(prefix); serr == nil && fi.IsDir() {
					continue
				}
				return fmt.Errorf("failed to create directory %s: %w", prefix, err)
			}
			logging.Logger.Debug("Created remote directory", "path", prefix)
		default:
			return fmt.Errorf("Failed to stat path: %s: %w", prefix, err)
		}
	}
	return nil
}

// RemoveRecursive deletes p and everything below it. A missing path is not an
// error. The first failure aborts the walk.
func RemoveRecursive(t ports.Transfer, p string) error {
	return removeRecursive(t, p, 0)
}

func removeRecursive(t ports.Transfer, p string, depth int) error {
	if depth > MaxRemoveDepth {
		return fmt.Errorf("maximum directory depth exceeded: %s", p)
	}

	if _, err := t.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("Failed to stat path: %s: %w", p, err)
	}

	if err := t.Remove(p); err == nil {
		return nil
	}

	entries, err := t.ReadDir(p)
	if err != nil {
		if rerr := t.RemoveDirectory(p); rerr == nil {
			return nil
		}
		return fmt.Errorf("Failed to open or remove path: %s", p)
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		child := path.Join(p, name)
		if entry.IsDir() {
			if err := removeRecursive(t, child, depth+1); err != nil {
				return err
			}
			continue
		}
		if err := t.Remove(child); err != nil {
			return fmt.Errorf("Failed to delete file: %s: %w", child, err)
		}
	}

	if err := t.RemoveDirectory(p); err != nil {
		return fmt.Errorf("Failed to remove directory: %s: %w", p, err)
	}
	logging.Logger.Debug("Removed remote directory", "path", p)
	return nil
}
