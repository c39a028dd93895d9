package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/ferry/internal/domain"
)

func TestExpandPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "site", "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "site", "index.html"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "site", "css", "a.css"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.txt"), []byte("x"), 0o644))

	t.Run("upload expands directories", func(t *testing.T) {
		targets, err := expandPaths(domain.KindUpload, []string{
			filepath.Join(root, "top.txt"),
			filepath.Join(root, "site"),
		})

		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "top.txt"),
			filepath.Join(root, "site"),
			filepath.Join(root, "site", "css"),
			filepath.Join(root, "site", "css", "a.css"),
			filepath.Join(root, "site", "index.html"),
		}, targets)
	})

	t.Run("remove keeps directories whole", func(t *testing.T) {
		targets, err := expandPaths(domain.KindRemove, []string{filepath.Join(root, "site")})

		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "site")}, targets)
	})

	t.Run("missing upload is passed through", func(t *testing.T) {
		missing := filepath.Join(root, "nope.txt")

		targets, err := expandPaths(domain.KindUpload, []string{missing})

		require.NoError(t, err)
		assert.Equal(t, []string{missing}, targets)
	})
}
