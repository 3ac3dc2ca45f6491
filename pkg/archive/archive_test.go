package archive

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
}

func TestManager_CreateAndExtractAll(t *testing.T) {
	tempDir := t.TempDir()
	testFiles := map[string]string{
		"demo/__init__.py":                 "x = 1\n",
		"demo-1.0.dist-info/WHEEL":         "Wheel-Version: 1.0\nRoot-Is-Purelib: true\n",
		"demo-1.0.dist-info/RECORD":        "demo/__init__.py,,\n",
		"demo-1.0.data/scripts/demo-admin": "#!python\n",
	}

	sourceDir := filepath.Join(tempDir, "source")
	writeTree(t, sourceDir, testFiles)
	if runtime.GOOS != "windows" {
		require.NoError(t, os.Chmod(filepath.Join(sourceDir, "demo-1.0.data", "scripts", "demo-admin"), 0o755))
	}

	am := NewManager()
	ctx := context.Background()
	wheelPath := filepath.Join(tempDir, "demo-1.0-py3-none-any.whl")
	require.NoError(t, am.Create(ctx, sourceDir, wheelPath))
	require.FileExists(t, wheelPath)

	extractDir := filepath.Join(tempDir, "extracted")
	require.NoError(t, am.ExtractAll(ctx, wheelPath, extractDir))

	for path, expected := range testFiles {
		content, err := os.ReadFile(filepath.Join(extractDir, filepath.FromSlash(path)))
		require.NoError(t, err, path)
		assert.Equal(t, expected, string(content), path)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(extractDir, "demo-1.0.data", "scripts", "demo-admin"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

func TestManager_ReadFile(t *testing.T) {
	tempDir := t.TempDir()
	sourceDir := filepath.Join(tempDir, "source")
	writeTree(t, sourceDir, map[string]string{
		"demo-1.0.dist-info/WHEEL": "Root-Is-Purelib: true\n",
	})

	am := NewManager()
	ctx := context.Background()
	wheelPath := filepath.Join(tempDir, "demo-1.0-py3-none-any.whl")
	require.NoError(t, am.Create(ctx, sourceDir, wheelPath))

	content, err := am.ReadFile(ctx, wheelPath, "demo-1.0.dist-info/WHEEL")
	require.NoError(t, err)
	assert.Equal(t, "Root-Is-Purelib: true\n", string(content))

	_, err = am.ReadFile(ctx, wheelPath, "demo-1.0.dist-info/METADATA")
	assert.Error(t, err)
}

func TestManager_ExtractAllMissingArchive(t *testing.T) {
	am := NewManager()
	err := am.ExtractAll(context.Background(), filepath.Join(t.TempDir(), "missing.whl"), t.TempDir())
	assert.Error(t, err)
}
