package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_IntoNewDirectory(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "unpacked", "demo", "__init__.py")
	dst := filepath.Join(tempDir, "site-packages", "demo", "__init__.py")

	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("x = 1\n"), 0o644))

	require.NoError(t, Move(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(content))
	assert.NoFileExists(t, src)
}

func TestMove_ReplacesExisting(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "new.py")
	dst := filepath.Join(tempDir, "old.py")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	require.NoError(t, Move(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestMove_PreservesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "tool")
	dst := filepath.Join(tempDir, "bin", "tool")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0o755))

	require.NoError(t, Move(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestMove_Errors(t *testing.T) {
	tempDir := t.TempDir()

	err := Move("", filepath.Join(tempDir, "x"))
	assert.ErrorContains(t, err, "cannot be empty")

	err = Move(filepath.Join(tempDir, "missing"), filepath.Join(tempDir, "x"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = Move(tempDir, filepath.Join(t.TempDir(), "dir"))
	assert.ErrorContains(t, err, "only files are supported")
}

func TestIsCrossFilesystemError(t *testing.T) {
	assert.False(t, isCrossFilesystemError(errors.New("regular error")))
	assert.False(t, isCrossFilesystemError(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.ENOENT}))
	assert.True(t, isCrossFilesystemError(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.EXDEV}))
}

func TestMoveFile_CopyFallback(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "data.bin")
	dst := filepath.Join(tempDir, "copy.bin")
	require.NoError(t, os.WriteFile(src, []byte{0, 1, 2, 3}, 0o644))

	info, err := os.Stat(src)
	require.NoError(t, err)
	require.NoError(t, moveFile(src, dst, info))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 3}, content)
	assert.NoFileExists(t, src)

	dstInfo, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(dstInfo.ModTime()))
}

func TestCopy(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "source.txt")
	dst := filepath.Join(tempDir, "destination.txt")
	require.NoError(t, os.WriteFile(src, []byte("copy me"), 0o644))

	require.NoError(t, Copy(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "copy me", string(content))
	assert.FileExists(t, src)
	assert.True(t, Exists(dst))
	assert.False(t, Exists(filepath.Join(tempDir, "nope")))
}
