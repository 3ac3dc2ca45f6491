package entrypoints

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/gowheel/pkg/platform"
)

func TestMaker_MakePosix(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bin")
	maker := NewMaker(dir, platform.Interpreter{Path: "/opt/python/bin/python3", Version: "3.11"}, platform.Platform{OS: platform.OSLinux})

	paths, err := maker.Make(EntryPoint{Name: "demo", Module: "demo.cli", Callable: "main", Kind: Console})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "demo")}, paths)

	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "#!/opt/python/bin/python3\n")
	assert.Contains(t, string(content), "from demo.cli import main\n")
	assert.Contains(t, string(content), "sys.exit(main())")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(paths[0])
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

func TestMaker_DottedCallable(t *testing.T) {
	dir := t.TempDir()
	maker := NewMaker(dir, platform.Interpreter{Path: "/usr/bin/python3"}, platform.Platform{OS: platform.OSLinux})

	paths, err := maker.Make(EntryPoint{Name: "demo", Module: "demo", Callable: "App.run"})
	require.NoError(t, err)

	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "from demo import App\n")
	assert.Contains(t, string(content), "sys.exit(App.run())")
}

func TestMaker_InterpreterWithSpaces(t *testing.T) {
	dir := t.TempDir()
	maker := NewMaker(dir, platform.Interpreter{Path: "/opt/my python/bin/python3"}, platform.Platform{OS: platform.OSDarwin})

	paths, err := maker.Make(EntryPoint{Name: "demo", Module: "demo", Callable: "main"})
	require.NoError(t, err)

	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "#!/bin/sh\n'''exec' \"/opt/my python/bin/python3\" \"$0\" \"$@\"\n")
}

func TestMaker_MakeWindows(t *testing.T) {
	dir := t.TempDir()
	maker := NewMaker(dir, platform.Interpreter{Path: `C:\Python311\python.exe`}, platform.Platform{OS: platform.OSWindows})

	paths, err := maker.Make(EntryPoint{Name: "demo", Module: "demo", Callable: "main", Kind: Console})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "demo-script.py"),
		filepath.Join(dir, "demo.cmd"),
	}, paths)

	shim, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "@echo off\r\n\"C:\\Python311\\python.exe\" \"%~dp0demo-script.py\" %*\r\n", string(shim))

	guiPaths, err := maker.Make(EntryPoint{Name: "demo-gui", Module: "demo", Callable: "main", Kind: Windowed})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "demo-gui-script.pyw"), guiPaths[0])
}

func TestMaker_MakeAll(t *testing.T) {
	dir := t.TempDir()
	maker := NewMaker(dir, platform.Interpreter{Path: "/usr/bin/python3"}, platform.Platform{OS: platform.OSLinux})

	paths, err := maker.MakeAll([]EntryPoint{
		{Name: "pip", Module: "pip", Callable: "main"},
		{Name: "pip3", Module: "pip", Callable: "main"},
		{Name: "pip3.11", Module: "pip", Callable: "main"},
	})
	require.NoError(t, err)
	assert.Len(t, paths, 3)
	for _, p := range paths {
		assert.FileExists(t, p)
	}
}
