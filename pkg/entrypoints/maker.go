package entrypoints

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/glorpus-work/gowheel/pkg/fsutil"
	"github.com/glorpus-work/gowheel/pkg/platform"
)

var scriptTemplate = template.Must(template.New("script").Parse(`# -*- coding: utf-8 -*-
import re
import sys

from {{.Module}} import {{.ImportName}}

if __name__ == '__main__':
    sys.argv[0] = re.sub(r'(-script\.pyw|\.exe)?$', '', sys.argv[0])
    sys.exit({{.Callable}}())
`))

var cmdTemplate = template.Must(template.New("cmd").Parse(
	"@echo off\r\n\"{{.Interpreter}}\" \"%~dp0{{.Script}}\" %*\r\n"))

// Maker writes launcher scripts into a scripts directory.
type Maker struct {
	TargetDir   string
	Interpreter platform.Interpreter
	Platform    platform.Platform
}

// NewMaker returns a Maker writing into targetDir.
func NewMaker(targetDir string, interp platform.Interpreter, p platform.Platform) *Maker {
	return &Maker{TargetDir: targetDir, Interpreter: interp, Platform: p}
}

// Make writes the launcher for ep and returns the paths of the files created.
// Existing launchers of the same name are overwritten.
func (m *Maker) Make(ep EntryPoint) ([]string, error) {
	if err := fsutil.EnsureDir(m.TargetDir); err != nil {
		return nil, err
	}

	body, err := m.scriptBody(ep)
	if err != nil {
		return nil, err
	}

	if !m.Platform.IsWindows() {
		path := filepath.Join(m.TargetDir, ep.Name)
		if err := writeExecutable(path, body); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	ext := "-script.py"
	if ep.Kind == Windowed {
		ext = "-script.pyw"
	}
	scriptName := ep.Name + ext
	scriptPath := filepath.Join(m.TargetDir, scriptName)
	if err := writeExecutable(scriptPath, body); err != nil {
		return nil, err
	}

	var shim bytes.Buffer
	if err := cmdTemplate.Execute(&shim, map[string]string{
		"Interpreter": m.Interpreter.Path,
		"Script":      scriptName,
	}); err != nil {
		return nil, err
	}
	cmdPath := filepath.Join(m.TargetDir, ep.Name+".cmd")
	if err := writeExecutable(cmdPath, shim.Bytes()); err != nil {
		return nil, err
	}
	return []string{scriptPath, cmdPath}, nil
}

// MakeAll writes launchers for every entry point, stopping at the first error.
func (m *Maker) MakeAll(eps []EntryPoint) ([]string, error) {
	var generated []string
	for _, ep := range eps {
		paths, err := m.Make(ep)
		if err != nil {
			return generated, fmt.Errorf("generating launcher %s: %w", ep.Name, err)
		}
		generated = append(generated, paths...)
	}
	return generated, nil
}

func (m *Maker) scriptBody(ep EntryPoint) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(m.shebang())
	err := scriptTemplate.Execute(&buf, map[string]string{
		"Module":     ep.Module,
		"ImportName": strings.SplitN(ep.Callable, ".", 2)[0],
		"Callable":   ep.Callable,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// shebang returns the interpreter line. Paths with spaces cannot appear in a
// POSIX shebang, so those re-exec through /bin/sh.
func (m *Maker) shebang() string {
	path := m.Interpreter.Path
	if m.Platform.IsWindows() || !strings.Contains(path, " ") {
		return "#!" + path + "\n"
	}
	return "#!/bin/sh\n'''exec' \"" + path + "\" \"$0\" \"$@\"\n' '''\n"
}

func writeExecutable(path string, content []byte) error {
	if err := os.WriteFile(path, content, fsutil.FileModeExec); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	// WriteFile does not change the mode of an existing file and is subject to umask.
	if err := os.Chmod(path, fsutil.FileModeExec); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return nil
}
