package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/gowheel/internal/logger"
	"github.com/glorpus-work/gowheel/pkg/errors"
)

// SetupPyFile is the build script run in each source tree.
const SetupPyFile = "setup.py"

// setupPyShim runs setup.py through setuptools with CRLF normalised, so
// scripts that never import setuptools still get the bdist_wheel command.
const setupPyShim = "import setuptools;__file__=%s;" +
	"exec(compile(open(__file__).read().replace('\\r\\n', '\\n'), __file__, 'exec'))"

// outputTail bounds how much build output is kept in the error of a failed build.
const outputTail = 4096

// SetupPyRunner builds wheels by running "setup.py bdist_wheel" with a
// Python interpreter.
type SetupPyRunner struct {
	Interpreter string
}

// NewSetupPyRunner creates a SetupPyRunner for the given interpreter.
func NewSetupPyRunner(interpreter string) *SetupPyRunner {
	return &SetupPyRunner{Interpreter: interpreter}
}

// Args returns the interpreter arguments for req.
func (r *SetupPyRunner) Args(req BuildRequest) []string {
	setupPy := filepath.Join(req.SourceDir, SetupPyFile)
	args := []string{"-c", fmt.Sprintf(setupPyShim, pyQuote(setupPy))}
	args = append(args, req.GlobalOptions...)
	args = append(args, "bdist_wheel", "-d", req.WheelDir)
	return append(args, req.BuildOptions...)
}

// RunBuild runs the build with req.SourceDir as working directory. Output is
// captured and logged at debug level; the tail of it is part of the error
// when the build fails.
func (r *SetupPyRunner) RunBuild(ctx context.Context, req BuildRequest) error {
	if r.Interpreter == "" {
		return errors.ErrMissingInterpreter
	}
	if req.SourceDir == "" {
		return errors.ErrMissingSourceDir
	}

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Interpreter, r.Args(req)...)
	cmd.Dir = req.SourceDir
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	logger.Debug("setup.py bdist_wheel finished", logger.Fields{
		"package": req.Name,
		"output":  output.String(),
	})
	if err != nil {
		return fmt.Errorf("%w for %s: %w: %s", errors.ErrBuildFailed, req.Name, err, tail(output.String()))
	}
	return nil
}

// pyQuote renders s as a single-quoted Python string literal.
func pyQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > outputTail {
		s = "..." + s[len(s)-outputTail:]
	}
	return s
}
