package installer

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/glorpus-work/gowheel/pkg/entrypoints"
	"github.com/glorpus-work/gowheel/pkg/platform"
)

// shebangPlaceholder marks scripts whose interpreter is filled in at install time.
var shebangPlaceholder = []byte("#!python")

// FixShebang replaces a "#!python" first line of the file at path with a
// directive naming interp, using the platform line separator. The rest of
// the file is left byte-identical. It reports whether the file changed.
func FixShebang(path string, interp platform.Interpreter, p platform.Platform) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if !bytes.HasPrefix(content, shebangPlaceholder) {
		return false, nil
	}

	rest := []byte(nil)
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		rest = content[i+1:]
	}

	var buf bytes.Buffer
	buf.Grow(len(interp.Path) + len(rest) + 4)
	buf.WriteString("#!" + interp.Path + p.LineSeparator())
	buf.Write(rest)

	if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to rewrite %s: %w", path, err)
	}
	return true, nil
}

// wrapperSuffixes are the file name endings setuptools gives the launchers it
// generates for an entry point EP (EP.exe, EP-script.py, EP.pya).
var wrapperSuffixes = []string{".exe", "-script.py", ".pya"}

// isEntryPointWrapper reports whether a file in a wheel's scripts directory is
// a setuptools launcher for one of the declared entry points. Those are
// skipped since the installer generates its own. Entry point names are
// lower case, so the file name is compared case-insensitively.
func isEntryPointWrapper(name string, eps *entrypoints.EntryPoints) bool {
	matchName := name
	lower := strings.ToLower(name)
	for _, suffix := range wrapperSuffixes {
		if strings.HasSuffix(lower, suffix) {
			matchName = name[:len(name)-len(suffix)]
			break
		}
	}
	return eps.Has(strings.ToLower(matchName))
}
