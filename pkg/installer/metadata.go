package installer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/glorpus-work/gowheel/pkg/errors"
	"github.com/glorpus-work/gowheel/pkg/wheel"
)

// WheelFileName is the wheel metadata file inside a .dist-info directory.
const WheelFileName = "WHEEL"

const (
	dataDirExt      = ".data"
	purelibDeclared = "root-is-purelib: true"
)

var distInfoRe = regexp.MustCompile(`^(?P<name>.+?)(-(?P<ver>\d.+?))?\.dist-info$`)

// foldName turns a project name into the form used in wheel directory names.
func foldName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// RootIsPurelib reports whether the wheel unpacked at wheelDir declares
// Root-Is-Purelib: true in the WHEEL file of name's .dist-info directory.
func RootIsPurelib(name, wheelDir string) (bool, error) {
	entries, err := os.ReadDir(wheelDir)
	if err != nil {
		return false, err
	}

	folded := foldName(name)
	for _, entry := range entries {
		m := distInfoRe.FindStringSubmatch(entry.Name())
		if m == nil || m[distInfoRe.SubexpIndex("name")] != folded {
			continue
		}
		purelib, err := declaresPurelib(filepath.Join(wheelDir, entry.Name(), WheelFileName))
		if err != nil {
			return false, err
		}
		if purelib {
			return true, nil
		}
	}
	return false, nil
}

func declaresPurelib(path string) (bool, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.ToLower(strings.TrimRightFunc(scanner.Text(), unicode.IsSpace)) == purelibDeclared {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// isDistInfoFor reports whether a top-level directory of the wheel is the
// metadata directory of project name.
func isDistInfoFor(dir, name string) bool {
	return strings.HasSuffix(dir, wheel.DistInfoExt) &&
		strings.HasPrefix(strings.ToLower(dir), strings.ToLower(foldName(name)))
}

// LocateDistInfo finds the metadata directory of name among the top-level
// entries of wheelDir. The directory name must start with the folded project
// name, compared case-insensitively.
func LocateDistInfo(name, wheelDir string) (string, error) {
	entries, err := os.ReadDir(wheelDir)
	if err != nil {
		return "", err
	}

	var found []string
	for _, entry := range entries {
		if entry.IsDir() && isDistInfoFor(entry.Name(), name) {
			found = append(found, entry.Name())
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w for %s in %s", errors.ErrMissingMetadata, name, wheelDir)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w for %s: %s", errors.ErrAmbiguousMetadata, name, strings.Join(found, ", "))
	}
}
