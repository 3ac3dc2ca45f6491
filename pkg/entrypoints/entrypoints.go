// Package entrypoints reads a wheel's entry_points.txt and turns the declared
// console and gui scripts into executable launchers.
package entrypoints

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/glorpus-work/gowheel/internal/logger"
)

// FileName is the entry point declaration file inside a .dist-info directory.
const FileName = "entry_points.txt"

// Section names recognised in entry_points.txt.
const (
	ConsoleSection = "console_scripts"
	GUISection     = "gui_scripts"
)

// Kind selects the launcher flavour.
type Kind string

// Launcher kinds.
const (
	Console  Kind = "console"
	Windowed Kind = "gui"
)

var (
	nameRe   = regexp.MustCompile(`^[\w.+-]+$`)
	targetRe = regexp.MustCompile(`^([\w.]+)\s*:\s*([\w.]+)\s*(?:\[\s*([^\]]*)\s*\])?$`)
)

// EntryPoint is one declared launcher.
type EntryPoint struct {
	Name     string
	Module   string
	Callable string
	Extras   []string
	Kind     Kind
}

// Target returns the "module:callable" form.
func (e EntryPoint) Target() string {
	return e.Module + ":" + e.Callable
}

// WithName returns a copy of e under a different launcher name.
func (e EntryPoint) WithName(name string) EntryPoint {
	e.Name = name
	return e
}

// ParseEntryPoint parses a "module:callable [extras]" target for name.
func ParseEntryPoint(name, target string, kind Kind) (EntryPoint, error) {
	if !nameRe.MatchString(name) {
		return EntryPoint{}, fmt.Errorf("invalid entry point name %q", name)
	}
	m := targetRe.FindStringSubmatch(strings.TrimSpace(target))
	if m == nil {
		return EntryPoint{}, fmt.Errorf("invalid entry point target %q for %s", target, name)
	}

	ep := EntryPoint{Name: name, Module: m[1], Callable: m[2], Kind: kind}
	for _, extra := range strings.Split(m[3], ",") {
		if extra = strings.TrimSpace(extra); extra != "" {
			ep.Extras = append(ep.Extras, extra)
		}
	}
	return ep, nil
}

// EntryPoints holds the console and gui declarations of one distribution in
// file order.
type EntryPoints struct {
	Console []EntryPoint
	GUI     []EntryPoint
}

// Has reports whether name is declared in either section.
func (e *EntryPoints) Has(name string) bool {
	for _, ep := range e.Console {
		if ep.Name == name {
			return true
		}
	}
	for _, ep := range e.GUI {
		if ep.Name == name {
			return true
		}
	}
	return false
}

// PopConsole removes and returns the console entry point called name.
func (e *EntryPoints) PopConsole(name string) (EntryPoint, bool) {
	for i, ep := range e.Console {
		if ep.Name == name {
			e.Console = append(e.Console[:i:i], e.Console[i+1:]...)
			return ep, true
		}
	}
	return EntryPoint{}, false
}

// RemoveConsoleMatching drops every console entry point whose name matches re.
func (e *EntryPoints) RemoveConsoleMatching(re *regexp.Regexp) {
	kept := e.Console[:0:0]
	for _, ep := range e.Console {
		if !re.MatchString(ep.Name) {
			kept = append(kept, ep)
		}
	}
	e.Console = kept
}

// ParseFile reads entry_points.txt at path. A missing file declares nothing.
func ParseFile(path string) (*EntryPoints, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &EntryPoints{}, nil
	}
	return parse(path)
}

// Parse reads entry point declarations from raw file content.
func Parse(content []byte) (*EntryPoints, error) {
	return parse(content)
}

func parse(source interface{}) (*EntryPoints, error) {
	// Names are folded to lower case, sections are not.
	cfg, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:         true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
		KeyValueDelimiters:      "=",
	}, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	eps := &EntryPoints{}
	eps.Console = section(cfg, ConsoleSection, Console)
	eps.GUI = section(cfg, GUISection, Windowed)
	return eps, nil
}

// section collects the valid declarations of one section; malformed ones are
// logged and skipped.
func section(cfg *ini.File, name string, kind Kind) []EntryPoint {
	sec, err := cfg.GetSection(name)
	if err != nil {
		return nil
	}

	var out []EntryPoint
	for _, key := range sec.Keys() {
		ep, err := ParseEntryPoint(key.Name(), key.Value(), kind)
		if err != nil {
			logger.Warn("skipping malformed entry point", logger.Fields{
				"section": name,
				"name":    key.Name(),
				"error":   err.Error(),
			})
			continue
		}
		out = append(out, ep)
	}
	return out
}
