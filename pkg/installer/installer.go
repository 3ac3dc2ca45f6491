// Package installer installs an unpacked wheel into an install scheme.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glorpus-work/gowheel/internal/logger"
	"github.com/glorpus-work/gowheel/pkg/entrypoints"
	"github.com/glorpus-work/gowheel/pkg/errors"
	"github.com/glorpus-work/gowheel/pkg/fsutil"
	"github.com/glorpus-work/gowheel/pkg/hooks"
	"github.com/glorpus-work/gowheel/pkg/platform"
	"github.com/glorpus-work/gowheel/pkg/record"
	"github.com/glorpus-work/gowheel/pkg/scheme"
)

// Installer moves unpacked wheels into the directories of a scheme.
type Installer struct {
	Scheme      scheme.Scheme
	Interpreter platform.Interpreter
	Platform    platform.Platform
	// Hooks is optional.
	Hooks hooks.HookManager
}

// New creates an Installer for the current platform.
func New(s scheme.Scheme, interp platform.Interpreter, hookManager hooks.HookManager) *Installer {
	return &Installer{
		Scheme:      s,
		Interpreter: interp,
		Platform:    platform.CurrentPlatform(),
		Hooks:       hookManager,
	}
}

// Request describes one wheel to install.
type Request struct {
	// Name is the project name as requested; it selects the .dist-info directory.
	Name string
	// Version is informational and passed to hooks.
	Version string
	// WheelDir is the directory the wheel was unpacked into. Its content is
	// moved, not copied.
	WheelDir string
}

// Report describes a completed install.
type Report struct {
	Name    string
	Root    string
	Purelib bool
	// DistInfoDir is the installed metadata directory.
	DistInfoDir string
	// Installed maps wheel-relative paths to paths relative to Root.
	Installed map[string]string
	// Changed lists the Root-relative paths rewritten during install.
	Changed []string
	// Generated lists the absolute paths of generated launchers.
	Generated []string
	Record    record.Record
}

// Install relocates the wheel unpacked at req.WheelDir, generates its
// launchers and rewrites its RECORD. On failure every file moved so far is
// moved back with the content it arrived with, and generated launchers are
// removed.
func (i *Installer) Install(ctx context.Context, req Request) (*Report, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if err := i.Scheme.Validate(); err != nil {
		return nil, err
	}
	if i.Interpreter.Path == "" {
		return nil, errors.ErrMissingInterpreter
	}

	distInfo, err := LocateDistInfo(req.Name, req.WheelDir)
	if err != nil {
		return nil, err
	}
	if !fsutil.Exists(filepath.Join(req.WheelDir, distInfo, record.FileName)) {
		return nil, fmt.Errorf("%w in %s", errors.ErrRecordMissing, distInfo)
	}

	purelib, err := RootIsPurelib(req.Name, req.WheelDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read WHEEL metadata")
	}
	root := i.Scheme.Root(purelib)

	eps, err := entrypoints.ParseFile(filepath.Join(req.WheelDir, distInfo, entrypoints.FileName))
	if err != nil {
		return nil, err
	}

	hookCtx := hooks.HookContext{
		ProjectName:    req.Name,
		ProjectVersion: req.Version,
		SourceDir:      req.WheelDir,
		TargetDir:      root,
		Vars: map[string]interface{}{
			"scripts": i.Scheme.Scripts,
			"purelib": purelib,
		},
	}
	if err := i.runHooks("pre-install", hookCtx); err != nil {
		return nil, errors.Wrap(err, "pre-install hook failed")
	}

	logger.Info("Installing wheel", logger.Fields{"package": req.Name, "root": root, "purelib": purelib})

	r := newRelocator(ctx, req.WheelDir, root)
	fix := func(path string) (bool, error) {
		return FixShebang(path, i.Interpreter, i.Platform)
	}
	if err := r.run(i.Scheme, fix, eps); err != nil {
		return nil, r.rollback(err)
	}

	generated, err := i.makeLaunchers(eps)
	if err != nil {
		return nil, r.rollback(errors.Join(err, removeAll(generated)))
	}

	distInfoDir := filepath.Join(root, distInfo)
	rec, err := rewriteRecord(filepath.Join(distInfoDir, record.FileName), r, generated)
	if err != nil {
		return nil, r.rollback(errors.Join(err, removeAll(generated)))
	}
	if err := r.journal.Commit(); err != nil {
		logger.Warn("failed to remove replaced files", logger.Fields{"error": err.Error()})
	}

	report := &Report{
		Name:        req.Name,
		Root:        root,
		Purelib:     purelib,
		DistInfoDir: distInfoDir,
		Installed:   r.installed,
		Generated:   generated,
		Record:      rec,
	}
	for _, oldPath := range r.order {
		if newPath := r.installed[oldPath]; r.changed[newPath] {
			report.Changed = append(report.Changed, newPath)
		}
	}

	if err := i.runHooks("post-install", hookCtx); err != nil {
		logger.Error("Post-install hook failed", logger.Fields{"package": req.Name, "error": err.Error()})
	}

	logger.Success("Installed wheel", logger.Fields{
		"package":   req.Name,
		"files":     len(r.installed),
		"launchers": len(generated),
	})
	return report, nil
}

// makeLaunchers writes launchers for the declared entry points. Reserved
// names are expanded into their version aliases first.
func (i *Installer) makeLaunchers(eps *entrypoints.EntryPoints) ([]string, error) {
	specs, err := entrypoints.ApplyAliases(eps, i.Interpreter)
	if err != nil {
		return nil, err
	}
	specs = append(specs, eps.Console...)
	specs = append(specs, eps.GUI...)
	if len(specs) == 0 {
		return nil, nil
	}

	maker := entrypoints.NewMaker(i.Scheme.Scripts, i.Interpreter, i.Platform)
	return maker.MakeAll(specs)
}

// runHooks executes hooks for a specific event.
func (i *Installer) runHooks(event string, ctx hooks.HookContext) error {
	if i.Hooks == nil {
		return nil
	}

	var hookType hooks.HookType
	switch event {
	case "pre-install":
		hookType = hooks.PreInstall
	case "post-install":
		hookType = hooks.PostInstall
	default:
		return hooks.ErrUnsupportedHookEvent(event)
	}

	if err := i.Hooks.Execute(hookType, ctx); err != nil {
		return errors.Wrapf(err, "failed to execute %s hook", event)
	}
	return nil
}

func removeAll(paths []string) error {
	var errs []error
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
