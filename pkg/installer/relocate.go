package installer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/gowheel/internal/logger"
	"github.com/glorpus-work/gowheel/pkg/entrypoints"
	"github.com/glorpus-work/gowheel/pkg/errors"
	"github.com/glorpus-work/gowheel/pkg/fsutil"
	"github.com/glorpus-work/gowheel/pkg/scheme"
)

type (
	fixFunc    func(path string) (bool, error)
	filterFunc func(name string) bool
)

// relocator moves the content of an unpacked wheel into the scheme
// directories. Every move goes through a journal so a failed install can be
// undone.
type relocator struct {
	ctx      context.Context
	wheelDir string
	root     string
	journal  *fsutil.Journal

	// installed maps wheel-relative paths to paths relative to root, both
	// slash separated. order keeps the keys in the order they were moved.
	installed map[string]string
	order     []string
	// changed holds the root-relative paths whose content was rewritten.
	changed map[string]bool
	// skipped holds the wheel-relative paths of entry point wrappers that
	// were left behind.
	skipped  map[string]bool
	dataDirs []string
}

func newRelocator(ctx context.Context, wheelDir, root string) *relocator {
	return &relocator{
		ctx:       ctx,
		wheelDir:  wheelDir,
		root:      root,
		journal:   fsutil.NewJournal(),
		installed: make(map[string]string),
		changed:   make(map[string]bool),
		skipped:   make(map[string]bool),
	}
}

// run relocates the wheel: the bulk of the tree into root, then each
// {name}.data/<category> directory into its scheme directory.
func (r *relocator) run(s scheme.Scheme, fix fixFunc, eps *entrypoints.EntryPoints) error {
	if err := r.clobber(r.wheelDir, r.root, true, nil, nil); err != nil {
		return err
	}

	skipWrapper := func(name string) bool { return isEntryPointWrapper(name, eps) }
	for _, dataDir := range r.dataDirs {
		source := filepath.Join(r.wheelDir, dataDir)
		entries, err := os.ReadDir(source)
		if err != nil {
			return &RelocationError{Src: source, Dst: r.root, Err: err}
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				logger.Warn("ignoring file outside a scheme category", logger.Fields{
					"path": filepath.Join(dataDir, entry.Name()),
				})
				continue
			}
			category := scheme.Category(entry.Name())
			dest, err := s.Dir(category)
			if err != nil {
				return &RelocationError{Src: filepath.Join(source, entry.Name()), Err: err}
			}

			var (
				categoryFix    fixFunc
				categoryFilter filterFunc
			)
			if category == scheme.Scripts {
				categoryFix = fix
				categoryFilter = skipWrapper
			}
			if err := r.clobber(filepath.Join(source, entry.Name()), dest, false, categoryFix, categoryFilter); err != nil {
				return err
			}
		}
	}
	return nil
}

// clobber moves every file under source to the same relative location under
// dest. At the base level, top-level {name}.data directories are collected
// for run instead of being moved.
func (r *relocator) clobber(source, dest string, isBase bool, fix fixFunc, skip filterFunc) error {
	if err := r.journal.MkdirAll(dest); err != nil {
		return &RelocationError{Src: source, Dst: dest, Err: err}
	}

	return filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &RelocationError{Src: path, Dst: dest, Err: err}
		}
		if err := r.ctx.Err(); err != nil {
			return &RelocationError{Src: path, Dst: dest, Err: err}
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return &RelocationError{Src: path, Dst: dest, Err: err}
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			if isBase && !strings.ContainsRune(rel, filepath.Separator) && strings.HasSuffix(rel, dataDirExt) {
				r.dataDirs = append(r.dataDirs, rel)
				return filepath.SkipDir
			}
			if err := r.journal.MkdirAll(target); err != nil {
				return &RelocationError{Src: path, Dst: target, Err: err}
			}
			return nil
		}

		if skip != nil && skip(d.Name()) {
			logger.Debug("skipping entry point wrapper", logger.Fields{"path": path})
			if wheelRel, err := filepath.Rel(r.wheelDir, path); err == nil {
				r.skipped[filepath.ToSlash(wheelRel)] = true
			}
			return nil
		}
		if err := r.journal.Move(path, target); err != nil {
			return &RelocationError{Src: path, Dst: target, Err: err}
		}

		modified := false
		if fix != nil {
			if modified, err = r.journal.Rewrite(target, fix); err != nil {
				return &RelocationError{Src: path, Dst: target, Err: err}
			}
		}
		return r.record(path, target, modified)
	})
}

// fsPath returns the absolute location of a root-relative RECORD path.
func (r *relocator) fsPath(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

// record notes that src now lives at dst.
func (r *relocator) record(src, dst string, modified bool) error {
	oldPath, err := filepath.Rel(r.wheelDir, src)
	if err != nil {
		return &RelocationError{Src: src, Dst: dst, Err: err}
	}
	newPath, err := filepath.Rel(r.root, dst)
	if err != nil {
		return &RelocationError{Src: src, Dst: dst, Err: err}
	}
	oldPath, newPath = filepath.ToSlash(oldPath), filepath.ToSlash(newPath)

	if _, seen := r.installed[oldPath]; !seen {
		r.order = append(r.order, oldPath)
	}
	r.installed[oldPath] = newPath
	if modified {
		r.changed[newPath] = true
	}
	logger.Debug("installed file", logger.Fields{"from": oldPath, "to": newPath})
	return nil
}

// rollback undoes every move. When cause is a RelocationError the outcome
// is recorded on it, otherwise a rollback failure is joined to cause.
func (r *relocator) rollback(cause error) error {
	rollbackErr := r.journal.Rollback()
	var relErr *RelocationError
	if errors.As(cause, &relErr) {
		relErr.RolledBack = rollbackErr == nil
		relErr.RollbackErr = rollbackErr
		return relErr
	}
	if rollbackErr != nil {
		return errors.Join(cause, rollbackErr)
	}
	return cause
}
