package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const backupSuffix = ".gowheel-backup"

type journalEntry struct {
	src    string
	dst    string
	backup string

	// original holds the content dst had when it arrived, if it was
	// rewritten afterwards.
	original []byte
	mode     os.FileMode
}

// Journal performs file moves and remembers enough about each one to put the
// filesystem back the way it was. Files replaced by a move are parked beside
// their destination until Commit.
type Journal struct {
	moves   []journalEntry
	created []string
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// MkdirAll creates dir and records every directory it had to create.
func (j *Journal) MkdirAll(dir string) error {
	missing := missingDirs(dir)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	j.created = append(j.created, missing...)
	return nil
}

// Move moves src to dst, parking any existing file at dst.
func (j *Journal) Move(src, dst string) error {
	if err := j.MkdirAll(filepath.Dir(dst)); err != nil {
		return err
	}

	entry := journalEntry{src: src, dst: dst}
	if info, err := os.Lstat(dst); err == nil && !info.IsDir() {
		entry.backup = dst + backupSuffix
		if err := os.Rename(dst, entry.backup); err != nil {
			return fmt.Errorf("failed to park existing file %s: %w", dst, err)
		}
	}

	if err := Move(src, dst); err != nil {
		if entry.backup != "" {
			_ = os.Rename(entry.backup, dst)
		}
		return err
	}
	j.moves = append(j.moves, entry)
	return nil
}

// Rewrite runs fn on a file previously moved to path. The content the file
// arrived with is kept so Rollback returns the original bytes to the source.
func (j *Journal) Rewrite(path string, fn func(path string) (bool, error)) (bool, error) {
	entry := j.lookup(path)
	if entry == nil {
		return false, fmt.Errorf("%s was not moved by this journal", path)
	}
	if entry.original == nil {
		info, err := os.Stat(path)
		if err != nil {
			return false, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return false, err
		}
		entry.original = content
		entry.mode = info.Mode().Perm()
	}
	return fn(path)
}

func (j *Journal) lookup(dst string) *journalEntry {
	for i := len(j.moves) - 1; i >= 0; i-- {
		if j.moves[i].dst == dst {
			return &j.moves[i]
		}
	}
	return nil
}

// Rollback undoes every recorded move in reverse order, restores parked files
// and removes the directories the journal created. It keeps going after a
// failure and returns all errors joined.
func (j *Journal) Rollback() error {
	var errs []error
	for i := len(j.moves) - 1; i >= 0; i-- {
		m := j.moves[i]
		if err := Move(m.dst, m.src); err != nil {
			errs = append(errs, err)
			continue
		}
		if m.original != nil {
			if err := os.WriteFile(m.src, m.original, m.mode); err != nil {
				errs = append(errs, fmt.Errorf("failed to restore content of %s: %w", m.src, err))
			}
		}
		if m.backup != "" {
			if err := os.Rename(m.backup, m.dst); err != nil {
				errs = append(errs, fmt.Errorf("failed to restore %s: %w", m.dst, err))
			}
		}
	}
	for i := len(j.created) - 1; i >= 0; i-- {
		// Directories that still hold files are left alone.
		_ = os.Remove(j.created[i])
	}
	j.moves = nil
	j.created = nil
	return errors.Join(errs...)
}

// Commit discards parked files and forgets the recorded moves.
func (j *Journal) Commit() error {
	var errs []error
	for _, m := range j.moves {
		if m.backup == "" {
			continue
		}
		if err := os.Remove(m.backup); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	j.moves = nil
	j.created = nil
	return errors.Join(errs...)
}
