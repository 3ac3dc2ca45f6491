package installer

import (
	"github.com/glorpus-work/gowheel/pkg/errors"
	"github.com/glorpus-work/gowheel/pkg/record"
)

// rewriteRecord rewrites the RECORD at path so it describes the installed
// files: rows are moved to their installed paths, rewritten files are
// rehashed, rows of skipped entry point wrappers are dropped, generated launchers are appended with their absolute paths and
// installed files the wheel did not list get rows without hash or size.
func rewriteRecord(path string, r *relocator, generated []string) (record.Record, error) {
	original, err := record.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	remaining := make(map[string]string, len(r.installed))
	for k, v := range r.installed {
		remaining[k] = v
	}

	rewritten := make(record.Record, 0, len(original)+len(generated)+len(remaining))
	for _, row := range original {
		if r.skipped[row.Path] {
			continue
		}
		if newPath, ok := remaining[row.Path]; ok {
			delete(remaining, row.Path)
			row.Path = newPath
		}
		if r.changed[row.Path] {
			if row, err = record.HashedEntry(row.Path, r.fsPath(row.Path)); err != nil {
				return nil, err
			}
		}
		rewritten = append(rewritten, row)
	}

	for _, launcher := range generated {
		row, err := record.HashedEntry(launcher, launcher)
		if err != nil {
			return nil, err
		}
		rewritten = append(rewritten, row)
	}

	for _, oldPath := range r.order {
		newPath, ok := remaining[oldPath]
		if !ok {
			continue
		}
		row := record.Entry{Path: newPath}
		if r.changed[newPath] {
			if row, err = record.HashedEntry(newPath, r.fsPath(newPath)); err != nil {
				return nil, err
			}
		}
		rewritten = append(rewritten, row)
	}

	if err := rewritten.WriteFileAtomic(path); err != nil {
		return nil, err
	}
	return rewritten, nil
}
