package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// FileName is the manifest file inside a .dist-info directory.
	FileName = "RECORD"

	// tempSuffix names the sibling file the rewritten manifest is staged in.
	tempSuffix = ".pip"
)

// Entry is one RECORD row. Hash and Size are empty for directories and for
// files whose content is not tracked.
type Entry struct {
	Path string
	Hash string
	Size string
}

// NewEntry builds a row for a hashed file.
func NewEntry(path, hash string, size int64) Entry {
	return Entry{Path: path, Hash: hash, Size: strconv.FormatInt(size, 10)}
}

// HashedEntry hashes the file at fsPath and returns a row recorded under path.
func HashedEntry(path, fsPath string) (Entry, error) {
	hash, size, err := HashFile(fsPath)
	if err != nil {
		return Entry{}, err
	}
	return NewEntry(path, hash, size), nil
}

// Record is an ordered RECORD manifest.
type Record []Entry

// Read parses RECORD rows from r. Short rows are padded with empty columns;
// blank lines are ignored.
func Read(r io.Reader) (Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rec Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing RECORD: %w", err)
		}
		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			continue
		}
		entry := Entry{Path: row[0]}
		if len(row) > 1 {
			entry.Hash = row[1]
		}
		if len(row) > 2 {
			entry.Size = row[2]
		}
		rec = append(rec, entry)
	}
	return rec, nil
}

// ReadFile reads the RECORD at path.
func ReadFile(path string) (Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Write encodes the manifest as CSV rows.
func (r Record) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	for _, e := range r {
		if err := writer.Write([]string{e.Path, e.Hash, e.Size}); err != nil {
			return fmt.Errorf("writing RECORD row %s: %w", e.Path, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFileAtomic stages the manifest in a sibling file and renames it over
// path. A failure at any point leaves the existing file at path untouched and
// removes the staged file.
func (r Record) WriteFileAtomic(path string) (err error) {
	tmpPath := path + tempSuffix
	tmpFile, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temporary RECORD in %s: %w", filepath.Dir(path), err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := r.Write(tmpFile); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to sync temporary RECORD: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary RECORD: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Paths returns the path column in order.
func (r Record) Paths() []string {
	paths := make([]string, 0, len(r))
	for _, e := range r {
		paths = append(paths, e.Path)
	}
	return paths
}
