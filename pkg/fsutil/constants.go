// Package fsutil provides the filesystem primitives the installer is built
// on: cross-device safe moves, directory creation, and a journal that can
// undo a partially applied set of moves.
package fsutil

// File and directory permission constants.
const (
	FileModeMask    = 0o777 // Full permission mask for files
	FileModeDefault = 0o644 // -rw-r--r--: Default for regular files
	FileModeExec    = 0o755 // -rwxr-xr-x: For launchers and scripts

	DirModeDefault = 0o755 // drwxr-xr-x: Default for directories
)
