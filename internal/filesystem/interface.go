package filesystem

import (
	"io/fs"
)

// FileSystem abstracts the disk operations the project tree needs so that
// configs, libraries and source files can be exercised in memory.
type FileSystem interface {
	// File operations
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	Remove(path string) error

	// Directory operations
	ReadDir(path string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error
	RemoveAll(path string) error

	// Rename moves a file or a whole directory tree.
	Rename(oldPath, newPath string) error

	// Path operations
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) bool
	Getwd() (string, error)

	WalkDir(root string, fn fs.WalkDirFunc) error
}
