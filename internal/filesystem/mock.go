package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var _ FileSystem = (*MockFileSystem)(nil)

// MockFileSystem provides in-memory filesystem for testing
type MockFileSystem struct {
	mu         sync.RWMutex
	files      map[string]*MockFile
	currentDir string

	// Hooks for testing error scenarios
	RenameError    error
	WriteFileError error
}

// MockFile represents a file in the mock filesystem
type MockFile struct {
	Content []byte
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// mockDirEntry implements fs.DirEntry
type mockDirEntry struct {
	info fs.FileInfo
}

func (m *mockDirEntry) Name() string               { return m.info.Name() }
func (m *mockDirEntry) IsDir() bool                { return m.info.IsDir() }
func (m *mockDirEntry) Type() fs.FileMode          { return m.info.Mode().Type() }
func (m *mockDirEntry) Info() (fs.FileInfo, error) { return m.info, nil }

// NewMockFileSystem creates a new MockFileSystem rooted at /workspace
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:      make(map[string]*MockFile),
		currentDir: "/workspace",
	}
}

// AddFile adds a file to the mock filesystem, creating parent directories
func (mfs *MockFileSystem) AddFile(path string, content []byte) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	cleanPath := filepath.Clean(path)
	mfs.files[cleanPath] = &MockFile{
		Content: content,
		Mode:    0644,
		ModTime: time.Now(),
	}
	mfs.addParentsLocked(cleanPath)
}

// AddDir adds a directory to the mock filesystem, creating parent directories
func (mfs *MockFileSystem) AddDir(path string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.addDirLocked(filepath.Clean(path))
}

func (mfs *MockFileSystem) addDirLocked(cleanPath string) {
	if _, exists := mfs.files[cleanPath]; !exists {
		mfs.files[cleanPath] = &MockFile{
			Mode:    0755 | fs.ModeDir,
			ModTime: time.Now(),
			IsDir:   true,
		}
	}
	mfs.addParentsLocked(cleanPath)
}

func (mfs *MockFileSystem) addParentsLocked(cleanPath string) {
	dir := filepath.Dir(cleanPath)
	for dir != "." && dir != cleanPath {
		if _, exists := mfs.files[dir]; !exists {
			mfs.files[dir] = &MockFile{
				Mode:    0755 | fs.ModeDir,
				ModTime: time.Now(),
				IsDir:   true,
			}
		}
		if dir == "/" {
			break
		}
		cleanPath = dir
		dir = filepath.Dir(dir)
	}
}

func (mfs *MockFileSystem) ReadFile(path string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	file, exists := mfs.files[filepath.Clean(path)]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if file.IsDir {
		return nil, errors.New("is a directory")
	}
	return append([]byte(nil), file.Content...), nil
}

func (mfs *MockFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if mfs.WriteFileError != nil {
		return mfs.WriteFileError
	}

	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	cleanPath := filepath.Clean(path)

	dir := filepath.Dir(cleanPath)
	if parent, exists := mfs.files[dir]; !exists || !parent.IsDir {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}

	mfs.files[cleanPath] = &MockFile{
		Content: append([]byte(nil), data...),
		Mode:    perm,
		ModTime: time.Now(),
	}
	return nil
}

func (mfs *MockFileSystem) Remove(path string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	cleanPath := filepath.Clean(path)
	if _, exists := mfs.files[cleanPath]; !exists {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	for p := range mfs.files {
		if isBelow(p, cleanPath) {
			return fmt.Errorf("remove %s: directory not empty", path)
		}
	}
	delete(mfs.files, cleanPath)
	return nil
}

func (mfs *MockFileSystem) RemoveAll(path string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	cleanPath := filepath.Clean(path)
	for p := range mfs.files {
		if p == cleanPath || isBelow(p, cleanPath) {
			delete(mfs.files, p)
		}
	}
	return nil
}

// Rename moves oldPath and everything below it to newPath.
func (mfs *MockFileSystem) Rename(oldPath, newPath string) error {
	if mfs.RenameError != nil {
		return mfs.RenameError
	}

	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	src := filepath.Clean(oldPath)
	dst := filepath.Clean(newPath)

	if _, exists := mfs.files[src]; !exists {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: fs.ErrNotExist}
	}
	if _, exists := mfs.files[dst]; exists {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: fs.ErrExist}
	}
	if isBelow(dst, src) {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: fs.ErrInvalid}
	}

	moved := make(map[string]*MockFile)
	for p, f := range mfs.files {
		if p == src {
			moved[dst] = f
		} else if isBelow(p, src) {
			moved[dst+strings.TrimPrefix(p, src)] = f
		}
	}
	for p := range mfs.files {
		if p == src || isBelow(p, src) {
			delete(mfs.files, p)
		}
	}
	for p, f := range moved {
		mfs.files[p] = f
	}
	mfs.addParentsLocked(dst)

	return nil
}

func (mfs *MockFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	cleanPath := filepath.Clean(path)

	file, exists := mfs.files[cleanPath]
	if !exists {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}
	if !file.IsDir {
		return nil, errors.New("not a directory")
	}

	var entries []fs.DirEntry
	for p, f := range mfs.files {
		if p != cleanPath && filepath.Dir(p) == cleanPath {
			entries = append(entries, &mockDirEntry{info: newMockFileInfo(p, f)})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries, nil
}

func (mfs *MockFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	cleanPath := filepath.Clean(path)
	if existing, exists := mfs.files[cleanPath]; exists && !existing.IsDir {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
	}
	mfs.addDirLocked(cleanPath)
	return nil
}

func (mfs *MockFileSystem) Stat(path string) (fs.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	cleanPath := filepath.Clean(path)
	file, exists := mfs.files[cleanPath]
	if !exists {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}

	return newMockFileInfo(cleanPath, file), nil
}

func (mfs *MockFileSystem) Exists(path string) bool {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	_, exists := mfs.files[filepath.Clean(path)]
	return exists
}

func (mfs *MockFileSystem) Getwd() (string, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	return mfs.currentDir, nil
}

// WalkDir visits root and everything below it in lexical order. The walk
// function is called without holding the lock so it may read files.
func (mfs *MockFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	cleanRoot := filepath.Clean(root)

	mfs.mu.RLock()
	if _, exists := mfs.files[cleanRoot]; !exists {
		mfs.mu.RUnlock()
		return &fs.PathError{Op: "lstat", Path: root, Err: fs.ErrNotExist}
	}

	var paths []string
	entries := make(map[string]fs.DirEntry)
	for p, f := range mfs.files {
		if p == cleanRoot || isBelow(p, cleanRoot) {
			paths = append(paths, p)
			entries[p] = &mockDirEntry{info: newMockFileInfo(p, f)}
		}
	}
	mfs.mu.RUnlock()

	sort.Strings(paths)

	var skipped []string
	for _, p := range paths {
		if isSkipped(p, skipped) {
			continue
		}

		entry := entries[p]
		if err := fn(p, entry, nil); err != nil {
			if errors.Is(err, fs.SkipDir) {
				if entry.IsDir() {
					skipped = append(skipped, p)
					continue
				}
				skipped = append(skipped, filepath.Dir(p))
				continue
			}
			if errors.Is(err, fs.SkipAll) {
				return nil
			}
			return err
		}
	}

	return nil
}

// SetCurrentDir sets the current working directory for the mock
func (mfs *MockFileSystem) SetCurrentDir(dir string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.currentDir = filepath.Clean(dir)
}

// Paths returns every path in the mock filesystem, sorted (for assertions)
func (mfs *MockFileSystem) Paths() []string {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	paths := make([]string, 0, len(mfs.files))
	for p := range mfs.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func newMockFileInfo(path string, f *MockFile) *mockFileInfo {
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(f.Content)),
		mode:    f.Mode,
		modTime: f.ModTime,
		isDir:   f.IsDir,
	}
}

func isBelow(path, dir string) bool {
	if dir == "/" {
		return path != "/" && strings.HasPrefix(path, "/")
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}

func isSkipped(path string, skipped []string) bool {
	for _, dir := range skipped {
		if isBelow(path, dir) {
			return true
		}
	}
	return false
}
