package testutil

import (
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"

	"github.com/jakoblorz/go-leancloud/internal/filesystem"
)

// RootBuilder lays out a CLI root with projects and libraries on a mock
// filesystem.
type RootBuilder struct {
	fs      *filesystem.MockFileSystem
	root    string
	configs map[string]map[string]any
}

// NewRootBuilder creates a CLI root at root and makes it the working directory
func NewRootBuilder(root string) *RootBuilder {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir(root)
	fs.AddFile(filepath.Join(root, "lean.json"), []byte("{\n  \"data-folder\": \"data\"\n}\n"))
	fs.AddDir(filepath.Join(root, "data"))
	fs.SetCurrentDir(root)

	return &RootBuilder{
		fs:      fs,
		root:    root,
		configs: make(map[string]map[string]any),
	}
}

// Root returns the CLI root directory
func (b *RootBuilder) Root() string {
	return b.root
}

// Path returns the absolute path of the project named name
func (b *RootBuilder) Path(name string) string {
	return filepath.Join(b.root, filepath.FromSlash(name))
}

// AddPythonProject adds a Python project with a main.py
func (b *RootBuilder) AddPythonProject(name string) *RootBuilder {
	b.SetConfig(name, "algorithm-language", "Python")
	b.AddFile(name, "main.py", fmt.Sprintf("# region imports\nfrom AlgorithmImports import *\n# endregion\n\nclass %s(QCAlgorithm):\n    pass\n", className(name)))
	return b
}

// AddCSharpProject adds a C# project with a Main.cs
func (b *RootBuilder) AddCSharpProject(name string) *RootBuilder {
	b.SetConfig(name, "algorithm-language", "CSharp")
	b.AddFile(name, "Main.cs", fmt.Sprintf("namespace QuantConnect.Algorithm.CSharp\n{\n    public class %s : QCAlgorithm\n    {\n    }\n}\n", className(name)))
	return b
}

// AddLibraryReference appends library to the libraries of project
func (b *RootBuilder) AddLibraryReference(project, library string) *RootBuilder {
	config := b.config(project)
	refs, _ := config["libraries"].([]map[string]string)
	refs = append(refs, map[string]string{"name": path.Base(library), "path": library})
	return b.SetConfig(project, "libraries", refs)
}

// SetConfig sets a config.json key of project
func (b *RootBuilder) SetConfig(project, key string, value any) *RootBuilder {
	config := b.config(project)
	config[key] = value

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("testutil: encode config of %s: %v", project, err))
	}
	b.fs.AddFile(filepath.Join(b.Path(project), "config.json"), data)
	return b
}

// AddFile adds a file to project; name is relative to the project directory
func (b *RootBuilder) AddFile(project, name, content string) *RootBuilder {
	b.fs.AddFile(filepath.Join(b.Path(project), filepath.FromSlash(name)), []byte(content))
	return b
}

// Build returns the mock filesystem
func (b *RootBuilder) Build() *filesystem.MockFileSystem {
	return b.fs
}

func (b *RootBuilder) config(project string) map[string]any {
	config, ok := b.configs[project]
	if !ok {
		config = make(map[string]any)
		b.configs[project] = config
	}
	return config
}

func className(name string) string {
	base := path.Base(name)
	out := make([]rune, 0, len(base))
	for _, r := range base {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "Algorithm"
	}
	return string(out)
}
