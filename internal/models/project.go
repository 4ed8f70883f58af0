package models

import (
	"fmt"
	"strings"
)

// Language is the algorithm language of a project.
type Language string

const (
	LanguagePython Language = "Py"
	LanguageCSharp Language = "C#"
)

// IsValid checks if the language is one the cloud accepts
func (l Language) IsValid() bool {
	switch l {
	case LanguagePython, LanguageCSharp:
		return true
	default:
		return false
	}
}

// String returns the string representation of Language
func (l Language) String() string {
	return string(l)
}

// ParseLanguage accepts both the config spelling ("Python", "CSharp") and
// the wire spelling ("Py", "C#").
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "python", "py":
		return LanguagePython, nil
	case "csharp", "c#":
		return LanguageCSharp, nil
	default:
		return "", fmt.Errorf("invalid language: %s (must be Python or CSharp)", s)
	}
}

// LibraryDirName is the directory under the CLI root that holds libraries.
const LibraryDirName = "Library"

// LocalProject is a project directory under the CLI root with a config.json.
type LocalProject struct {
	// Path is the absolute project directory and the local identity key
	Path string

	// Name is Path relative to the CLI root with forward slashes
	Name string

	Description string

	// CloudID is the persisted remote identifier, nil before the first push
	CloudID *int

	// Engine pins an engine version; nil means "use the default"
	Engine *int

	// Environment selects a runtime environment; nil means "do not push"
	Environment *int

	// Libraries holds the absolute paths of referenced libraries in config order
	Libraries []string

	Parameters map[string]string

	Language Language
}

// IsLibrary reports whether the project lives under the Library directory.
func (p *LocalProject) IsLibrary() bool {
	return IsLibraryName(p.Name)
}

// IsLibraryName reports whether a root-relative project name is a library.
func IsLibraryName(name string) bool {
	return strings.HasPrefix(name, LibraryDirName+"/")
}

// LibraryReference is the persisted form of a dependent → library edge.
type LibraryReference struct {
	// Name is the display name of the library (its directory base name)
	Name string `json:"name"`

	// Path is the library directory relative to the CLI root
	Path string `json:"path"`
}

// SourceFile is a local project file that is eligible for upload.
type SourceFile struct {
	// Name is the path relative to the project directory with forward slashes
	Name string

	// Path is the absolute path on disk
	Path string

	Content string
}
