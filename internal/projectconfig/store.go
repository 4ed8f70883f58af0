package projectconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/filesystem"
	"github.com/jakoblorz/go-leancloud/internal/models"
)

// ProjectConfigFileName marks a directory as a project.
const ProjectConfigFileName = "config.json"

// Keys understood in a project's config.json.
const (
	KeyCloudID     = "cloud-id"
	KeyDescription = "description"
	KeyLanguage    = "algorithm-language"
	KeyEngine      = "lean-engine"
	KeyEnvironment = "python-venv"
	KeyEngineImage = "engine-image"
	KeyParameters  = "parameters"
	KeyLibraries   = "libraries"
)

// Store is the key/value config of a single project. Every call reads or
// writes config.json directly, so writes are visible to any other Store for
// the same project right away.
type Store struct {
	fs         filesystem.FileSystem
	projectDir string
}

// NewStore creates a Store for the project in projectDir
func NewStore(fs filesystem.FileSystem, projectDir string) *Store {
	return &Store{fs: fs, projectDir: filepath.Clean(projectDir)}
}

// Path returns the path of the backing config.json
func (s *Store) Path() string {
	return filepath.Join(s.projectDir, ProjectConfigFileName)
}

// Exists reports whether the backing config.json exists
func (s *Store) Exists() bool {
	return s.fs.Exists(s.Path())
}

// Has reports whether key is set
func (s *Store) Has(key string) (bool, error) {
	data, err := s.read()
	if err != nil {
		return false, err
	}
	_, ok := data[key]
	return ok, nil
}

// Get decodes the value of key into dest. It returns false when the key is
// not set, leaving dest untouched.
func (s *Store) Get(key string, dest any) (bool, error) {
	data, err := s.read()
	if err != nil {
		return false, err
	}

	raw, ok := data[key]
	if !ok || string(raw) == "null" {
		return false, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, &cerrors.ConfigurationError{
			Path:    s.Path(),
			Message: fmt.Sprintf("invalid value for %q", key),
			Err:     err,
		}
	}
	return true, nil
}

// GetString returns the string value of key, or def when it is not set
func (s *Store) GetString(key, def string) (string, error) {
	var value string
	ok, err := s.Get(key, &value)
	if err != nil || !ok {
		return def, err
	}
	return value, nil
}

// GetInt returns the integer value of key and whether it is set. Numeric
// strings are accepted as well since older configs stored ids as strings.
func (s *Store) GetInt(key string) (int, bool, error) {
	var raw json.RawMessage
	ok, err := s.Get(key, &raw)
	if err != nil || !ok {
		return 0, false, err
	}

	var value int
	if err := json.Unmarshal(raw, &value); err == nil {
		return value, true, nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if value, err := strconv.Atoi(str); err == nil {
			return value, true, nil
		}
	}

	return 0, false, cerrors.NewConfigurationError(s.Path(), fmt.Sprintf("value for %q is not an integer", key))
}

// GetIntPtr is GetInt returning nil for an unset key
func (s *Store) GetIntPtr(key string) (*int, error) {
	value, ok, err := s.GetInt(key)
	if err != nil || !ok {
		return nil, err
	}
	return &value, nil
}

// GetStringMap returns the object value of key with every value rendered as
// a string. Unset keys yield an empty map.
func (s *Store) GetStringMap(key string) (map[string]string, error) {
	var raw map[string]any
	result := make(map[string]string)

	ok, err := s.Get(key, &raw)
	if err != nil || !ok {
		return result, err
	}

	for k, v := range raw {
		switch typed := v.(type) {
		case string:
			result[k] = typed
		case nil:
			result[k] = ""
		default:
			encoded, _ := json.Marshal(typed)
			result[k] = string(encoded)
		}
	}
	return result, nil
}

// GetLibraries returns the library references in config order
func (s *Store) GetLibraries() ([]models.LibraryReference, error) {
	var refs []models.LibraryReference
	if _, err := s.Get(KeyLibraries, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// SetLibraries replaces the library references
func (s *Store) SetLibraries(refs []models.LibraryReference) error {
	if refs == nil {
		refs = []models.LibraryReference{}
	}
	return s.Set(KeyLibraries, refs)
}

// Set stores value under key and writes config.json immediately
func (s *Store) Set(key string, value any) error {
	data, err := s.read()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	data[key] = encoded

	return s.write(data)
}

// Delete removes key; deleting an unset key is a no-op
func (s *Store) Delete(key string) error {
	data, err := s.read()
	if err != nil {
		return err
	}

	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)

	return s.write(data)
}

func (s *Store) read() (map[string]json.RawMessage, error) {
	data := make(map[string]json.RawMessage)

	if !s.fs.Exists(s.Path()) {
		return data, nil
	}

	content, err := s.fs.ReadFile(s.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path(), err)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(content, &data); err != nil {
		return nil, &cerrors.ConfigurationError{Path: s.Path(), Message: "malformed config", Err: err}
	}

	return data, nil
}

func (s *Store) write(data map[string]json.RawMessage) error {
	if !s.fs.Exists(s.projectDir) {
		if err := s.fs.MkdirAll(s.projectDir, 0755); err != nil {
			return fmt.Errorf("failed to create project directory: %w", err)
		}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := s.fs.WriteFile(s.Path(), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path(), err)
	}

	return nil
}
