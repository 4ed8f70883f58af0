package cloud

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/containerd/errdefs"
	"github.com/jakoblorz/go-leancloud/internal/models"
)

var _ ProjectDirectory = (*MockDirectory)(nil)

// DefaultMockEngineVersion is the engine version created projects run on
const DefaultMockEngineVersion = 16000

// Call is one recorded operation on the MockDirectory
type Call struct {
	Op        string
	ProjectID int
	LibraryID int
	Name      string
	Update    models.ProjectUpdate
}

func (c Call) String() string {
	switch c.Op {
	case OpCreate:
		return fmt.Sprintf("%s(%s)", c.Op, c.Name)
	case OpAddLibrary, OpDeleteLibrary:
		return fmt.Sprintf("%s(%d, %d)", c.Op, c.ProjectID, c.LibraryID)
	case OpCreateFile, OpUpdateFile:
		return fmt.Sprintf("%s(%d, %s)", c.Op, c.ProjectID, c.Name)
	case OpListEnvironments:
		return c.Op + "()"
	default:
		return fmt.Sprintf("%s(%d)", c.Op, c.ProjectID)
	}
}

// MockDirectory implements ProjectDirectory in memory and records every call
type MockDirectory struct {
	mu           sync.RWMutex
	nextID       int
	projects     map[int]*models.RemoteProject
	files        map[int]map[string]*models.RemoteFile
	environments []*models.Environment
	calls        []Call

	// Hooks for testing error scenarios
	CreateError           error
	GetError              error
	UpdateError           error
	AddLibraryError       error
	DeleteLibraryError    error
	ListFilesError        error
	CreateFileError       error
	UpdateFileError       error
	ListEnvironmentsError error

	// CreateErrors fails Create for specific project names only
	CreateErrors map[string]error
}

// NewMockDirectory creates a new MockDirectory; ids are handed out from 1000
func NewMockDirectory() *MockDirectory {
	return &MockDirectory{
		nextID:       1000,
		projects:     make(map[int]*models.RemoteProject),
		files:        make(map[int]map[string]*models.RemoteFile),
		CreateErrors: make(map[string]error),
	}
}

// AddProject seeds a remote project. A zero ID gets the next free id.
func (m *MockDirectory) AddProject(project *models.RemoteProject) *models.RemoteProject {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := project.Clone()
	if stored.ID == 0 {
		stored.ID = m.allocateIDLocked()
	} else if stored.ID >= m.nextID {
		m.nextID = stored.ID + 1
	}
	if stored.Parameters == nil {
		stored.Parameters = make(map[string]string)
	}
	m.projects[stored.ID] = stored
	return stored.Clone()
}

// AddFile seeds a remote file of a project
func (m *MockDirectory) AddFile(projectID int, name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.putFileLocked(projectID, name, content)
}

// SetEnvironments sets the environments returned by ListEnvironments
func (m *MockDirectory) SetEnvironments(environments ...*models.Environment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.environments = environments
}

// Project returns a copy of the stored project, nil when unknown
func (m *MockDirectory) Project(id int) *models.RemoteProject {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.projects[id].Clone()
}

// ProjectByName returns a copy of the first project with that name
func (m *MockDirectory) ProjectByName(name string) *models.RemoteProject {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.sortedIDsLocked() {
		if m.projects[id].Name == name {
			return m.projects[id].Clone()
		}
	}
	return nil
}

// File returns the content of a remote file and whether it exists
func (m *MockDirectory) File(projectID int, name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, ok := m.files[projectID][name]
	if !ok {
		return "", false
	}
	return file.Content, true
}

// Calls returns the recorded calls in order
func (m *MockDirectory) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.calls)
}

// CallsOf returns the recorded calls of one operation in order
func (m *MockDirectory) CallsOf(op string) []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var calls []Call
	for _, c := range m.calls {
		if c.Op == op {
			calls = append(calls, c)
		}
	}
	return calls
}

// ResetCalls forgets the recorded calls but keeps the stored state
func (m *MockDirectory) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = nil
}

func (m *MockDirectory) Create(ctx context.Context, name string, language models.Language, environment *int) (*models.RemoteProject, error) {
	m.record(Call{Op: OpCreate, Name: name})
	if m.CreateError != nil {
		return nil, m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.CreateErrors[name]; ok {
		return nil, err
	}

	project := &models.RemoteProject{
		ID:              m.allocateIDLocked(),
		Name:            name,
		Language:        language,
		EngineVersion:   DefaultMockEngineVersion,
		PinnedToDefault: true,
		Parameters:      make(map[string]string),
	}
	if environment != nil {
		env := *environment
		project.Environment = &env
	}
	m.projects[project.ID] = project

	return project.Clone(), nil
}

func (m *MockDirectory) Get(ctx context.Context, id int) (*models.RemoteProject, error) {
	m.record(Call{Op: OpGet, ProjectID: id})
	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	project, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d: %w", id, errdefs.ErrNotFound)
	}
	return project.Clone(), nil
}

func (m *MockDirectory) Update(ctx context.Context, id int, update models.ProjectUpdate) error {
	m.record(Call{Op: OpUpdate, ProjectID: id, Update: cloneUpdate(update)})
	if m.UpdateError != nil {
		return m.UpdateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	project, ok := m.projects[id]
	if !ok {
		return fmt.Errorf("project %d: %w", id, errdefs.ErrNotFound)
	}

	if update.Description != nil {
		project.Description = *update.Description
	}
	if update.Parameters != nil {
		project.Parameters = maps.Clone(update.Parameters)
	}
	if update.Engine != nil {
		if *update.Engine == models.DefaultEngine {
			project.EngineVersion = DefaultMockEngineVersion
			project.PinnedToDefault = true
		} else {
			project.EngineVersion = *update.Engine
			project.PinnedToDefault = false
		}
	}
	if update.Environment != nil {
		env := *update.Environment
		project.Environment = &env
	}
	return nil
}

func (m *MockDirectory) AddLibrary(ctx context.Context, projectID, libraryID int) error {
	m.record(Call{Op: OpAddLibrary, ProjectID: projectID, LibraryID: libraryID})
	if m.AddLibraryError != nil {
		return m.AddLibraryError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	project, ok := m.projects[projectID]
	if !ok {
		return fmt.Errorf("project %d: %w", projectID, errdefs.ErrNotFound)
	}
	if _, ok := m.projects[libraryID]; !ok {
		return fmt.Errorf("library %d: %w", libraryID, errdefs.ErrNotFound)
	}
	if !slices.Contains(project.Libraries, libraryID) {
		project.Libraries = append(project.Libraries, libraryID)
	}
	return nil
}

func (m *MockDirectory) DeleteLibrary(ctx context.Context, projectID, libraryID int) error {
	m.record(Call{Op: OpDeleteLibrary, ProjectID: projectID, LibraryID: libraryID})
	if m.DeleteLibraryError != nil {
		return m.DeleteLibraryError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	project, ok := m.projects[projectID]
	if !ok {
		return fmt.Errorf("project %d: %w", projectID, errdefs.ErrNotFound)
	}
	project.Libraries = slices.DeleteFunc(project.Libraries, func(id int) bool { return id == libraryID })
	return nil
}

func (m *MockDirectory) ListFiles(ctx context.Context, projectID int) ([]*models.RemoteFile, error) {
	m.record(Call{Op: OpListFiles, ProjectID: projectID})
	if m.ListFilesError != nil {
		return nil, m.ListFilesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.projects[projectID]; !ok {
		return nil, fmt.Errorf("project %d: %w", projectID, errdefs.ErrNotFound)
	}

	names := make([]string, 0, len(m.files[projectID]))
	for name := range m.files[projectID] {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make([]*models.RemoteFile, 0, len(names))
	for _, name := range names {
		file := *m.files[projectID][name]
		files = append(files, &file)
	}
	return files, nil
}

func (m *MockDirectory) CreateFile(ctx context.Context, projectID int, name, content string) error {
	m.record(Call{Op: OpCreateFile, ProjectID: projectID, Name: name})
	if m.CreateFileError != nil {
		return m.CreateFileError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.files[projectID][name]; exists {
		return fmt.Errorf("file %s already exists in project %d", name, projectID)
	}
	m.putFileLocked(projectID, name, content)
	return nil
}

func (m *MockDirectory) UpdateFile(ctx context.Context, projectID int, name, content string) error {
	m.record(Call{Op: OpUpdateFile, ProjectID: projectID, Name: name})
	if m.UpdateFileError != nil {
		return m.UpdateFileError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.files[projectID][name]; !exists {
		return fmt.Errorf("file %s in project %d: %w", name, projectID, errdefs.ErrNotFound)
	}
	m.putFileLocked(projectID, name, content)
	return nil
}

func (m *MockDirectory) ListEnvironments(ctx context.Context) ([]*models.Environment, error) {
	m.record(Call{Op: OpListEnvironments})
	if m.ListEnvironmentsError != nil {
		return nil, m.ListEnvironmentsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	environments := make([]*models.Environment, 0, len(m.environments))
	for _, e := range m.environments {
		env := *e
		environments = append(environments, &env)
	}
	return environments, nil
}

func (m *MockDirectory) record(call Call) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call)
}

func (m *MockDirectory) allocateIDLocked() int {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MockDirectory) putFileLocked(projectID int, name, content string) {
	if m.files[projectID] == nil {
		m.files[projectID] = make(map[string]*models.RemoteFile)
	}
	m.files[projectID][name] = &models.RemoteFile{Name: name, Content: content, Modified: time.Now()}
}

func (m *MockDirectory) sortedIDsLocked() []int {
	ids := make([]int, 0, len(m.projects))
	for id := range m.projects {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func cloneUpdate(update models.ProjectUpdate) models.ProjectUpdate {
	clone := update
	if update.Parameters != nil {
		clone.Parameters = maps.Clone(update.Parameters)
	}
	return clone
}
