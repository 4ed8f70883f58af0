package project

import (
	"bytes"
	"errors"
	"testing"

	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/filesystem"
	"github.com/jakoblorz/go-leancloud/internal/library"
	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/jakoblorz/go-leancloud/internal/projectconfig"
	"github.com/jakoblorz/go-leancloud/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConfirmer struct {
	answer  bool
	prompts []string
}

func (c *stubConfirmer) Confirm(prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, nil
}

// recordingEditor wraps a ReferenceEditor and records the order of calls.
type recordingEditor struct {
	ReferenceEditor
	calls   []string
	addErrs map[string]error
}

func (r *recordingEditor) AddReference(dependent, library string) error {
	r.calls = append(r.calls, "add "+dependent+" -> "+library)
	if err := r.addErrs[dependent]; err != nil {
		return err
	}
	return r.ReferenceEditor.AddReference(dependent, library)
}

func (r *recordingEditor) RemoveReference(dependent, library string) error {
	r.calls = append(r.calls, "remove "+dependent+" -> "+library)
	return r.ReferenceEditor.RemoveReference(dependent, library)
}

// checkingRenamer fails the test if any config on disk still references a
// library directory that is about to disappear.
type checkingRenamer struct {
	t       *testing.T
	configs *projectconfig.Manager
	next    Renamer
	calls   int
}

func (r *checkingRenamer) Rename(projectPath, newName string) (string, error) {
	r.calls++
	projects, err := r.configs.ListProjects()
	require.NoError(r.t, err)
	for _, p := range projects {
		refs, err := r.configs.Store(p).GetLibraries()
		require.NoError(r.t, err)
		for _, ref := range refs {
			assert.NotEqual(r.t, projectPath, r.configs.Abs(ref.Path), "reference from %s still attached during rename", p)
		}
	}
	return r.next.Rename(projectPath, newName)
}

type updaterFixture struct {
	fs        *filesystem.MockFileSystem
	configs   *projectconfig.Manager
	libraries *library.Manager
	editor    *recordingEditor
	renamer   *checkingRenamer
}

func newUpdaterFixture(t *testing.T, b *testutil.RootBuilder) *updaterFixture {
	fs := b.Build()
	configs := projectconfig.NewManager(fs, b.Root())
	libraries := library.NewManager(configs)
	return &updaterFixture{
		fs:        fs,
		configs:   configs,
		libraries: libraries,
		editor:    &recordingEditor{ReferenceEditor: libraries},
		renamer:   &checkingRenamer{t: t, configs: configs, next: NewManager(fs, configs)},
	}
}

func (f *updaterFixture) updater(opts ...UpdaterOption) *Updater {
	return NewUpdater(f.configs, f.editor, f.renamer, opts...)
}

func sharedLibraryRoot() *testutil.RootBuilder {
	return testutil.NewRootBuilder("/lean").
		AddPythonProject("Python Project").
		AddCSharpProject("CSharp Project").
		AddPythonProject("Library/Python Library").
		AddLibraryReference("Python Project", "Library/Python Library").
		AddLibraryReference("CSharp Project", "Library/Python Library")
}

func TestUpdater_RenameMovesReferences(t *testing.T) {
	f := newUpdaterFixture(t, sharedLibraryRoot())

	newPath, err := f.updater().Rename("/lean/Library/Python Library", "Library/NewPythonLibrary")
	require.NoError(t, err)
	assert.Equal(t, "/lean/Library/NewPythonLibrary", newPath)
	assert.Equal(t, 1, f.renamer.calls)

	assert.Equal(t, []string{
		"remove /lean/CSharp Project -> /lean/Library/Python Library",
		"remove /lean/Python Project -> /lean/Library/Python Library",
		"add /lean/CSharp Project -> /lean/Library/NewPythonLibrary",
		"add /lean/Python Project -> /lean/Library/NewPythonLibrary",
	}, f.editor.calls)

	for _, dependent := range []string{"/lean/Python Project", "/lean/CSharp Project"} {
		refs, err := f.configs.Store(dependent).GetLibraries()
		require.NoError(t, err)
		assert.Equal(t, []models.LibraryReference{
			{Name: "NewPythonLibrary", Path: "Library/NewPythonLibrary"},
		}, refs)
	}

	dependents, err := f.libraries.ProjectsReferencing("/lean/Library/Python Library")
	require.NoError(t, err)
	assert.Empty(t, dependents)
}

func TestUpdater_RenameFailureRestoresReferences(t *testing.T) {
	f := newUpdaterFixture(t, sharedLibraryRoot())
	f.fs.RenameError = errors.New("device busy")

	_, err := f.updater().Rename("/lean/Library/Python Library", "Library/NewPythonLibrary")
	require.Error(t, err)
	assert.ErrorContains(t, err, "device busy")

	dependents, err := f.libraries.ProjectsReferencing("/lean/Library/Python Library")
	require.NoError(t, err)
	assert.Equal(t, []string{"/lean/CSharp Project", "/lean/Python Project"}, dependents)
	assert.True(t, f.fs.Exists("/lean/Library/Python Library/config.json"))
}

func TestUpdater_RenameReportsDependentsLeftDetached(t *testing.T) {
	f := newUpdaterFixture(t, sharedLibraryRoot())
	f.editor.addErrs = map[string]error{"/lean/CSharp Project": errors.New("read only")}

	var logs bytes.Buffer
	newPath, err := f.updater(WithLogger(zerolog.New(&logs))).Rename("/lean/Library/Python Library", "Library/NewPythonLibrary")
	require.Error(t, err)
	assert.Equal(t, "/lean/Library/NewPythonLibrary", newPath)
	assert.ErrorContains(t, err, "/lean/CSharp Project")
	assert.NotContains(t, err.Error(), "/lean/Python Project")

	assert.Contains(t, logs.String(), "library reference left detached")
	assert.Contains(t, logs.String(), `"project":"/lean/CSharp Project"`)

	dependents, err := f.libraries.ProjectsReferencing(newPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"/lean/Python Project"}, dependents)
}

func TestUpdater_RenameDeclined(t *testing.T) {
	f := newUpdaterFixture(t, sharedLibraryRoot())
	confirmer := &stubConfirmer{answer: false}

	_, err := f.updater(WithConfirmer(confirmer)).Rename("/lean/Library/Python Library", "Library/Renamed")
	require.Error(t, err)
	assert.True(t, cerrors.IsUserAbort(err))
	assert.Len(t, confirmer.prompts, 1)
	assert.Empty(t, f.editor.calls)
	assert.Equal(t, 0, f.renamer.calls)
}

func TestUpdater_RenameWithoutDependentsSkipsConfirmation(t *testing.T) {
	f := newUpdaterFixture(t, testutil.NewRootBuilder("/lean").AddPythonProject("Proj"))
	confirmer := &stubConfirmer{answer: false}

	newPath, err := f.updater(WithConfirmer(confirmer)).Rename("/lean/Proj", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "/lean/Renamed", newPath)
	assert.Empty(t, confirmer.prompts)
}

func TestUpdater_ApplySetsSingleStringProperties(t *testing.T) {
	f := newUpdaterFixture(t, testutil.NewRootBuilder("/lean").AddPythonProject("Python Project"))

	description := "Python project new description"
	image := "lean:test-version"
	venv := "3"
	engine := "16000"

	path, err := f.updater().Apply("Python Project", Settings{
		Description: &description,
		Image:       &image,
		Environment: &venv,
		Engine:      &engine,
	})
	require.NoError(t, err)
	assert.Equal(t, "/lean/Python Project", path)

	store := f.configs.Store(path)
	got, _ := store.GetString(projectconfig.KeyDescription, "")
	assert.Equal(t, description, got)
	got, _ = store.GetString(projectconfig.KeyEngineImage, "")
	assert.Equal(t, image, got)
	env, _, _ := store.GetInt(projectconfig.KeyEnvironment)
	assert.Equal(t, 3, env)
	eng, _, _ := store.GetInt(projectconfig.KeyEngine)
	assert.Equal(t, 16000, eng)
}

func TestUpdater_ApplyRemovesEmptyProperties(t *testing.T) {
	b := testutil.NewRootBuilder("/lean").
		AddPythonProject("Python Project").
		SetConfig("Python Project", projectconfig.KeyEngineImage, "lean:test-version").
		SetConfig("Python Project", projectconfig.KeyEnvironment, 3)
	f := newUpdaterFixture(t, b)

	empty := ""
	_, err := f.updater().Apply("Python Project", Settings{Image: &empty, Environment: &empty})
	require.NoError(t, err)

	store := f.configs.Store("Python Project")
	ok, _ := store.Has(projectconfig.KeyEngineImage)
	assert.False(t, ok)
	ok, _ = store.Has(projectconfig.KeyEnvironment)
	assert.False(t, ok)
}

func TestUpdater_ApplyMergesParameters(t *testing.T) {
	f := newUpdaterFixture(t, testutil.NewRootBuilder("/lean").AddPythonProject("Python Project"))
	updater := f.updater()

	_, err := updater.Apply("Python Project", Settings{Parameters: map[string]string{"param0": "0", "param1": "1", "param2": "2"}})
	require.NoError(t, err)
	_, err = updater.Apply("Python Project", Settings{Parameters: map[string]string{"param2": "more-2", "param3": "more-3"}})
	require.NoError(t, err)

	params, err := f.configs.Store("Python Project").GetStringMap(projectconfig.KeyParameters)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"param0": "0", "param1": "1", "param2": "more-2", "param3": "more-3"}, params)
}

func TestUpdater_ApplyRejectsNonIntegerEngine(t *testing.T) {
	f := newUpdaterFixture(t, testutil.NewRootBuilder("/lean").AddPythonProject("Python Project"))

	engine := "latest"
	_, err := f.updater().Apply("Python Project", Settings{Engine: &engine})
	require.Error(t, err)

	ok, _ := f.configs.Store("Python Project").Has(projectconfig.KeyEngine)
	assert.False(t, ok)
}

func TestUpdater_ApplyRenamesLast(t *testing.T) {
	f := newUpdaterFixture(t, sharedLibraryRoot())

	name := "Library/Shared"
	description := "shared helpers"
	path, err := f.updater().Apply("Library/Python Library", Settings{Name: &name, Description: &description})
	require.NoError(t, err)
	assert.Equal(t, "/lean/Library/Shared", path)

	got, err := f.configs.Store(path).GetString(projectconfig.KeyDescription, "")
	require.NoError(t, err)
	assert.Equal(t, description, got)
}
