package projectconfig

import (
	"testing"

	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/filesystem"
	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetDelete(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/root/Proj")
	store := NewStore(fs, "/root/Proj")

	require.False(t, store.Exists())

	require.NoError(t, store.Set(KeyCloudID, 1000))
	require.NoError(t, store.Set(KeyDescription, "my algorithm"))
	require.True(t, store.Exists())

	id, ok, err := store.GetInt(KeyCloudID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1000, id)

	desc, err := store.GetString(KeyDescription, "")
	require.NoError(t, err)
	require.Equal(t, "my algorithm", desc)

	require.NoError(t, store.Delete(KeyCloudID))
	_, ok, err = store.GetInt(KeyCloudID)
	require.NoError(t, err)
	require.False(t, ok)

	// deleting twice is a no-op
	require.NoError(t, store.Delete(KeyCloudID))
}

func TestStore_WritesAreVisibleToOtherStores(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/root/Proj")

	NewStore(fs, "/root/Proj").Set(KeyEngine, 456)

	engine, err := NewStore(fs, "/root/Proj/").GetIntPtr(KeyEngine)
	require.NoError(t, err)
	require.NotNil(t, engine)
	require.Equal(t, 456, *engine)
}

func TestStore_GetDefaults(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/root/Proj/config.json", []byte(`{"python-venv": null}`))
	store := NewStore(fs, "/root/Proj")

	desc, err := store.GetString(KeyDescription, "fallback")
	require.NoError(t, err)
	require.Equal(t, "fallback", desc)

	env, err := store.GetIntPtr(KeyEnvironment)
	require.NoError(t, err)
	require.Nil(t, env)

	params, err := store.GetStringMap(KeyParameters)
	require.NoError(t, err)
	require.Empty(t, params)

	refs, err := store.GetLibraries()
	require.NoError(t, err)
	require.Empty(t, refs)
}

func TestStore_GetIntAcceptsNumericStrings(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/root/Proj/config.json", []byte(`{"cloud-id": "1234", "lean-engine": "latest"}`))
	store := NewStore(fs, "/root/Proj")

	id, ok, err := store.GetInt(KeyCloudID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1234, id)

	_, _, err = store.GetInt(KeyEngine)
	require.Error(t, err)
	require.True(t, cerrors.IsConfiguration(err))
}

func TestStore_GetStringMapStringifiesValues(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/root/Proj/config.json", []byte(`{"parameters": {"fast": "10", "slow": 30, "ratio": 0.5}}`))

	params, err := NewStore(fs, "/root/Proj").GetStringMap(KeyParameters)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"fast": "10", "slow": "30", "ratio": "0.5"}, params)
}

func TestStore_Libraries(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/root/Proj")
	store := NewStore(fs, "/root/Proj")

	refs := []models.LibraryReference{
		{Name: "Python Library", Path: "Library/Python Library"},
		{Name: "CSharp Library", Path: "Library/CSharp Library"},
	}
	require.NoError(t, store.SetLibraries(refs))

	got, err := store.GetLibraries()
	require.NoError(t, err)
	require.Equal(t, refs, got)
}

func TestStore_MalformedConfig(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/root/Proj/config.json", []byte(`{"cloud-id": `))

	_, _, err := NewStore(fs, "/root/Proj").GetInt(KeyCloudID)
	require.Error(t, err)
	require.True(t, cerrors.IsConfiguration(err))
}

func TestStore_EmptyFileIsEmptyConfig(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/root/Proj/config.json", []byte("  \n"))

	ok, err := NewStore(fs, "/root/Proj").Has(KeyCloudID)
	require.NoError(t, err)
	require.False(t, ok)
}
