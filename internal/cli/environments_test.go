package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jakoblorz/go-leancloud/internal/cloud"
	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/stretchr/testify/require"
)

func environmentsDirectory() *cloud.MockDirectory {
	dir := cloud.NewMockDirectory()
	dir.SetEnvironments(
		&models.Environment{ID: 1, Name: "Default", Description: "Standard packages"},
		&models.Environment{ID: 7, Name: "Foundation-Py"},
	)
	return dir
}

func TestEnvironments_Text(t *testing.T) {
	var buf bytes.Buffer
	cmd := &EnvironmentsCommand{dir: environmentsDirectory(), format: "text", stdoutWriter: &buf}

	require.NoError(t, cmd.Run(nil, nil))
	require.Equal(t,
		"     1  Default        Standard packages\n"+
			"     7  Foundation-Py\n",
		buf.String())
}

func TestEnvironments_JSON(t *testing.T) {
	var buf bytes.Buffer
	cmd := &EnvironmentsCommand{dir: environmentsDirectory(), format: "json", stdoutWriter: &buf}

	require.NoError(t, cmd.Run(nil, nil))

	var out []environmentOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, []environmentOutput{
		{ID: 1, Name: "Default", Description: "Standard packages"},
		{ID: 7, Name: "Foundation-Py"},
	}, out)
}

func TestEnvironments_UnknownFormat(t *testing.T) {
	cmd := &EnvironmentsCommand{dir: environmentsDirectory(), format: "yaml", stdoutWriter: &bytes.Buffer{}}
	require.Error(t, cmd.Run(nil, nil))
}

func TestEnvironments_WithoutToken(t *testing.T) {
	cmd := &EnvironmentsCommand{format: "text", stdoutWriter: &bytes.Buffer{}}
	require.ErrorIs(t, cmd.Run(nil, nil), cloud.ErrAPITokenNotFound)
}
