package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/stretchr/testify/require"
)

func TestTerminalConfirmer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y", want: true},
		{name: "no", input: "n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			confirmer := NewTerminalConfirmer(strings.NewReader(tt.input), &out)

			ok, err := confirmer.Confirm("Remove 1 library association(s)?")
			require.NoError(t, err)
			require.Equal(t, tt.want, ok)
		})
	}
}

func TestAssumeYes(t *testing.T) {
	ok, err := AssumeYes{}.Confirm("anything")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEnvironmentOptions(t *testing.T) {
	opts := EnvironmentOptions([]*models.Environment{
		{ID: 1, Name: "Default"},
		{ID: 7, Name: "Foundation-Py", Description: "pandas, numpy"},
	})

	require.Len(t, opts, 2)
	require.Equal(t, "Default (1)", opts[0].Key)
	require.Equal(t, 1, opts[0].Value)
	require.Equal(t, "Foundation-Py (7): pandas, numpy", opts[1].Key)
	require.Equal(t, 7, opts[1].Value)
}

func TestSelectEnvironment_Empty(t *testing.T) {
	_, err := SelectEnvironment(nil, nil)
	require.Error(t, err)
}
