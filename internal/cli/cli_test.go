package cli

import (
	"testing"

	"github.com/jakoblorz/go-leancloud/internal/projectconfig"
	"github.com/jakoblorz/go-leancloud/internal/testutil"
	"github.com/stretchr/testify/require"
)

const testRoot = "/workspace"

// answer is a confirmer that always gives the same answer
type answer bool

func (a answer) Confirm(string) (bool, error) {
	return bool(a), nil
}

func projectStore(t *testing.T, b *testutil.RootBuilder, project string) *projectconfig.Store {
	t.Helper()
	return projectconfig.NewStore(b.Build(), b.Path(project))
}

func libraryPaths(t *testing.T, b *testutil.RootBuilder, project string) []string {
	t.Helper()

	refs, err := projectStore(t, b, project).GetLibraries()
	require.NoError(t, err)

	paths := make([]string, 0, len(refs))
	for _, ref := range refs {
		paths = append(paths, ref.Path)
	}
	return paths
}
