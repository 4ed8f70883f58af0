package push

import (
	"testing"

	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSettingsUpdate(t *testing.T) {
	description := "new"

	tests := []struct {
		name       string
		local      models.LocalProject
		remote     models.RemoteProject
		wantUpdate models.ProjectUpdate
		wantFields []string
	}{
		{
			name:   "nothing differs",
			local:  models.LocalProject{Parameters: map[string]string{}},
			remote: models.RemoteProject{PinnedToDefault: true},
		},
		{
			name:       "default engine fallback",
			local:      models.LocalProject{},
			remote:     models.RemoteProject{EngineVersion: 15000},
			wantUpdate: models.ProjectUpdate{Engine: intPtr(-1)},
			wantFields: []string{"lean-engine"},
		},
		{
			name:   "environment never sent when unset",
			local:  models.LocalProject{},
			remote: models.RemoteProject{PinnedToDefault: true, Environment: intPtr(4)},
		},
		{
			name:       "environment differs",
			local:      models.LocalProject{Environment: intPtr(2)},
			remote:     models.RemoteProject{PinnedToDefault: true, Environment: intPtr(4)},
			wantUpdate: models.ProjectUpdate{Environment: intPtr(2)},
			wantFields: []string{"python-venv"},
		},
		{
			name:       "environment unset remotely",
			local:      models.LocalProject{Environment: intPtr(2)},
			remote:     models.RemoteProject{PinnedToDefault: true},
			wantUpdate: models.ProjectUpdate{Environment: intPtr(2)},
			wantFields: []string{"python-venv"},
		},
		{
			name:       "description differs",
			local:      models.LocalProject{Description: "new"},
			remote:     models.RemoteProject{Description: "old", PinnedToDefault: true},
			wantUpdate: models.ProjectUpdate{Description: &description},
			wantFields: []string{"description"},
		},
		{
			name:       "parameters removed locally",
			local:      models.LocalProject{},
			remote:     models.RemoteProject{PinnedToDefault: true, Parameters: map[string]string{"a": "1"}},
			wantUpdate: models.ProjectUpdate{Parameters: map[string]string{}},
			wantFields: []string{"parameters"},
		},
		{
			name:       "pinned engine moves",
			local:      models.LocalProject{Engine: intPtr(16100)},
			remote:     models.RemoteProject{EngineVersion: 16000, PinnedToDefault: true},
			wantUpdate: models.ProjectUpdate{Engine: intPtr(16100)},
			wantFields: []string{"lean-engine"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, fields := settingsUpdate(&tt.local, &tt.remote)
			assert.Equal(t, tt.wantUpdate, update)
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestRemoveField(t *testing.T) {
	assert.Equal(t, []string{"description", "lean-engine"}, removeField([]string{"description", "python-venv", "lean-engine"}, "python-venv"))
	assert.Empty(t, removeField([]string{"python-venv"}, "python-venv"))
}
