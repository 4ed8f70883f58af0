package push

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffLibraries(t *testing.T) {
	tests := []struct {
		name       string
		current    []int
		desired    []int
		wantAdd    []int
		wantRemove []int
	}{
		{name: "set difference", current: []int{1, 2, 3}, desired: []int{2, 3, 4}, wantAdd: []int{4}, wantRemove: []int{1}},
		{name: "equal sets", current: []int{3, 1}, desired: []int{1, 3}},
		{name: "empty current", desired: []int{9, 5, 7}, wantAdd: []int{5, 7, 9}},
		{name: "empty desired", current: []int{2, 1}, wantRemove: []int{1, 2}},
		{name: "duplicates are emitted once", current: []int{1, 1}, desired: []int{4, 4, 2}, wantAdd: []int{2, 4}, wantRemove: []int{1}},
		{name: "both empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toAdd, toRemove := diffLibraries(tt.current, tt.desired)
			assert.Equal(t, tt.wantAdd, toAdd)
			assert.Equal(t, tt.wantRemove, toRemove)
		})
	}
}
