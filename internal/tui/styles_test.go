package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStyleSummary_KeepsText(t *testing.T) {
	summary := "✓ Library/Shared (cloud id 1001)\n  created\n✗ Alpha\n  error: boom\n1 pushed, 1 failed\n"

	styled := StyleSummary(summary)

	require.True(t, strings.HasSuffix(styled, "\n"))
	for _, line := range strings.Split(strings.TrimSpace(summary), "\n") {
		require.Contains(t, styled, strings.TrimSpace(line))
	}
}
