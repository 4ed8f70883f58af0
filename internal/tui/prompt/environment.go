package prompt

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/jakoblorz/go-leancloud/internal/tui"
)

// EnvironmentOptions builds the picker options, labelled "name (id)" with
// the description when there is one.
func EnvironmentOptions(environments []*models.Environment) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, len(environments))
	for _, env := range environments {
		label := fmt.Sprintf("%s (%d)", env.Name, env.ID)
		if env.Description != "" {
			label = fmt.Sprintf("%s: %s", label, env.Description)
		}
		opts = append(opts, huh.NewOption(label, env.ID))
	}
	return opts
}

// SelectEnvironment lets the user pick a runtime environment. current
// preselects an option when set.
func SelectEnvironment(environments []*models.Environment, current *int) (int, error) {
	if len(environments) == 0 {
		return 0, fmt.Errorf("no environments available")
	}

	selected := environments[0].ID
	if current != nil {
		selected = *current
	}

	keyMap := huh.NewDefaultKeyMap()
	keyMap.Select.Submit.SetKeys("enter", " ")
	keyMap.Select.Submit.SetHelp("space/enter", "select")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Options(EnvironmentOptions(environments)...).
				Value(&selected),
		).
			Title("Python Environment").
			Description("Select the environment the project runs in."),
	).
		WithTheme(tui.NewHuhTheme()).
		WithShowHelp(true).
		WithProgramOptions(tea.WithAltScreen()).
		WithKeyMap(keyMap)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 0, cerrors.ErrUserAbort
		}
		return 0, fmt.Errorf("failed to select environment: %w", err)
	}

	return selected, nil
}
