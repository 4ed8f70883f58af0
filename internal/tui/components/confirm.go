package components

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jakoblorz/go-leancloud/internal/tui"
)

// ConfirmModel is a yes/no prompt. The cursor starts on "No" so a stray
// enter never approves a destructive change.
type ConfirmModel struct {
	message   string
	cursor    int
	confirmed bool
	aborted   bool
	done      bool
}

const (
	cursorYes = 0
	cursorNo  = 1
)

// NewConfirm creates a confirmation prompt for message
func NewConfirm(message string) ConfirmModel {
	return ConfirmModel{
		message: message,
		cursor:  cursorNo,
	}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "h", "tab":
		m.cursor = cursorYes
	case "right", "l", "shift+tab":
		m.cursor = cursorNo
	case "enter", " ":
		return m.finish(m.cursor == cursorYes), tea.Quit
	case "y", "Y":
		return m.finish(true), tea.Quit
	case "n", "N":
		return m.finish(false), tea.Quit
	case "ctrl+c", "esc":
		m.aborted = true
		return m.finish(false), tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) finish(confirmed bool) ConfirmModel {
	m.confirmed = confirmed
	m.done = true
	return m
}

func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}

	yes, no := "  Yes", "  No"
	if m.cursor == cursorYes {
		yes = tui.SelectedStyle.Render("> Yes")
	} else {
		no = tui.SelectedStyle.Render("> No")
	}

	return fmt.Sprintf("%s\n\n%s  %s\n%s\n",
		tui.WarningStyle.Render(m.message),
		yes, no,
		tui.HelpStyle.Render("←→ navigate • enter confirm • y/n quick select • esc abort"))
}

// IsConfirmed returns whether the user confirmed
func (m ConfirmModel) IsConfirmed() bool {
	return m.confirmed
}

// IsAborted reports a ctrl+c or esc
func (m ConfirmModel) IsAborted() bool {
	return m.aborted
}

// IsDone returns whether the user finished
func (m ConfirmModel) IsDone() bool {
	return m.done
}
