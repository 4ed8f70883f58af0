// Package prompt holds the interactive inputs the CLI feeds into project
// updates and pushes.
package prompt

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/tui/components"
)

// TerminalConfirmer asks yes/no questions with the bubbletea confirm
// component.
type TerminalConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewTerminalConfirmer creates a confirmer reading keys from in and drawing
// to out.
func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: in, out: out}
}

// Confirm shows prompt and waits for an answer. Esc and ctrl+c return
// ErrUserAbort.
func (c *TerminalConfirmer) Confirm(prompt string) (bool, error) {
	program := tea.NewProgram(
		components.NewConfirm(prompt),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
	)

	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("failed to run confirmation prompt: %w", err)
	}

	model, ok := final.(components.ConfirmModel)
	if !ok || !model.IsDone() || model.IsAborted() {
		return false, cerrors.ErrUserAbort
	}
	return model.IsConfirmed(), nil
}

// AssumeYes approves every prompt, for --yes.
type AssumeYes struct{}

func (AssumeYes) Confirm(string) (bool, error) {
	return true, nil
}
