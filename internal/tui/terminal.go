package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/cwtail/internal/model"
	"github.com/rusenback/cwtail/internal/tail"
)

// ErrAborted is returned when the operator leaves a prompt with esc or ctrl+c
var ErrAborted = errors.New("aborted by operator")

// Terminal runs each prompt as its own bubbletea program
type Terminal struct {
	options []tea.ProgramOption
	// altScreen is used for the tail view only; menus stay inline
	altScreen bool
}

// NewTerminal creates a Terminal. options are passed to every program,
// which lets tests swap input and output.
func NewTerminal(altScreen bool, options ...tea.ProgramOption) *Terminal {
	return &Terminal{options: options, altScreen: altScreen}
}

func (t *Terminal) run(ctx context.Context, m tea.Model, extra ...tea.ProgramOption) (tea.Model, error) {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, t.options...)
	opts = append(opts, extra...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("run terminal ui: %w", err)
	}
	return final, nil
}

// Select shows a menu and returns the chosen index
func (t *Terminal) Select(ctx context.Context, title string, options []string) (int, error) {
	final, err := t.run(ctx, NewMenu(title, options))
	if err != nil {
		return 0, err
	}
	chosen, ok := final.(MenuModel).Chosen()
	if !ok {
		return 0, ErrAborted
	}
	return chosen, nil
}

// Confirm asks a yes/no question, defaulting to yes
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	final, err := t.run(ctx, NewConfirm(question, true))
	if err != nil {
		return false, err
	}
	yes, ok := final.(ConfirmModel).Answer()
	if !ok {
		return false, ErrAborted
	}
	return yes, nil
}

// PromptCredentials shows the credentials form
func (t *Terminal) PromptCredentials(ctx context.Context, defaults model.Credentials) (model.Credentials, error) {
	final, err := t.run(ctx, NewCredentialsForm(defaults))
	if err != nil {
		return model.Credentials{}, err
	}
	form := final.(CredentialsForm)
	if !form.Submitted() {
		return model.Credentials{}, ErrAborted
	}
	return form.Credentials(), nil
}

// Tail runs the tail view over state until the operator quits, the token
// expires or a fetch fails.
func (t *Terminal) Tail(ctx context.Context, source EventSource, state *tail.State, opts TailOptions) (TailResult, error) {
	var extra []tea.ProgramOption
	if t.altScreen {
		extra = append(extra, tea.WithAltScreen())
	}
	final, err := t.run(ctx, NewTailModel(ctx, source, state, opts), extra...)
	if err != nil {
		return TailResult{}, err
	}
	return final.(TailModel).Result(), nil
}
