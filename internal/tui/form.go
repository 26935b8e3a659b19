package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/cwtail/internal/credentials"
	"github.com/rusenback/cwtail/internal/model"
)

const (
	fieldAccessKey = iota
	fieldSecretKey
	fieldSessionToken
	fieldRegion
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Access key ID",
	"Secret access key",
	"Session token (optional)",
	"Region",
}

// CredentialsForm collects an AWS key pair, optional session token and region
type CredentialsForm struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	err     error
	done    bool
	aborted bool
}

// NewCredentialsForm prefills the region (and the key id, if known) from defaults
func NewCredentialsForm(defaults model.Credentials) CredentialsForm {
	var f CredentialsForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 2048
		ti.Width = 50
		ti.Prompt = "› "
		f.inputs[i] = ti
	}

	f.inputs[fieldAccessKey].Placeholder = "AKIA..."
	f.inputs[fieldAccessKey].CharLimit = 128
	f.inputs[fieldAccessKey].SetValue(defaults.AccessKeyID)
	f.inputs[fieldSecretKey].EchoMode = textinput.EchoPassword
	f.inputs[fieldSecretKey].EchoCharacter = '•'
	f.inputs[fieldSessionToken].EchoMode = textinput.EchoPassword
	f.inputs[fieldSessionToken].EchoCharacter = '•'
	f.inputs[fieldRegion].Placeholder = "e.g., eu-north-1"
	f.inputs[fieldRegion].CharLimit = 32
	f.inputs[fieldRegion].SetValue(defaults.Region)

	f.inputs[fieldAccessKey].Focus()
	return f
}

func (f CredentialsForm) Init() tea.Cmd {
	return textinput.Blink
}

func (f CredentialsForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			f.aborted = true
			return f, tea.Quit
		case "tab", "down":
			return f, f.setFocus(f.focus + 1)
		case "shift+tab", "up":
			return f, f.setFocus(f.focus - 1)
		case "enter":
			if f.focus < fieldCount-1 {
				return f, f.setFocus(f.focus + 1)
			}
			if err := f.validate(); err != nil {
				f.err = err
				return f, nil
			}
			f.done = true
			return f, tea.Quit
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *CredentialsForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f CredentialsForm) validate() error {
	c := f.Credentials()
	if err := credentials.Validate(c); err != nil {
		return err
	}
	if c.Region == "" {
		return errors.New("region is required")
	}
	return nil
}

func (f CredentialsForm) View() string {
	if f.done || f.aborted {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("AWS credentials") + "\n\n")
	for i := range f.inputs {
		label := fieldLabels[i]
		if i == f.focus {
			label = headerStyle.Render(label)
		}
		s.WriteString(label + "\n" + f.inputs[i].View() + "\n\n")
	}

	if f.err != nil {
		s.WriteString(errorStyle.Render("✗ "+f.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("Tab to move • Enter on the last field to save • Esc to quit"))
	return s.String()
}

// Credentials returns the trimmed field values
func (f CredentialsForm) Credentials() model.Credentials {
	return model.Credentials{
		AccessKeyID:     strings.TrimSpace(f.inputs[fieldAccessKey].Value()),
		SecretAccessKey: strings.TrimSpace(f.inputs[fieldSecretKey].Value()),
		SessionToken:    strings.TrimSpace(f.inputs[fieldSessionToken].Value()),
		Region:          strings.TrimSpace(f.inputs[fieldRegion].Value()),
	}
}

// Submitted reports whether the form was completed rather than aborted
func (f CredentialsForm) Submitted() bool {
	return f.done
}
