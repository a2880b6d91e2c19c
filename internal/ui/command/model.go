// Package command is the console's command palette. It knows the set of
// commands the root model executes and offers them as suggestions while
// the admin types.
package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitotech/contact-admin/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Commands lists every palette command the console understands, in the
// order they are suggested. Aliases (sync, inbox, q, ...) are accepted
// on execution but not advertised.
var Commands = []string{
	"refresh",
	"dashboard",
	"messages",
	"mark all read",
	"contact",
	"password",
	"username",
	"create admin",
	"logout",
	"help",
	"quit",
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "refresh, messages, mark all read, ..."
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if cmd != "" {
				return m, func() tea.Msg {
					return CommandMsg(cmd)
				}
			}
			return m, nil

		case "tab":
			// Complete to the first matching command.
			if s := suggestions(m.input.Value()); len(s) > 0 {
				m.input.SetValue(s[0])
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// suggestions returns the commands matching the typed prefix, falling
// back to a substring match so "admin" still finds "create admin".
func suggestions(typed string) []string {
	typed = strings.ToLower(strings.TrimSpace(typed))
	if typed == "" {
		return Commands
	}

	var byPrefix, bySubstring []string
	for _, c := range Commands {
		switch {
		case strings.HasPrefix(c, typed):
			byPrefix = append(byPrefix, c)
		case strings.Contains(c, typed):
			bySubstring = append(bySubstring, c)
		}
	}
	if len(byPrefix) > 0 {
		return byPrefix
	}
	return bySubstring
}

// View renders the command palette with live suggestions.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Commands")
	input := m.input.View()

	hint := "tab complete | enter run | esc close"
	if s := suggestions(m.input.Value()); len(s) > 0 {
		hint = strings.Join(s, "  ")
	}
	suggestionLine := theme.HelpStyle.Render(hint)

	content := lipgloss.JoinVertical(lipgloss.Left, title, input, suggestionLine)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
