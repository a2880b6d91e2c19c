// Package help renders the console's shortcut reference: the global
// keybindings plus the commands the palette accepts.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitotech/contact-admin/internal/keys"
	"github.com/vitotech/contact-admin/internal/theme"
	"github.com/vitotech/contact-admin/internal/ui/command"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a help view over the global keymap.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the shortcut reference: keybindings grouped by the
// keymap, then the palette's command vocabulary.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGray).
		MarginTop(1)

	m.help.Width = m.width - 4
	m.help.ShowAll = true

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Contact Admin Shortcuts"),
		m.help.View(m.keys),
		sectionStyle.Render("Palette Commands (:)"),
		theme.HelpStyle.Render(strings.Join(command.Commands, "  ")),
		"",
		theme.HelpStyle.Render("Press ? or esc to close."),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
