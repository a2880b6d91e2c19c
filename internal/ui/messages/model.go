package messages

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitotech/contact-admin/internal/keys"
	"github.com/vitotech/contact-admin/internal/model"
	"github.com/vitotech/contact-admin/internal/theme"
)

// SelectedMsg is sent when the user opens a message's detail view.
type SelectedMsg struct {
	ID int
}

// ToggleStatusMsg asks the shell to flip one message's read status.
type ToggleStatusMsg struct {
	ID int
}

// MarkAllReadMsg asks the shell to mark every unread message read.
type MarkAllReadMsg struct{}

// Model is the message list view. It renders the shell's state; all
// mutations are requested from the shell via messages.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	all         []model.ContactMessage
	unreadOnly  bool
	query       string
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new message list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Messages"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search messages..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetMessages replaces the rendered list with the shell's current state.
func (m *Model) SetMessages(all []model.ContactMessage) tea.Cmd {
	m.all = all
	return m.applyFilters()
}

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(keyMsg)
		}
		return m.handleNormalKeys(keyMsg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = strings.TrimSpace(m.searchInput.Value())
		return m, m.applyFilters()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.applyFilters()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(MessageItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedMsg{ID: item.Message.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.FilterUnread):
		m.unreadOnly = !m.unreadOnly
		return m, m.applyFilters()

	case key.Matches(msg, m.keys.ToggleRead):
		item, ok := m.list.SelectedItem().(MessageItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return ToggleStatusMsg{ID: item.Message.ID}
		}

	case key.Matches(msg, m.keys.MarkAllRead):
		return m, func() tea.Msg {
			return MarkAllReadMsg{}
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// applyFilters rebuilds the visible items from the full list, the
// unread-only toggle, and the search query.
func (m *Model) applyFilters() tea.Cmd {
	query := strings.ToLower(m.query)

	var items []list.Item
	for _, msg := range m.all {
		if m.unreadOnly && msg.Status != model.StatusUnread {
			continue
		}
		if query != "" && !matches(msg, query) {
			continue
		}
		items = append(items, MessageItem{Message: msg})
	}
	return m.list.SetItems(items)
}

// matches mirrors the backend's search behavior: a case-insensitive
// substring match across sender fields and the message body.
func matches(msg model.ContactMessage, query string) bool {
	for _, field := range []string{
		msg.Name, msg.Email, msg.Phone, msg.Company, msg.Message,
	} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// View renders the message list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no messages are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.unreadOnly || m.query != "" {
		return style.Render("No matching messages.\nPress u or / to adjust filters.")
	}

	return style.Render("You haven't received any messages yet.")
}

// Searching reports whether the search input has keyboard focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// FilterSummary describes the active filters for the status bar.
func (m Model) FilterSummary() string {
	var parts []string
	if m.unreadOnly {
		parts = append(parts, "unread only")
	}
	if m.query != "" {
		parts = append(parts, "search: "+m.query)
	}
	return strings.Join(parts, " | ")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
