package detail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitotech/contact-admin/internal/keys"
	"github.com/vitotech/contact-admin/internal/model"
	"github.com/vitotech/contact-admin/internal/notification"
	"github.com/vitotech/contact-admin/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ToggleMsg asks the shell to flip the current message's read status.
type ToggleMsg struct {
	ID int
}

// LoadedMsg carries the fetched notification, or the load error.
type LoadedMsg struct {
	Notification *model.Notification
	Err          error
}

// Model is the message detail view. It fetches the full record by id so
// the admin sees read_at and attachment data the list doesn't carry.
type Model struct {
	svc      *notification.Service
	current  *model.Notification
	viewport viewport.Model
	keys     *keys.KeyMap
	loading  bool
	errMsg   string
	width    int
	height   int
}

// New creates a new detail view model.
func New(svc *notification.Service, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		svc:      svc,
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Load returns a command that fetches one notification by id.
func (m *Model) Load(id int) tea.Cmd {
	m.loading = true
	m.errMsg = ""
	m.current = nil

	svc := m.svc
	return func() tea.Msg {
		n, err := svc.Get(context.Background(), id)
		return LoadedMsg{Notification: n, Err: err}
	}
}

// Refresh re-fetches the currently shown notification, if any.
func (m *Model) Refresh() tea.Cmd {
	if m.current == nil {
		return nil
	}
	return m.Load(m.current.ID)
}

// CurrentID returns the id of the shown notification, or 0.
func (m Model) CurrentID() int {
	if m.current == nil {
		return 0
	}
	return m.current.ID
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = "Failed to load the message. Please try again in a moment."
			return m, nil
		}
		m.current = msg.Notification
		m.errMsg = ""
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.ToggleRead):
			if m.current != nil {
				id := m.current.ID
				return m, func() tea.Msg {
					return ToggleMsg{ID: id}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading message...")
	}

	if m.errMsg != "" {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(theme.ErrorStyle.Render(m.errMsg))
	}

	if m.current == nil {
		return ""
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(m.viewport.View())
}

// renderContent formats the notification for the viewport.
func (m Model) renderContent() string {
	n := m.current

	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGray)
	valueStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	status := model.StatusUnread
	if n.IsRead {
		status = model.StatusRead
	}

	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render(fmt.Sprintf("Message #%d from %s", n.ID, n.Name))
	b.WriteString(title + "  " + theme.StatusStyle(status).Render(string(status)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	row("Email", n.Email)
	row("Phone", n.Phone)
	row("Company", n.Company)
	row("Service", n.Service)
	if n.Attachment != nil {
		row("File", *n.Attachment)
	}
	row("Received", n.CreatedAt.Local().Format("Mon, 02 Jan 2006 15:04"))
	if n.ReadAt != nil {
		row("Read at", n.ReadAt.Local().Format("Mon, 02 Jan 2006 15:04"))
	}

	b.WriteString("\n")
	b.WriteString(valueStyle.Render(n.Message))

	return b.String()
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 8
	m.viewport.Height = height - 4
}
