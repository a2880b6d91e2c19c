package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitotech/contact-admin/internal/model"
	"github.com/vitotech/contact-admin/internal/theme"
)

// Model is the dashboard view: the three stat cards and the latest
// messages, rendered from the shell's shared state.
type Model struct {
	stats       model.Stats
	messages    []model.ContactMessage
	loading     bool
	latestCount int
	width       int
	height      int
}

// New creates a dashboard view showing up to latestCount recent messages.
func New(latestCount, width, height int) Model {
	if latestCount <= 0 {
		latestCount = 5
	}
	return Model{
		latestCount: latestCount,
		width:       width,
		height:      height,
	}
}

// LatestCount returns how many recent messages the dashboard shows.
func (m Model) LatestCount() int {
	return m.latestCount
}

// SetState replaces the rendered snapshot with the shell's current state.
func (m *Model) SetState(stats model.Stats, messages []model.ContactMessage, loading bool) {
	m.stats = stats
	m.messages = messages
	m.loading = loading
}

// Update handles messages for the dashboard. Navigation is global, so
// there is nothing view-specific to do.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGray).
		MarginTop(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard"))
	b.WriteString("\n")
	b.WriteString(m.renderCards())
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Latest Messages"))
	b.WriteString("\n")
	b.WriteString(m.renderLatest())

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(b.String())
}

// renderCards draws the total/unread/read stat cards side by side.
func (m Model) renderCards() string {
	card := func(label string, value int) string {
		return theme.StatCardStyle(label).Render(
			fmt.Sprintf("%s\n%d", label, value),
		)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		card("Total", m.stats.Total),
		" ",
		card("Unread", m.stats.Unread),
		" ",
		card("Read", m.stats.Read),
	)
}

// renderLatest draws the most recent messages, newest first.
func (m Model) renderLatest() string {
	if m.loading {
		return theme.HelpStyle.Render("Loading messages...")
	}
	if len(m.messages) == 0 {
		return theme.HelpStyle.Render("You haven't received any messages yet.")
	}

	latest := m.messages
	if len(latest) > m.latestCount {
		latest = latest[:m.latestCount]
	}

	var b strings.Builder
	for _, msg := range latest {
		badge := theme.StatusStyle(msg.Status).Render(string(msg.Status))
		line := fmt.Sprintf(
			"%s %s <%s>  %s",
			badge,
			msg.Name,
			msg.Email,
			theme.HelpStyle.Render(msg.CreatedAt.Local().Format("02 Jan 15:04")),
		)
		b.WriteString(line + "\n")

		preview := msg.Message
		if runes := []rune(preview); len(runes) > 70 {
			preview = string(runes[:69]) + "…"
		}
		b.WriteString("  " + preview + "\n")
	}
	return b.String()
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
