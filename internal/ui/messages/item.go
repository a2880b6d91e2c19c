package messages

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitotech/contact-admin/internal/model"
	"github.com/vitotech/contact-admin/internal/theme"
)

// MessageItem wraps a model.ContactMessage so it can be used in a
// bubbles/list.
type MessageItem struct {
	Message model.ContactMessage
}

// FilterValue returns the string used for fuzzy filtering.
func (i MessageItem) FilterValue() string {
	return i.Message.Name + " " + i.Message.Email
}

// ItemDelegate implements list.ItemDelegate for rendering message rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single message row: status badge, sender, subject-like
// message preview, and age.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(MessageItem)
	if !ok {
		return
	}

	msg := mi.Message
	badge := theme.StatusStyle(msg.Status).Render(statusLabel(msg.Status))
	sender := fmt.Sprintf("%-22.22s", msg.Name)
	preview := truncate(msg.Message, 48)
	age := theme.HelpStyle.Render(relativeTime(msg.CreatedAt))

	attach := " "
	if msg.Attachment != nil {
		attach = "@"
	}

	line := fmt.Sprintf("%s %s %s %s %s", badge, sender, attach, preview, age)

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
		return
	}

	style := theme.ListItemStyle
	if msg.Status == model.StatusUnread {
		style = style.Bold(true)
	}
	fmt.Fprint(w, style.Render(line))
}

func statusLabel(status model.MessageStatus) string {
	if status == model.StatusUnread {
		return "UNREAD"
	}
	return "READ  "
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return fmt.Sprintf("%-*s", max, s)
	}
	return string(runes[:max-1]) + "…"
}

// relativeTime formats a timestamp as a short age ("3h", "2d").
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
