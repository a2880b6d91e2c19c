package login

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitotech/contact-admin/internal/api"
	"github.com/vitotech/contact-admin/internal/auth"
	"github.com/vitotech/contact-admin/internal/theme"
)

// LoggedInMsg signals the parent that authentication succeeded.
type LoggedInMsg struct{}

// resultMsg carries the outcome of a login attempt.
type resultMsg struct {
	err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	username string
	password string
}

// Model is the admin login view.
type Model struct {
	svc        *auth.Service
	form       *huh.Form
	fb         *formBindings
	submitting bool
	errMsg     string
	width      int
	height     int
}

// New creates a login view over the auth service.
func New(svc *auth.Service, width, height int) Model {
	return Model{
		svc:    svc,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the form for a fresh login attempt.
func (m *Model) Start() tea.Cmd {
	m.fb.username = ""
	m.fb.password = ""
	m.submitting = false
	m.errMsg = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if result, ok := msg.(resultMsg); ok {
		m.submitting = false
		if result.err != nil {
			if api.IsUnauthorized(result.err) {
				m.errMsg = "The username or password is incorrect."
			} else {
				m.errMsg = "We could not log you in right now. Please try again in a moment."
			}
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, func() tea.Msg { return LoggedInMsg{} }
	}

	if m.form == nil || m.submitting {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitting = true
		m.errMsg = ""
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		// Login cannot be dismissed; rebuild the form instead.
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	return m, cmd
}

// View renders the login view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Admin Login"))
	b.WriteString("\n")

	if m.submitting {
		b.WriteString(theme.HelpStyle.Render("Logging in..."))
	} else if m.form != nil {
		b.WriteString(m.form.View())
	}

	if m.errMsg != "" {
		b.WriteString("\n" + theme.ErrorStyle.Render(m.errMsg))
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(b.String())
}

// SetSize updates the login view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Placeholder("Enter your username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				Placeholder("Enter your password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) submit() tea.Cmd {
	svc := m.svc
	username := m.fb.username
	password := m.fb.password
	return func() tea.Msg {
		err := svc.Login(context.Background(), username, password)
		return resultMsg{err: err}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
