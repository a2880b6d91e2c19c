package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitotech/contact-admin/internal/api"
	"github.com/vitotech/contact-admin/internal/auth"
	"github.com/vitotech/contact-admin/internal/theme"
)

// Mode selects which account form is shown.
type Mode int

const (
	ModeChangePassword Mode = iota
	ModeChangeUsername
	ModeCreateAdmin
)

// CancelMsg signals the parent that the form was dismissed.
type CancelMsg struct{}

// resultMsg carries the outcome of an account operation.
type resultMsg struct {
	err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	// change password
	currentPassword string
	newPassword     string
	confirmPassword string

	// change username / create admin
	username  string
	email     string
	firstName string
	lastName  string
	password  string
}

// Model is the account management view: change password, change
// username, and create admin, one form at a time.
type Model struct {
	svc        *auth.Service
	mode       Mode
	form       *huh.Form
	fb         *formBindings
	submitting bool
	errMsg     string
	successMsg string
	width      int
	height     int
}

// New creates an account view over the auth service.
func New(svc *auth.Service, width, height int) Model {
	return Model{
		svc:    svc,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start switches to the given form mode and resets its fields.
func (m *Model) Start(mode Mode) tea.Cmd {
	m.mode = mode
	*m.fb = formBindings{}
	m.submitting = false
	m.errMsg = ""
	m.successMsg = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the account view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if result, ok := msg.(resultMsg); ok {
		m.submitting = false
		if result.err != nil {
			m.errMsg = m.userMessage(result.err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		m.successMsg = m.successText()
		*m.fb = formBindings{}
		return m, nil
	}

	if m.form == nil || m.submitting {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		// Local validation happens before any network round-trip.
		if err := m.validate(); err != nil {
			m.errMsg = err.Error()
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		m.submitting = true
		m.errMsg = ""
		m.successMsg = ""
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the account view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n")

	switch {
	case m.submitting:
		b.WriteString(theme.HelpStyle.Render("Saving..."))
	case m.successMsg != "":
		b.WriteString(theme.SuccessStyle.Render(m.successMsg))
		b.WriteString("\n" + theme.HelpStyle.Render("Press esc to go back."))
	case m.form != nil:
		b.WriteString(m.form.View())
	}

	if m.errMsg != "" {
		b.WriteString("\n" + theme.ErrorStyle.Render(m.errMsg))
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(b.String())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) title() string {
	switch m.mode {
	case ModeChangeUsername:
		return "Change Username"
	case ModeCreateAdmin:
		return "Create Admin User"
	default:
		return "Change Password"
	}
}

func (m Model) successText() string {
	switch m.mode {
	case ModeChangeUsername:
		return "Username updated successfully."
	case ModeCreateAdmin:
		return "Admin user created successfully."
	default:
		return "Password changed successfully."
	}
}

func (m *Model) buildForm() *huh.Form {
	var fields []huh.Field

	switch m.mode {
	case ModeChangePassword:
		fields = []huh.Field{
			huh.NewInput().
				Title("Current Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.currentPassword).
				Validate(validateRequired("Current password")),
			huh.NewInput().
				Title("New Password").
				Description("At least 6 characters").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.newPassword).
				Validate(validateRequired("New password")),
			huh.NewInput().
				Title("Confirm New Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirmPassword).
				Validate(validateRequired("Confirmation")),
		}

	case ModeChangeUsername:
		fields = []huh.Field{
			huh.NewInput().
				Title("New Username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
		}

	case ModeCreateAdmin:
		fields = []huh.Field{
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("First Name").
				Value(&m.fb.firstName),
			huh.NewInput().
				Title("Last Name").
				Value(&m.fb.lastName),
			huh.NewInput().
				Title("Password").
				Description("At least 6 characters").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		}
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// validate applies the client-side checks that precede any network call.
func (m Model) validate() error {
	switch m.mode {
	case ModeChangePassword:
		if m.fb.newPassword != m.fb.confirmPassword {
			return errors.New("New passwords do not match.")
		}
		if len(m.fb.newPassword) < 6 {
			return errors.New("New password must be at least 6 characters long.")
		}
	case ModeCreateAdmin:
		if len(m.fb.password) < 6 {
			return errors.New("Password must be at least 6 characters long.")
		}
	}
	return nil
}

func (m Model) submit() tea.Cmd {
	svc := m.svc
	mode := m.mode
	fb := *m.fb
	return func() tea.Msg {
		var err error
		switch mode {
		case ModeChangePassword:
			err = svc.ChangePassword(
				context.Background(), fb.currentPassword, fb.newPassword,
			)
		case ModeChangeUsername:
			err = svc.ChangeUsername(context.Background(), fb.username)
		case ModeCreateAdmin:
			err = svc.CreateAdmin(context.Background(), auth.AdminPayload{
				Username:  fb.username,
				Email:     fb.email,
				FirstName: fb.firstName,
				LastName:  fb.lastName,
				Password:  fb.password,
			})
		}
		return resultMsg{err: err}
	}
}

// userMessage prefers the backend's detail message when one is present.
func (m Model) userMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if detail := apiErr.Detail(); detail != "" {
			return detail
		}
	}

	switch m.mode {
	case ModeChangeUsername:
		return "Failed to update the username. Please try again."
	case ModeCreateAdmin:
		return "Failed to create the admin user. Please try again."
	default:
		return "Failed to change password. Please check your current password and try again."
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
	h := m.height - 4
	if h < 10 {
		h = 10
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
