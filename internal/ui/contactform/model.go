package contactform

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitotech/contact-admin/internal/model"
	"github.com/vitotech/contact-admin/internal/notification"
	"github.com/vitotech/contact-admin/internal/theme"
)

// CancelMsg signals the parent that the form was dismissed.
type CancelMsg struct{}

// SubmittedMsg signals the parent that a submission was accepted.
type SubmittedMsg struct {
	Notification *model.Notification
}

// resultMsg carries the outcome of a submission attempt.
type resultMsg struct {
	created *model.Notification
	err     error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name           string
	email          string
	phone          string
	company        string
	service        string
	message        string
	attachmentPath string
}

// Model is the public contact-form view. Submissions go through the
// unauthenticated multipart path; no admin token is involved.
type Model struct {
	svc        *notification.Service
	form       *huh.Form
	fb         *formBindings
	submitting bool
	errMsg     string
	successMsg string
	width      int
	height     int
}

// New creates a contact form over the notification service.
func New(svc *notification.Service, width, height int) Model {
	return Model{
		svc:    svc,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the form for a fresh submission.
func (m *Model) Start() tea.Cmd {
	*m.fb = formBindings{}
	m.submitting = false
	m.errMsg = ""
	m.successMsg = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the contact form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if result, ok := msg.(resultMsg); ok {
		m.submitting = false
		if result.err != nil {
			m.errMsg = userMessage(result.err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		m.successMsg = "Thank you! Your message has been sent."
		created := result.created
		return m, func() tea.Msg {
			return SubmittedMsg{Notification: created}
		}
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
		m.successMsg = ""
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the contact form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Contact Us"))
	b.WriteString("\n")

	switch {
	case m.submitting:
		b.WriteString(theme.HelpStyle.Render("Sending your message..."))
	case m.successMsg != "":
		b.WriteString(theme.SuccessStyle.Render(m.successMsg))
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

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	serviceOpts := []huh.Option[string]{
		huh.NewOption("Not sure yet", ""),
	}
	for _, s := range model.ServiceChoices {
		serviceOpts = append(serviceOpts, huh.NewOption(s, s))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full Name").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("Business Email").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Phone Number").
				Value(&m.fb.phone).
				Validate(validateRequired("Phone")),
			huh.NewInput().
				Title("Company / Organization").
				Placeholder("Optional").
				Value(&m.fb.company),
			huh.NewSelect[string]().
				Title("Service Interested In").
				Options(serviceOpts...).
				Value(&m.fb.service),
			huh.NewText().
				Title("Message").
				Placeholder("How can we help?").
				Value(&m.fb.message).
				Validate(validateRequired("Message")),
			huh.NewInput().
				Title("Attachment").
				Placeholder("Path to a file (optional, max 5MB)").
				Value(&m.fb.attachmentPath).
				Validate(validateAttachmentPath),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) submit() tea.Cmd {
	svc := m.svc
	fb := *m.fb
	return func() tea.Msg {
		payload := notification.Payload{
			Name:    fb.name,
			Email:   fb.email,
			Phone:   fb.phone,
			Company: fb.company,
			Service: fb.service,
			Message: fb.message,
		}

		if path := strings.TrimSpace(fb.attachmentPath); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return resultMsg{err: fmt.Errorf("reading attachment: %w", err)}
			}
			payload.Attachment = &notification.Attachment{
				Filename: fileBase(path),
				Data:     data,
			}
		}

		created, err := svc.Create(context.Background(), payload)
		return resultMsg{created: created, err: err}
	}
}

// userMessage translates a submission failure into a short, non-technical
// banner.
func userMessage(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "attachment") {
		return "The attachment could not be used. Check the file type and size (max 5MB)."
	}
	return "We couldn't send your message right now. Please try again in a moment."
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
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

func fileBase(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Email is required")
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 || !strings.Contains(s[at:], ".") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

// validateAttachmentPath checks the optional attachment before any
// network call: the file must exist, match the accepted types, and stay
// under the size cap. Advisory only; the backend revalidates.
func validateAttachmentPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("file not found")
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory")
	}
	return notification.ValidateAttachment(s, info.Size())
}
