package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitotech/contact-admin/internal/auth"
	"github.com/vitotech/contact-admin/internal/keys"
	"github.com/vitotech/contact-admin/internal/notification"
	"github.com/vitotech/contact-admin/internal/shell"
	"github.com/vitotech/contact-admin/internal/ui"
	"github.com/vitotech/contact-admin/internal/ui/account"
	"github.com/vitotech/contact-admin/internal/ui/command"
	"github.com/vitotech/contact-admin/internal/ui/contactform"
	"github.com/vitotech/contact-admin/internal/ui/dashboard"
	"github.com/vitotech/contact-admin/internal/ui/detail"
	helpview "github.com/vitotech/contact-admin/internal/ui/help"
	"github.com/vitotech/contact-admin/internal/ui/login"
	"github.com/vitotech/contact-admin/internal/ui/messages"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewMessages
	ViewDetail
	ViewContactForm
	ViewAccount
	ViewHelp
	ViewCommand
)

// StartMode selects what the program opens into.
type StartMode int

const (
	// StartAdmin opens the admin console (login first when needed).
	StartAdmin StartMode = iota

	// StartContact opens the public contact form only; no login is
	// involved and closing the form exits the program.
	StartContact
)

// Options configure the root model.
type Options struct {
	Mode        StartMode
	LatestCount int
	Width       int
	Height      int
}

// Model is the root Bubble Tea model. It routes between views and gates
// every admin view on token presence: a denied navigation lands on the
// login view with the requested view recorded, and a successful login
// returns there.
type Model struct {
	currentView  ViewState
	previousView ViewState

	// returnView is where a successful login should land.
	returnView ViewState

	mode   StartMode
	layout ui.Layout
	keys   *keys.KeyMap
	ready  bool

	auth  *auth.Service
	notif *notification.Service
	shell shell.Shell

	loginView   login.Model
	dashView    dashboard.Model
	listView    messages.Model
	detailView  detail.Model
	contactView contactform.Model
	accountView account.Model
	helpView    helpview.Model
	commandView command.Model
}

// New creates the root application model.
func New(
	authSvc *auth.Service,
	notifSvc *notification.Service,
	opts Options,
) Model {
	km := keys.DefaultKeyMap()

	width, height := opts.Width, opts.Height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	startView := ViewLogin
	switch {
	case opts.Mode == StartContact:
		startView = ViewContactForm
	case authSvc.IsAuthenticated():
		startView = ViewDashboard
	}

	return Model{
		currentView: startView,
		returnView:  ViewDashboard,
		mode:        opts.Mode,
		keys:        km,
		auth:        authSvc,
		notif:       notifSvc,
		shell:       shell.New(notifSvc),
		loginView:   login.New(authSvc, width, height),
		dashView:    dashboard.New(opts.LatestCount, width, height),
		listView:    messages.New(km, width, height),
		detailView:  detail.New(notifSvc, km, width, height),
		contactView: contactform.New(notifSvc, width, height),
		accountView: account.New(authSvc, width, height),
		helpView:    helpview.New(km, width, height),
		commandView: command.New(width, height),
	}
}

// bootLoadMsg triggers the first console load from Update, where the
// shell's state (including its load sequence) can be kept.
type bootLoadMsg struct{}

// Init starts the view chosen at construction time: the contact form in
// contact mode, the dashboard when a credential is already held, and
// login otherwise.
func (m Model) Init() tea.Cmd {
	switch m.currentView {
	case ViewContactForm:
		return m.contactView.Start()
	case ViewDashboard:
		return func() tea.Msg { return bootLoadMsg{} }
	default:
		return m.loginView.Start()
	}
}

// navigate moves to the given view, applying the admin gate. A denied
// admin navigation records the target and lands on login instead.
func (m Model) navigate(view ViewState) (Model, tea.Cmd) {
	if isAdminView(view) && !m.auth.IsAuthenticated() {
		m.returnView = view
		m.previousView = m.currentView
		m.currentView = ViewLogin
		return m, m.loginView.Start()
	}

	// An authenticated user has no business on the login view.
	if view == ViewLogin && m.auth.IsAuthenticated() {
		view = ViewDashboard
	}

	m.previousView = m.currentView
	m.currentView = view
	return m, nil
}

// isAdminView reports whether a view requires the admin credential.
func isAdminView(view ViewState) bool {
	switch view {
	case ViewDashboard, ViewMessages, ViewDetail, ViewAccount:
		return true
	}
	return false
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.loginView.SetSize(contentWidth, contentHeight)
		m.dashView.SetSize(contentWidth, contentHeight)
		m.listView.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.contactView.SetSize(contentWidth, contentHeight)
		m.accountView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case bootLoadMsg:
		var loadCmd tea.Cmd
		m.shell, loadCmd = m.shell.Load()
		return m, loadCmd

	case login.LoggedInMsg:
		// Admitted: load the console and land on the view the user was
		// originally heading for.
		var navCmd tea.Cmd
		m, navCmd = m.navigate(m.returnView)
		m.returnView = ViewDashboard

		var loadCmd tea.Cmd
		m.shell, loadCmd = m.shell.Load()
		return m, tea.Batch(navCmd, loadCmd)

	case shell.LoadedMsg:
		m.shell = m.shell.HandleLoaded(msg)
		return m, m.pushSharedState()

	case shell.ToggledMsg:
		m.shell = m.shell.HandleToggled(msg)
		cmds := []tea.Cmd{m.pushSharedState()}
		// The detail view shows read_at, which only the backend knows.
		if m.currentView == ViewDetail && msg.Err == nil &&
			m.detailView.CurrentID() == msg.ID {
			cmds = append(cmds, m.detailView.Refresh())
		}
		return m, tea.Batch(cmds...)

	case shell.AllReadMsg:
		m.shell = m.shell.HandleAllRead(msg)
		return m, m.pushSharedState()

	case messages.SelectedMsg:
		var navCmd tea.Cmd
		m, navCmd = m.navigate(ViewDetail)
		return m, tea.Batch(navCmd, m.detailView.Load(msg.ID))

	case messages.ToggleStatusMsg:
		return m, m.shell.ToggleStatus(msg.ID)

	case messages.MarkAllReadMsg:
		return m, m.shell.MarkAllRead()

	case detail.ToggleMsg:
		return m, m.shell.ToggleStatus(msg.ID)

	case detail.LoadedMsg:
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return m, cmd

	case detail.BackMsg:
		return m.navigate(ViewMessages)

	case contactform.SubmittedMsg:
		// The form shows its own success banner; nothing to route.
		return m, nil

	case contactform.CancelMsg:
		if m.mode == StartContact {
			return m, tea.Quit
		}
		return m.navigate(m.previousView)

	case account.CancelMsg:
		return m.navigate(ViewDashboard)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		if model, cmd, handled := m.handleGlobalKeys(msg); handled {
			return model, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the focused
// view. Printable shortcuts only fire on browse views so they cannot
// swallow form input.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	if !m.onBrowseView() {
		return m, nil, false
	}

	switch msg.String() {
	case "q":
		if m.currentView != ViewDetail && m.currentView != ViewHelp {
			return m, tea.Quit, true
		}

	case "?":
		if m.currentView == ViewHelp {
			model, cmd := m.navigate(m.previousView)
			return model, cmd, true
		}
		model, cmd := m.navigate(ViewHelp)
		return model, cmd, true

	case ":":
		model, cmd := m.navigate(ViewCommand)
		return model, tea.Batch(cmd, model.commandView.Focus()), true

	case "1":
		model, cmd := m.navigate(ViewDashboard)
		return model, cmd, true

	case "2":
		model, cmd := m.navigate(ViewMessages)
		return model, cmd, true

	case "r":
		var loadCmd tea.Cmd
		m.shell, loadCmd = m.shell.Load()
		return m, loadCmd, true

	case "n":
		model, cmd := m.navigate(ViewContactForm)
		return model, tea.Batch(cmd, model.contactView.Start()), true

	case "L":
		model, cmd := m.logout()
		return model, cmd, true
	}

	return m, nil, false
}

// onBrowseView reports whether the current view is a browse surface
// (no focused text input).
func (m Model) onBrowseView() bool {
	switch m.currentView {
	case ViewDashboard, ViewDetail, ViewHelp:
		return true
	case ViewMessages:
		return !m.listView.Searching()
	}
	return false
}

// logout clears the credential and every piece of admin state, then
// lands on login. Nothing admin-shaped survives, so navigating back
// after logout cannot flash stale content.
func (m Model) logout() (Model, tea.Cmd) {
	// Best effort; an unreachable keyring still drops the in-memory state.
	_ = m.auth.Logout()

	width, height := m.layout.ContentWidth(), m.layout.ContentHeight()
	m.shell = m.shell.Reset()
	m.listView = messages.New(m.keys, width, height)
	m.detailView = detail.New(m.notif, m.keys, width, height)
	m.dashView = dashboard.New(m.dashView.LatestCount(), width, height)

	m.returnView = ViewDashboard
	m.previousView = ViewLogin
	m.currentView = ViewLogin
	return m, m.loginView.Start()
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "refresh", "sync":
		if !m.auth.IsAuthenticated() {
			return m.navigate(ViewDashboard)
		}
		var loadCmd tea.Cmd
		m.shell, loadCmd = m.shell.Load()
		return m, loadCmd

	case "quit", "q":
		return m, tea.Quit

	case "dashboard", "home":
		return m.navigate(ViewDashboard)

	case "messages", "inbox":
		return m.navigate(ViewMessages)

	case "mark all read", "allread":
		if !m.auth.IsAuthenticated() {
			return m.navigate(ViewMessages)
		}
		return m, m.shell.MarkAllRead()

	case "contact", "new message":
		model, navCmd := m.navigate(ViewContactForm)
		return model, tea.Batch(navCmd, model.contactView.Start())

	case "password", "change password":
		return m.startAccount(account.ModeChangePassword)

	case "username", "change username":
		return m.startAccount(account.ModeChangeUsername)

	case "create admin", "new admin":
		return m.startAccount(account.ModeCreateAdmin)

	case "logout", "log out":
		return m.logout()

	case "help":
		return m.navigate(ViewHelp)

	default:
		return m, nil
	}
}

// startAccount navigates to the account view in the given mode, passing
// through the admin gate.
func (m Model) startAccount(mode account.Mode) (Model, tea.Cmd) {
	model, navCmd := m.navigate(ViewAccount)
	if model.currentView != ViewAccount {
		// Denied; login will bring the user back here.
		return model, navCmd
	}
	return model, tea.Batch(navCmd, model.accountView.Start(mode))
}

// pushSharedState hands the shell's current state to the views that
// render it. Views get the data read-only; mutations flow back as
// messages handled by the shell.
func (m *Model) pushSharedState() tea.Cmd {
	m.dashView.SetState(m.shell.Stats(), m.shell.Messages(), m.shell.Loading())
	return m.listView.SetMessages(m.shell.Messages())
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewDashboard:
		m.dashView, cmd = m.dashView.Update(msg)
	case ViewMessages:
		m.listView, cmd = m.listView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewContactForm:
		m.contactView, cmd = m.contactView.Update(msg)
	case ViewAccount:
		m.accountView, cmd = m.accountView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.sessionLabel())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// headerTitle shows the app name with the unread count when known.
func (m Model) headerTitle() string {
	title := "Contact Admin"
	if m.shell.Loaded() && m.shell.Stats().Unread > 0 {
		title = fmt.Sprintf("Contact Admin [%d unread]", m.shell.Stats().Unread)
	}
	return title
}

// sessionLabel shows the admin greeting, or the signed-out state.
func (m Model) sessionLabel() string {
	if name := m.auth.DisplayName(); name != "" && m.auth.IsAuthenticated() {
		return "signed in as " + name
	}
	return "not signed in"
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewDashboard:
		return m.dashView.View()
	case ViewMessages:
		return m.listView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewContactForm:
		return m.contactView.View()
	case ViewAccount:
		return m.accountView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	// Show the shell's error prominently when present.
	if err := m.shell.Err(); err != "" && m.currentView != ViewLogin {
		return err
	}

	switch m.currentView {
	case ViewLogin:
		return "enter submit | ctrl+c quit"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDetail:
		return "esc back | x toggle read | j/k scroll"
	case ViewContactForm, ViewAccount:
		return "enter next | esc cancel"
	case ViewMessages:
		if summary := m.listView.FilterSummary(); summary != "" {
			return summary + " | u/esc clear"
		}
		return "enter open | x toggle | m mark all read | / search | u unread | 1 dashboard"
	default:
		return "q quit | ? help | 2 messages | r refresh | n contact form | : commands"
	}
}
