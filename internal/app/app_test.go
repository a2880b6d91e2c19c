package app

import (
	"context"
	"testing"

	"github.com/vitotech/contact-admin/internal/api"
	"github.com/vitotech/contact-admin/internal/auth"
	"github.com/vitotech/contact-admin/internal/notification"
	"github.com/vitotech/contact-admin/internal/session"
	"github.com/vitotech/contact-admin/internal/ui/login"
	"github.com/vitotech/contact-admin/tests/testutil"
)

func newServices(t *testing.T) (*auth.Service, *notification.Service) {
	t.Helper()

	backend := testutil.NewBackend(t)
	sess := session.NewMemoryStore()
	client := api.NewClient(backend.URL(), sess)
	return auth.NewService(client, sess), notification.NewService(client)
}

func newModel(t *testing.T, opts Options) (Model, *auth.Service) {
	t.Helper()

	authSvc, notifSvc := newServices(t)
	return New(authSvc, notifSvc, opts), authSvc
}

func mustLogin(t *testing.T, authSvc *auth.Service) {
	t.Helper()
	err := authSvc.Login(
		context.Background(), testutil.TestUsername, testutil.TestPassword,
	)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestNewStartsOnLoginWithoutCredential(t *testing.T) {
	m, _ := newModel(t, Options{})
	if m.currentView != ViewLogin {
		t.Errorf("currentView = %d, want ViewLogin", m.currentView)
	}
}

func TestNewStartsOnDashboardWithCredential(t *testing.T) {
	authSvc, notifSvc := newServices(t)
	mustLogin(t, authSvc)

	m := New(authSvc, notifSvc, Options{})

	if m.currentView != ViewDashboard {
		t.Errorf("currentView = %d, want ViewDashboard", m.currentView)
	}
}

func TestStartModes(t *testing.T) {
	m, _ := newModel(t, Options{Mode: StartContact})
	if m.currentView != ViewContactForm {
		t.Errorf("contact mode starts on view %d, want ViewContactForm", m.currentView)
	}
}

func TestDeniedNavigationRecordsTarget(t *testing.T) {
	m, _ := newModel(t, Options{})

	m, _ = m.navigate(ViewMessages)

	if m.currentView != ViewLogin {
		t.Errorf("currentView = %d, want ViewLogin", m.currentView)
	}
	if m.returnView != ViewMessages {
		t.Errorf("returnView = %d, want ViewMessages", m.returnView)
	}
}

func TestLoginLandsOnRequestedView(t *testing.T) {
	m, authSvc := newModel(t, Options{})

	// The user headed for messages and was bounced to login.
	m, _ = m.navigate(ViewMessages)
	mustLogin(t, authSvc)

	updated, _ := m.Update(login.LoggedInMsg{})
	m = updated.(Model)

	if m.currentView != ViewMessages {
		t.Errorf("currentView after login = %d, want ViewMessages", m.currentView)
	}
	if m.returnView != ViewDashboard {
		t.Errorf("returnView not reset: %d", m.returnView)
	}
}

func TestAuthenticatedNavigationPasses(t *testing.T) {
	m, authSvc := newModel(t, Options{})
	mustLogin(t, authSvc)

	m, _ = m.navigate(ViewMessages)

	if m.currentView != ViewMessages {
		t.Errorf("currentView = %d, want ViewMessages", m.currentView)
	}
}

func TestLoginViewRedirectsWhenAuthenticated(t *testing.T) {
	m, authSvc := newModel(t, Options{})
	mustLogin(t, authSvc)

	m, _ = m.navigate(ViewLogin)

	if m.currentView != ViewDashboard {
		t.Errorf("currentView = %d, want ViewDashboard", m.currentView)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	m, authSvc := newModel(t, Options{})
	mustLogin(t, authSvc)
	m, _ = m.navigate(ViewDashboard)

	m, _ = m.logout()

	if m.currentView != ViewLogin {
		t.Errorf("currentView after logout = %d, want ViewLogin", m.currentView)
	}
	if authSvc.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
	if m.shell.Loaded() || len(m.shell.Messages()) != 0 {
		t.Error("shell state survived logout")
	}

	// The gate must deny immediately; no stale admin view is reachable.
	m, _ = m.navigate(ViewMessages)
	if m.currentView != ViewLogin {
		t.Errorf("post-logout navigation reached view %d", m.currentView)
	}
}

func TestTriageCommandsAreGated(t *testing.T) {
	tests := []struct {
		command string
		want    ViewState
	}{
		{"refresh", ViewDashboard},
		{"mark all read", ViewMessages},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			m, _ := newModel(t, Options{})

			updated, _ := m.executeCommand(tt.command)
			m = updated.(Model)

			if m.currentView != ViewLogin {
				t.Errorf("currentView = %d, want ViewLogin", m.currentView)
			}
			if m.returnView != tt.want {
				t.Errorf("returnView = %d, want %d", m.returnView, tt.want)
			}
		})
	}
}

func TestAccountCommandIsGated(t *testing.T) {
	m, _ := newModel(t, Options{})

	updated, _ := m.executeCommand("password")
	m = updated.(Model)

	if m.currentView != ViewLogin {
		t.Errorf("currentView = %d, want ViewLogin", m.currentView)
	}
	if m.returnView != ViewAccount {
		t.Errorf("returnView = %d, want ViewAccount", m.returnView)
	}
}
