package auth_test

import (
	"context"
	"testing"

	"github.com/vitotech/contact-admin/internal/api"
	"github.com/vitotech/contact-admin/internal/auth"
	"github.com/vitotech/contact-admin/internal/session"
	"github.com/vitotech/contact-admin/tests/testutil"
)

func newService(t *testing.T) (*auth.Service, *session.MemoryStore) {
	t.Helper()

	backend := testutil.NewBackend(t)
	sess := session.NewMemoryStore()
	client := api.NewClient(backend.URL(), sess)
	return auth.NewService(client, sess), sess
}

func TestLoginStoresTokensAndDisplayName(t *testing.T) {
	svc, sess := newService(t)

	err := svc.Login(context.Background(), testutil.TestUsername, testutil.TestPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if got := sess.AccessToken(); got != testutil.TestAccessToken {
		t.Errorf("AccessToken() = %q, want %q", got, testutil.TestAccessToken)
	}
	if got := sess.RefreshToken(); got != testutil.TestRefreshToken {
		t.Errorf("RefreshToken() = %q, want %q", got, testutil.TestRefreshToken)
	}
	if got := svc.DisplayName(); got != testutil.TestUsername {
		t.Errorf("DisplayName() = %q, want %q", got, testutil.TestUsername)
	}
	if !svc.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after login")
	}
}

func TestLoginRejectedStoresNothing(t *testing.T) {
	svc, sess := newService(t)

	err := svc.Login(context.Background(), testutil.TestUsername, "wrong")
	if err == nil {
		t.Fatal("Login with bad credentials succeeded")
	}
	if !api.IsUnauthorized(err) {
		t.Errorf("error = %v, want a 401 API error", err)
	}
	if got := sess.AccessToken(); got != "" {
		t.Errorf("AccessToken() = %q after failed login, want empty", got)
	}
	if svc.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after failed login")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	svc, sess := newService(t)

	err := svc.Login(context.Background(), testutil.TestUsername, testutil.TestPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if svc.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
	if got := sess.DisplayName(); got != "" {
		t.Errorf("DisplayName() = %q after logout, want empty", got)
	}
}
