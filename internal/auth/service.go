// Package auth exchanges admin credentials for a token pair and exposes
// the account operations of the backend's users API.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitotech/contact-admin/internal/api"
	"github.com/vitotech/contact-admin/internal/session"
)

// Service wraps the backend's auth endpoints. Login and Logout are the
// only writers of the session store.
type Service struct {
	client  *api.Client
	session session.Store
}

// NewService creates an auth service over the given client and session.
func NewService(client *api.Client, sess session.Store) *Service {
	return &Service{client: client, session: sess}
}

// Login exchanges username/password for a token pair and stores it,
// together with the username as the cached display name. The token
// endpoint takes a multipart body; a 401 means bad credentials and is
// surfaced as the client's typed error.
func (s *Service) Login(ctx context.Context, username, password string) error {
	form := api.NewForm().
		AddField("username", username).
		AddField("password", password)

	var pair session.TokenPair
	err := s.client.DoForm(ctx, http.MethodPost, "/api/auth/token/", form, &pair)
	if err != nil {
		return err
	}

	if err := s.session.SetTokens(pair); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	if err := s.session.SetDisplayName(username); err != nil {
		return fmt.Errorf("storing display name: %w", err)
	}
	return nil
}

// Logout clears the stored credential and the cached display name.
func (s *Service) Logout() error {
	return s.session.Clear()
}

// IsAuthenticated reports whether an access token is present. No expiry
// check happens client-side; a stale token is rejected by the backend on
// the next request.
func (s *Service) IsAuthenticated() bool {
	return s.session.AccessToken() != ""
}

// DisplayName returns the cached admin display name for the UI greeting.
func (s *Service) DisplayName() string {
	return s.session.DisplayName()
}

// ChangePassword updates the current admin's password. The backend
// verifies the current password and may return a detail message in the
// error body.
func (s *Service) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{
		"current_password": current,
		"new_password":     next,
	}
	return s.client.DoAuthed(
		ctx, http.MethodPost, "/api/auth/change-password/", body, nil,
	)
}

// ChangeUsername updates the current admin's username and refreshes the
// cached display name on success.
func (s *Service) ChangeUsername(ctx context.Context, username string) error {
	body := map[string]string{"username": username}
	err := s.client.DoAuthed(
		ctx, http.MethodPost, "/api/auth/change-username/", body, nil,
	)
	if err != nil {
		return err
	}
	if err := s.session.SetDisplayName(username); err != nil {
		return fmt.Errorf("updating display name: %w", err)
	}
	return nil
}

// AdminPayload holds the fields for creating another admin user.
type AdminPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// CreateAdmin creates another admin account.
func (s *Service) CreateAdmin(ctx context.Context, payload AdminPayload) error {
	return s.client.DoAuthed(
		ctx, http.MethodPost, "/api/auth/create-admin/", payload, nil,
	)
}
