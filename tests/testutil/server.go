// Package testutil provides a stub of the website backend for tests:
// token issuance, notification CRUD, triage actions and stats, with the
// same JSON shapes and status codes as the real API.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vitotech/contact-admin/internal/model"
)

// Credentials accepted by the stub token endpoint.
const (
	TestUsername = "admin"
	TestPassword = "secret"

	// TestAccessToken is the bearer token the stub issues and requires.
	TestAccessToken  = "test-access-token"
	TestRefreshToken = "test-refresh-token"
)

// Backend is an in-memory stand-in for the website backend.
type Backend struct {
	Server *httptest.Server

	mu            sync.Mutex
	notifications []*model.Notification
	nextID        int

	// FailMarkIDs makes mark_read/mark_unread return a 500 for the
	// listed ids, to exercise partial-failure handling.
	FailMarkIDs map[int]bool
}

// NewBackend starts a stub backend and shuts it down with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		nextID:      1,
		FailMarkIDs: map[int]bool{},
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the stub's base URL.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Seed inserts a notification directly, bypassing the create endpoint.
func (b *Backend) Seed(n model.Notification) model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	n.ID = b.nextID
	b.nextID++
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.UpdatedAt = n.CreatedAt
	stored := n
	b.notifications = append([]*model.Notification{&stored}, b.notifications...)
	return stored
}

// Notification returns a copy of the stored record with the given id.
func (b *Backend) Notification(id int) (model.Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, n := range b.notifications {
		if n.ID == id {
			return *n, true
		}
	}
	return model.Notification{}, false
}

func (b *Backend) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/api/auth/token/" && r.Method == http.MethodPost:
		b.handleToken(w, r)
	case path == "/api/notifications/" && r.Method == http.MethodPost:
		b.handleCreate(w, r)
	case path == "/api/notifications/" && r.Method == http.MethodGet:
		b.withAuth(w, r, b.handleList)
	case path == "/api/notifications/stats/" && r.Method == http.MethodGet:
		b.withAuth(w, r, b.handleStats)
	case strings.HasSuffix(path, "/mark_read/") && r.Method == http.MethodPost:
		b.withAuth(w, r, func(w http.ResponseWriter, r *http.Request) {
			b.handleMark(w, r, true)
		})
	case strings.HasSuffix(path, "/mark_unread/") && r.Method == http.MethodPost:
		b.withAuth(w, r, func(w http.ResponseWriter, r *http.Request) {
			b.handleMark(w, r, false)
		})
	case strings.HasPrefix(path, "/api/notifications/") && r.Method == http.MethodGet:
		b.withAuth(w, r, b.handleGet)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}

// withAuth enforces the Bearer token the way the real backend does.
func (b *Backend) withAuth(
	w http.ResponseWriter,
	r *http.Request,
	next http.HandlerFunc,
) {
	if r.Header.Get("Authorization") != "Bearer "+TestAccessToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Authentication credentials were not provided.",
		})
		return
	}
	next(w, r)
}

func (b *Backend) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Bad request."})
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username != TestUsername || password != TestPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "No active account found with the given credentials",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access":  TestAccessToken,
		"refresh": TestRefreshToken,
	})
}

func (b *Backend) handleCreate(w http.ResponseWriter, r *http.Request) {
	// Public endpoint: an Authorization header must not be required,
	// and the client is expected not to send one.
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Bad request."})
		return
	}

	for _, field := range []string{"name", "email", "phone", "message"} {
		if r.FormValue(field) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"detail": fmt.Sprintf("Missing field %q.", field),
			})
			return
		}
	}

	now := time.Now().UTC()
	n := model.Notification{
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phone"),
		Company:   r.FormValue("company"),
		Service:   r.FormValue("service"),
		Message:   r.FormValue("message"),
		CreatedAt: now,
	}

	if _, header, err := r.FormFile("attachment"); err == nil {
		uri := b.Server.URL + "/media/attachments/" + header.Filename
		n.Attachment = &uri
	}

	created := b.Seed(n)
	writeJSON(w, http.StatusCreated, created)
}

func (b *Backend) handleList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]model.Notification, 0, len(b.notifications))
	for _, n := range b.notifications {
		if v := r.URL.Query().Get("is_read"); v != "" {
			if strconv.FormatBool(n.IsRead) != v {
				continue
			}
		}
		if v := r.URL.Query().Get("service"); v != "" && n.Service != v {
			continue
		}
		if q := strings.ToLower(r.URL.Query().Get("search")); q != "" {
			if !matchesSearch(n, q) {
				continue
			}
		}
		out = append(out, *n)
	}
	writeJSON(w, http.StatusOK, out)
}

// matchesSearch mirrors the real list endpoint's search: a
// case-insensitive substring match across sender fields and the body.
func matchesSearch(n *model.Notification, query string) bool {
	for _, field := range []string{
		n.Name, n.Email, n.Phone, n.Company, n.Message,
	} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (b *Backend) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(r.URL.Path)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	n, found := b.Notification(id)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (b *Backend) handleMark(w http.ResponseWriter, r *http.Request, read bool) {
	id, ok := b.pathID(r.URL.Path)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	b.mu.Lock()
	if b.FailMarkIDs[id] {
		b.mu.Unlock()
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"detail": "Server error.",
		})
		return
	}

	var updated *model.Notification
	for _, n := range b.notifications {
		if n.ID != id {
			continue
		}
		// Idempotent, like the real endpoint.
		if read && !n.IsRead {
			now := time.Now().UTC()
			n.IsRead = true
			n.ReadAt = &now
			n.UpdatedAt = now
		} else if !read && n.IsRead {
			n.IsRead = false
			n.ReadAt = nil
			n.UpdatedAt = time.Now().UTC()
		}
		updated = n
		break
	}
	b.mu.Unlock()

	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, *updated)
}

func (b *Backend) handleStats(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := model.Stats{Total: len(b.notifications)}
	for _, n := range b.notifications {
		if n.IsRead {
			stats.Read++
		} else {
			stats.Unread++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

// pathID extracts the numeric id segment of /api/notifications/{id}/...
func (b *Backend) pathID(path string) (int, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 {
		return 0, false
	}
	id, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
