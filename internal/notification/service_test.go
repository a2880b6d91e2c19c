package notification_test

import (
	"context"
	"testing"

	"github.com/vitotech/contact-admin/internal/api"
	"github.com/vitotech/contact-admin/internal/model"
	"github.com/vitotech/contact-admin/internal/notification"
	"github.com/vitotech/contact-admin/internal/session"
	"github.com/vitotech/contact-admin/tests/testutil"
)

func newService(t *testing.T, authed bool) (*notification.Service, *testutil.Backend) {
	t.Helper()

	backend := testutil.NewBackend(t)
	sess := session.NewMemoryStore()
	if authed {
		pair := session.TokenPair{
			Access:  testutil.TestAccessToken,
			Refresh: testutil.TestRefreshToken,
		}
		if err := sess.SetTokens(pair); err != nil {
			t.Fatalf("SetTokens: %v", err)
		}
	}
	client := api.NewClient(backend.URL(), sess)
	return notification.NewService(client), backend
}

func TestCreateStartsUnread(t *testing.T) {
	svc, _ := newService(t, false)

	created, err := svc.Create(context.Background(), notification.Payload{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Phone:   "+31 6 12345678",
		Message: "I would like a quote.",
		Company: "Analytical Engines",
		Service: "Website Development",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == 0 {
		t.Error("created.ID = 0, want assigned id")
	}
	if created.IsRead {
		t.Error("created.IsRead = true, want unread on arrival")
	}
	if created.ReadAt != nil {
		t.Errorf("created.ReadAt = %v, want nil", created.ReadAt)
	}
	if created.Attachment != nil {
		t.Errorf("created.Attachment = %v, want nil without a file", created.Attachment)
	}
}

func TestCreateWithAttachment(t *testing.T) {
	svc, backend := newService(t, false)

	created, err := svc.Create(context.Background(), notification.Payload{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Phone:   "+31 6 12345678",
		Message: "Quote attached.",
		Attachment: &notification.Attachment{
			Filename: "brief.pdf",
			Data:     []byte("%PDF-1.4 fake"),
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Attachment == nil {
		t.Fatal("created.Attachment = nil, want a URL")
	}

	stored, ok := backend.Notification(created.ID)
	if !ok {
		t.Fatalf("notification %d not stored", created.ID)
	}
	if stored.Attachment == nil {
		t.Error("stored record has no attachment URL")
	}
}

func TestCreateRejectsBadAttachmentBeforeNetwork(t *testing.T) {
	svc, backend := newService(t, false)

	_, err := svc.Create(context.Background(), notification.Payload{
		Name:    "Ada",
		Email:   "ada@example.com",
		Phone:   "1",
		Message: "hi",
		Attachment: &notification.Attachment{
			Filename: "script.exe",
			Data:     []byte("MZ"),
		},
	})
	if err == nil {
		t.Fatal("Create with disallowed extension succeeded")
	}

	stats, statsErr := statsOf(t, backend)
	if statsErr != nil {
		t.Fatalf("stats: %v", statsErr)
	}
	if stats.Total != 0 {
		t.Errorf("backend has %d records, want 0: rejection must be client-side", stats.Total)
	}
}

// statsOf reads the backend's aggregate through an authenticated service.
func statsOf(t *testing.T, backend *testutil.Backend) (*model.Stats, error) {
	t.Helper()

	sess := session.NewMemoryStore()
	pair := session.TokenPair{Access: testutil.TestAccessToken}
	if err := sess.SetTokens(pair); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	svc := notification.NewService(api.NewClient(backend.URL(), sess))
	return svc.Stats(context.Background())
}

func TestListRequiresAuth(t *testing.T) {
	svc, _ := newService(t, false)

	_, err := svc.List(context.Background(), notification.ListOptions{})
	if !api.IsUnauthorized(err) {
		t.Fatalf("List without token: err = %v, want 401", err)
	}
}

func TestListFiltersByReadStatus(t *testing.T) {
	svc, backend := newService(t, true)

	backend.Seed(model.Notification{Name: "A", Email: "a@x.com", Phone: "1", Message: "m"})
	backend.Seed(model.Notification{Name: "B", Email: "b@x.com", Phone: "2", Message: "m", IsRead: true})

	unread := false
	got, err := svc.List(context.Background(), notification.ListOptions{IsRead: &unread})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "A" {
		t.Errorf("filtered list = %+v, want only the unread record", got)
	}
}

func TestListFiltersByService(t *testing.T) {
	svc, backend := newService(t, true)

	backend.Seed(model.Notification{
		Name: "A", Email: "a@x.com", Phone: "1", Message: "m",
		Service: "IT Consulting",
	})
	backend.Seed(model.Notification{
		Name: "B", Email: "b@x.com", Phone: "2", Message: "m",
		Service: "Website Development",
	})

	got, err := svc.List(context.Background(), notification.ListOptions{
		Service: "IT Consulting",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "A" {
		t.Errorf("filtered list = %+v, want only the IT Consulting record", got)
	}
}

func TestListFiltersBySearch(t *testing.T) {
	svc, backend := newService(t, true)

	backend.Seed(model.Notification{
		Name: "Ada Lovelace", Email: "ada@engines.example", Phone: "1",
		Company: "Analytical Engines", Message: "Quote please",
	})
	backend.Seed(model.Notification{
		Name: "Grace Hopper", Email: "grace@navy.example", Phone: "2",
		Message: "Compiler consulting",
	})

	tests := []struct {
		search string
		want   string
	}{
		{"lovelace", "Ada Lovelace"},   // name, case-insensitive
		{"navy.example", "Grace Hopper"}, // email
		{"Analytical", "Ada Lovelace"}, // company
		{"compiler", "Grace Hopper"},   // message body
	}
	for _, tt := range tests {
		got, err := svc.List(context.Background(), notification.ListOptions{
			Search: tt.search,
		})
		if err != nil {
			t.Fatalf("List(search=%q): %v", tt.search, err)
		}
		if len(got) != 1 || got[0].Name != tt.want {
			t.Errorf("List(search=%q) = %+v, want only %q", tt.search, got, tt.want)
		}
	}
}

func TestGetMissingIsNotFound(t *testing.T) {
	svc, _ := newService(t, true)

	_, err := svc.Get(context.Background(), 9999)
	if !api.IsNotFound(err) {
		t.Fatalf("Get missing id: err = %v, want 404", err)
	}
}

func TestMarkReadSetsReadAt(t *testing.T) {
	svc, backend := newService(t, true)
	seeded := backend.Seed(model.Notification{
		Name: "A", Email: "a@x.com", Phone: "1", Message: "m",
	})

	updated, err := svc.MarkRead(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !updated.IsRead {
		t.Error("updated.IsRead = false after MarkRead")
	}
	if updated.ReadAt == nil {
		t.Error("updated.ReadAt = nil after MarkRead")
	}

	// Idempotent: marking again keeps the original timestamp.
	again, err := svc.MarkRead(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("MarkRead again: %v", err)
	}
	if !again.ReadAt.Equal(*updated.ReadAt) {
		t.Errorf("ReadAt changed on repeat: %v != %v", again.ReadAt, updated.ReadAt)
	}
}

func TestMarkUnreadClearsReadAt(t *testing.T) {
	svc, backend := newService(t, true)
	seeded := backend.Seed(model.Notification{
		Name: "A", Email: "a@x.com", Phone: "1", Message: "m", IsRead: true,
	})

	updated, err := svc.MarkUnread(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("MarkUnread: %v", err)
	}
	if updated.IsRead {
		t.Error("updated.IsRead = true after MarkUnread")
	}
	if updated.ReadAt != nil {
		t.Errorf("updated.ReadAt = %v after MarkUnread, want nil", updated.ReadAt)
	}
}

func TestStatsCountsReadAndUnread(t *testing.T) {
	svc, backend := newService(t, true)

	backend.Seed(model.Notification{Name: "A", Email: "a@x.com", Phone: "1", Message: "m"})
	backend.Seed(model.Notification{Name: "B", Email: "b@x.com", Phone: "2", Message: "m", IsRead: true})
	backend.Seed(model.Notification{Name: "C", Email: "c@x.com", Phone: "3", Message: "m"})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := model.Stats{Total: 3, Read: 1, Unread: 2}
	if *stats != want {
		t.Errorf("Stats = %+v, want %+v", *stats, want)
	}
}
