// Package notification is the typed client for the backend's contact
// message API: public creation from the contact form, and the
// authenticated list/detail/triage operations used by the admin console.
package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vitotech/contact-admin/internal/api"
	"github.com/vitotech/contact-admin/internal/model"
)

// Attachment is a file submitted with a contact message.
type Attachment struct {
	Filename string
	Data     []byte
}

// Payload holds the fields of a contact-form submission. Name, Email,
// Phone and Message are required by the backend; the rest are optional.
type Payload struct {
	Name       string
	Email      string
	Phone      string
	Message    string
	Company    string
	Service    string
	Attachment *Attachment
}

// ListOptions are the optional server-side filters on the list endpoint.
type ListOptions struct {
	// IsRead filters by read status when non-nil.
	IsRead *bool

	// Service filters by the exact service choice.
	Service string

	// Search matches name, email, phone, company and message.
	Search string
}

// Service wraps the notification endpoints of the backend API.
type Service struct {
	client *api.Client
}

// NewService creates a notification service over the given client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Create submits a contact message. This is the one public operation:
// it goes through the client's multipart path, which never attaches the
// admin token. The attachment, when present, is validated client-side
// first; the backend remains the authority on what it accepts.
func (s *Service) Create(ctx context.Context, payload Payload) (*model.Notification, error) {
	if payload.Attachment != nil {
		err := ValidateAttachment(
			payload.Attachment.Filename,
			int64(len(payload.Attachment.Data)),
		)
		if err != nil {
			return nil, err
		}
	}

	form := api.NewForm().
		AddField("name", payload.Name).
		AddField("email", payload.Email).
		AddField("phone", payload.Phone).
		AddField("message", payload.Message)

	if payload.Company != "" {
		form.AddField("company", payload.Company)
	}
	if payload.Service != "" {
		form.AddField("service", payload.Service)
	}
	if payload.Attachment != nil {
		form.AddFile(
			"attachment",
			payload.Attachment.Filename,
			payload.Attachment.Data,
		)
	}

	var created model.Notification
	err := s.client.DoForm(
		ctx, http.MethodPost, "/api/notifications/", form, &created,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// List fetches notifications, newest first. Admin only.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]model.Notification, error) {
	path := "/api/notifications/"
	if query := opts.encode(); query != "" {
		path += "?" + query
	}

	var notifications []model.Notification
	err := s.client.DoAuthed(ctx, http.MethodGet, path, nil, &notifications)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// Get fetches a single notification by id. Admin only; a missing id
// comes back as a 404 API error.
func (s *Service) Get(ctx context.Context, id int) (*model.Notification, error) {
	var n model.Notification
	path := fmt.Sprintf("/api/notifications/%d/", id)
	if err := s.client.DoAuthed(ctx, http.MethodGet, path, nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkRead marks a notification read and returns the updated record.
// Idempotent: marking an already-read notification is not an error.
func (s *Service) MarkRead(ctx context.Context, id int) (*model.Notification, error) {
	return s.mark(ctx, id, "mark_read")
}

// MarkUnread marks a notification unread and returns the updated record.
func (s *Service) MarkUnread(ctx context.Context, id int) (*model.Notification, error) {
	return s.mark(ctx, id, "mark_unread")
}

func (s *Service) mark(ctx context.Context, id int, action string) (*model.Notification, error) {
	var n model.Notification
	path := fmt.Sprintf("/api/notifications/%d/%s/", id, action)
	if err := s.client.DoAuthed(ctx, http.MethodPost, path, nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Stats fetches the backend's total/read/unread aggregate. Admin only.
func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	err := s.client.DoAuthed(
		ctx, http.MethodGet, "/api/notifications/stats/", nil, &stats,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (o ListOptions) encode() string {
	values := url.Values{}
	if o.IsRead != nil {
		values.Set("is_read", strconv.FormatBool(*o.IsRead))
	}
	if o.Service != "" {
		values.Set("service", o.Service)
	}
	if o.Search != "" {
		values.Set("search", o.Search)
	}
	return values.Encode()
}
