package model

import "time"

// MessageStatus is the two-value display status of a contact message.
type MessageStatus string

const (
	StatusRead   MessageStatus = "read"
	StatusUnread MessageStatus = "unread"
)

// ServiceChoices lists the services a visitor can ask about on the
// contact form. Mirrors the backend's service field choices.
var ServiceChoices = []string{
	"AI Services",
	"Website Development",
	"Mobile App Development",
	"Branding & Design",
	"Bulk SMS Integration",
	"IT Consulting",
	"Other",
}

// Notification is the backend's record of a contact-form submission.
// Field names follow the REST API's JSON shape.
type Notification struct {
	// ID is assigned by the backend on creation.
	ID int `json:"id"`

	// Name is the full name of the person who submitted the form.
	Name string `json:"name"`

	// Email is the sender's contact email.
	Email string `json:"email"`

	// Phone is the sender's phone number.
	Phone string `json:"phone"`

	// Company is the sender's company or organization, if given.
	Company string `json:"company"`

	// Service is the service the sender is interested in, if given.
	Service string `json:"service"`

	// Message is the body of the submission.
	Message string `json:"message"`

	// Attachment is the URI of the uploaded file, or nil when the
	// submission carried no file.
	Attachment *string `json:"attachment"`

	// IsRead reports whether an admin has marked the message read.
	IsRead bool `json:"is_read"`

	// ReadAt is when the message was marked read. It is non-nil
	// exactly when IsRead is true.
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactMessage is the admin console's display projection of a
// Notification. Consumers never mutate it directly; status changes go
// through the mark_read/mark_unread endpoints and the shell's callbacks.
type ContactMessage struct {
	ID         int
	Name       string
	Email      string
	Phone      string
	Company    string
	Service    string
	Message    string
	Attachment *string
	Status     MessageStatus
	CreatedAt  time.Time
}

// ToMessage projects a backend Notification into the display model,
// mapping the is_read boolean onto the status enum.
func (n Notification) ToMessage() ContactMessage {
	status := StatusUnread
	if n.IsRead {
		status = StatusRead
	}
	return ContactMessage{
		ID:         n.ID,
		Name:       n.Name,
		Email:      n.Email,
		Phone:      n.Phone,
		Company:    n.Company,
		Service:    n.Service,
		Message:    n.Message,
		Attachment: n.Attachment,
		Status:     status,
		CreatedAt:  n.CreatedAt,
	}
}

// Stats is the backend's aggregate over all notifications.
type Stats struct {
	Total  int `json:"total"`
	Read   int `json:"read"`
	Unread int `json:"unread"`
}
