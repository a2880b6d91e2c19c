package model

import (
	"testing"
	"time"
)

func TestToMessageMapsReadFlagToStatus(t *testing.T) {
	now := time.Now().UTC()
	uri := "https://backend.example.com/media/attachments/brief.pdf"

	n := Notification{
		ID:         3,
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		Phone:      "+31 6 12345678",
		Company:    "Analytical Engines",
		Service:    "IT Consulting",
		Message:    "Hello",
		Attachment: &uri,
		IsRead:     true,
		ReadAt:     &now,
		CreatedAt:  now,
	}

	msg := n.ToMessage()
	if msg.Status != StatusRead {
		t.Errorf("Status = %q, want %q", msg.Status, StatusRead)
	}
	if msg.ID != 3 || msg.Name != n.Name || msg.Email != n.Email {
		t.Errorf("projection dropped identity fields: %+v", msg)
	}
	if msg.Attachment == nil || *msg.Attachment != uri {
		t.Errorf("Attachment = %v, want %q", msg.Attachment, uri)
	}

	n.IsRead = false
	n.ReadAt = nil
	if got := n.ToMessage().Status; got != StatusUnread {
		t.Errorf("Status = %q, want %q", got, StatusUnread)
	}
}
