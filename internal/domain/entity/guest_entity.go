package entity

import (
	"fmt"
	"time"
)

// GuestStatus is the invitation lifecycle state of a guest.
type GuestStatus string

const (
	GuestStatusInvited  GuestStatus = "invited"
	GuestStatusAccepted GuestStatus = "accepted"
	GuestStatusDeclined GuestStatus = "declined"
)

// ParseGuestStatus validates a raw status value at the boundary.
func ParseGuestStatus(s string) (GuestStatus, error) {
	switch GuestStatus(s) {
	case GuestStatusInvited, GuestStatusAccepted, GuestStatusDeclined:
		return GuestStatus(s), nil
	}
	return "", fmt.Errorf("unknown guest status %q", s)
}

// Guest links a user to an event with an invitation status.
// Many guests per user, many guests per event; the event itself is an
// external entity referenced only by id.
type Guest struct {
	ID        string      `json:"id"`
	EventID   string      `json:"event_id"`
	UserID    string      `json:"user_id"`
	Status    GuestStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
