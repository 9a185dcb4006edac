package repository

import (
	"context"

	"github.com/oksasatya/eventhub-backend/internal/domain/entity"
)

// GuestRepository is the persistence gateway for guest records.
type GuestRepository interface {
	// Save inserts the guest, or updates it when g.ID is set. Inserting the
	// same (event, user) pair twice updates the existing row instead of
	// creating a duplicate invitation. The returned flag reports whether a
	// new row was created.
	Save(ctx context.Context, g *entity.Guest) (created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Guest, error)
	ListByEventID(ctx context.Context, eventID string) ([]*entity.Guest, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Guest, error)
	UpdateStatus(ctx context.Context, id string, status entity.GuestStatus) (*entity.Guest, error)
	AcceptedEventIDsByUserID(ctx context.Context, userID string) ([]string, error)
}
