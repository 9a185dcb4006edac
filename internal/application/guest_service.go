package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventhub-backend/internal/domain/entity"
	repo "github.com/oksasatya/eventhub-backend/internal/domain/repository"
	"github.com/oksasatya/eventhub-backend/pkg/helpers"
	"github.com/oksasatya/eventhub-backend/pkg/mailer"
)

// EmailPublisher enqueues email jobs for the worker. helpers.RabbitPublisher
// is the production implementation.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, v any) error
}

var _ EmailPublisher = (*helpers.RabbitPublisher)(nil)

// GuestService manages the invitation lifecycle for events. The publisher is
// optional; when absent no invitation emails are enqueued.
type GuestService struct {
	Guests repo.GuestRepository
	Users  repo.UserRepository
	Logger *logrus.Logger
	Pub    EmailPublisher
}

func NewGuestService(guests repo.GuestRepository, users repo.UserRepository, logger *logrus.Logger, pub EmailPublisher) *GuestService {
	return &GuestService{Guests: guests, Users: users, Logger: logger, Pub: pub}
}

// ManageGuest creates or updates a guest record. A guest without an id is a
// new invitation; re-inviting the same user to the same event updates the
// existing row instead of duplicating it. Only a genuine insert triggers the
// invitation email, so re-posting an existing pair stays silent.
func (s *GuestService) ManageGuest(ctx context.Context, g *entity.Guest) (*entity.Guest, error) {
	if g.Status == "" {
		g.Status = entity.GuestStatusInvited
	}
	if _, err := entity.ParseGuestStatus(string(g.Status)); err != nil {
		return nil, NewValidationError("invalid guest status")
	}

	created, err := s.Guests.Save(ctx, g)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	if created {
		s.notifyInvitee(ctx, g)
	}
	return g, nil
}

// notifyInvitee enqueues an invitation email for a freshly invited user.
// Failures are logged and swallowed; the invitation itself already exists.
func (s *GuestService) notifyInvitee(ctx context.Context, g *entity.Guest) {
	if s.Pub == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, g.UserID)
	if err != nil || u == nil || u.Email == "" {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateInvitation,
		Data: map[string]any{
			"Name":    u.Name,
			"EventID": g.EventID,
			"GuestID": g.ID,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("guest_id", g.ID).Warn("invitation email enqueue failed")
	}
}

// GetGuestListByEventID returns every guest of an event. An event without
// guests yields an empty list.
func (s *GuestService) GetGuestListByEventID(ctx context.Context, eventID string) ([]*entity.Guest, error) {
	guests, err := s.Guests.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if guests == nil {
		guests = []*entity.Guest{}
	}
	return guests, nil
}

// UpdateGuestStatus moves an existing guest to a recognized status.
func (s *GuestService) UpdateGuestStatus(ctx context.Context, guestID, status string) (*entity.Guest, error) {
	st, err := entity.ParseGuestStatus(status)
	if err != nil {
		return nil, NewValidationError("invalid guest status")
	}
	g, err := s.Guests.UpdateStatus(ctx, guestID, st)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return g, nil
}

// GetInvitationsByUserID returns every guest record where the user is the
// invitee.
func (s *GuestService) GetInvitationsByUserID(ctx context.Context, userID string) ([]*entity.Guest, error) {
	guests, err := s.Guests.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if guests == nil {
		guests = []*entity.Guest{}
	}
	return guests, nil
}

// GetAcceptedEventIDsByUserID returns the distinct event ids the user has
// accepted. The query already deduplicates; the map guards against
// repositories that do not.
func (s *GuestService) GetAcceptedEventIDsByUserID(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.Guests.AcceptedEventIDsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
