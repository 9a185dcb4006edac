package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/eventhub-backend/internal/domain/entity"
	"github.com/oksasatya/eventhub-backend/pkg/mailer"
)

func newTestGuestService() (*GuestService, *fakeGuestRepo, *fakeUserRepo) {
	guests := newFakeGuestRepo()
	users := newFakeUserRepo()
	return NewGuestService(guests, users, nil, nil), guests, users
}

func TestManageGuestCreatesWithInvitedDefault(t *testing.T) {
	svc, _, _ := newTestGuestService()

	g, err := svc.ManageGuest(context.Background(), &entity.Guest{
		EventID: uuid.NewString(),
		UserID:  uuid.NewString(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, entity.GuestStatusInvited, g.Status)
}

func TestManageGuestUpdatesExistingByID(t *testing.T) {
	svc, guests, _ := newTestGuestService()

	g, err := svc.ManageGuest(context.Background(), &entity.Guest{
		EventID: uuid.NewString(),
		UserID:  uuid.NewString(),
	})
	require.NoError(t, err)

	g.Status = entity.GuestStatusAccepted
	updated, err := svc.ManageGuest(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, g.ID, updated.ID)

	stored, err := guests.GetByID(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.GuestStatusAccepted, stored.Status)
}

func TestManageGuestDeduplicatesEventUserPair(t *testing.T) {
	svc, guests, _ := newTestGuestService()
	eventID := uuid.NewString()
	userID := uuid.NewString()

	first, err := svc.ManageGuest(context.Background(), &entity.Guest{EventID: eventID, UserID: userID})
	require.NoError(t, err)

	second, err := svc.ManageGuest(context.Background(), &entity.Guest{EventID: eventID, UserID: userID, Status: entity.GuestStatusDeclined})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "re-inviting the same pair must not duplicate the row")

	list, err := guests.ListByEventID(context.Background(), eventID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestManageGuestNotifiesOnlyOnCreate(t *testing.T) {
	guests := newFakeGuestRepo()
	users := newFakeUserRepo()
	invitee := &entity.User{Username: "alice", Email: "alice@example.com", Name: "Alice", Password: "h"}
	require.NoError(t, users.Create(context.Background(), invitee))

	pub := &fakePublisher{}
	svc := NewGuestService(guests, users, nil, pub)
	eventID := uuid.NewString()

	_, err := svc.ManageGuest(context.Background(), &entity.Guest{EventID: eventID, UserID: invitee.ID})
	require.NoError(t, err)
	require.Len(t, pub.jobs, 1)
	assert.Equal(t, "alice@example.com", pub.jobs[0].To)
	assert.Equal(t, mailer.TemplateInvitation, pub.jobs[0].Template)

	// re-posting the same pair updates the existing row
	_, err = svc.ManageGuest(context.Background(), &entity.Guest{EventID: eventID, UserID: invitee.ID, Status: entity.GuestStatusDeclined})
	require.NoError(t, err)
	assert.Len(t, pub.jobs, 1, "a conflict update must not re-send the invitation email")
}

func TestManageGuestRejectsUnknownStatus(t *testing.T) {
	svc, guests, _ := newTestGuestService()

	_, err := svc.ManageGuest(context.Background(), &entity.Guest{
		EventID: uuid.NewString(),
		UserID:  uuid.NewString(),
		Status:  entity.GuestStatus("maybe"),
	})
	require.Error(t, err)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid guest status", ve.Reason)
	assert.Empty(t, guests.guests)
}

func TestUpdateGuestStatus(t *testing.T) {
	svc, _, _ := newTestGuestService()

	g, err := svc.ManageGuest(context.Background(), &entity.Guest{
		EventID: uuid.NewString(),
		UserID:  uuid.NewString(),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateGuestStatus(context.Background(), g.ID, "accepted")
	require.NoError(t, err)
	assert.Equal(t, entity.GuestStatusAccepted, updated.Status)

	_, err = svc.UpdateGuestStatus(context.Background(), g.ID, "party")
	require.Error(t, err)
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	_, err = svc.UpdateGuestStatus(context.Background(), uuid.NewString(), "declined")
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

func TestGetGuestListByEventIDEmptyEvent(t *testing.T) {
	svc, _, _ := newTestGuestService()

	list, err := svc.GetGuestListByEventID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Empty(t, list)
}

func TestGetInvitationsByUserID(t *testing.T) {
	svc, _, _ := newTestGuestService()
	userID := uuid.NewString()

	for i := 0; i < 3; i++ {
		_, err := svc.ManageGuest(context.Background(), &entity.Guest{EventID: uuid.NewString(), UserID: userID})
		require.NoError(t, err)
	}
	_, err := svc.ManageGuest(context.Background(), &entity.Guest{EventID: uuid.NewString(), UserID: uuid.NewString()})
	require.NoError(t, err)

	invitations, err := svc.GetInvitationsByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, invitations, 3)
}

func TestGetAcceptedEventIDsDeduplicates(t *testing.T) {
	svc, guests, _ := newTestGuestService()
	userID := uuid.NewString()
	guests.acceptedIDs = []string{"e1", "e2", "e1", "e3", "e2"}

	ids, err := svc.GetAcceptedEventIDsByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2", "e3"}, ids)
}
