package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/eventhub-backend/internal/domain/entity"
	"github.com/oksasatya/eventhub-backend/internal/domain/repository"
	"github.com/oksasatya/eventhub-backend/pkg/mailer"
)

// fakeUserRepo is an in-memory persistence gateway for users. createErr and
// lookupErr inject failures.
type fakeUserRepo struct {
	users       map[string]*entity.User // by id
	createCalls int
	createErr   error
	lookupErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) SearchByUsername(_ context.Context, fragment string) ([]*entity.User, error) {
	out := make([]*entity.User, 0)
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(fragment)) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

// fakeGuestRepo is an in-memory persistence gateway for guests.
type fakeGuestRepo struct {
	guests      map[string]*entity.Guest // by id
	acceptedIDs []string                 // overrides AcceptedEventIDsByUserID when set
}

func newFakeGuestRepo() *fakeGuestRepo {
	return &fakeGuestRepo{guests: map[string]*entity.Guest{}}
}

func (f *fakeGuestRepo) Save(_ context.Context, g *entity.Guest) (bool, error) {
	if g.ID == "" {
		for _, existing := range f.guests {
			if existing.EventID == g.EventID && existing.UserID == g.UserID {
				g.ID = existing.ID
				g.CreatedAt = existing.CreatedAt
				break
			}
		}
	}
	created := false
	if g.ID == "" {
		g.ID = uuid.NewString()
		g.CreatedAt = time.Now()
		created = true
	} else if _, ok := f.guests[g.ID]; !ok && g.CreatedAt.IsZero() {
		return false, repository.ErrNotFound
	}
	g.UpdatedAt = time.Now()
	cp := *g
	f.guests[g.ID] = &cp
	return created, nil
}

func (f *fakeGuestRepo) GetByID(_ context.Context, id string) (*entity.Guest, error) {
	g, ok := f.guests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGuestRepo) ListByEventID(_ context.Context, eventID string) ([]*entity.Guest, error) {
	out := make([]*entity.Guest, 0)
	for _, g := range f.guests {
		if g.EventID == eventID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeGuestRepo) ListByUserID(_ context.Context, userID string) ([]*entity.Guest, error) {
	out := make([]*entity.Guest, 0)
	for _, g := range f.guests {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeGuestRepo) UpdateStatus(_ context.Context, id string, status entity.GuestStatus) (*entity.Guest, error) {
	g, ok := f.guests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	g.Status = status
	g.UpdatedAt = time.Now()
	cp := *g
	return &cp, nil
}

func (f *fakeGuestRepo) AcceptedEventIDsByUserID(_ context.Context, userID string) ([]string, error) {
	if f.acceptedIDs != nil {
		return f.acceptedIDs, nil
	}
	ids := make([]string, 0)
	for _, g := range f.guests {
		if g.UserID == userID && g.Status == entity.GuestStatusAccepted {
			ids = append(ids, g.EventID)
		}
	}
	return ids, nil
}

// fakePublisher records enqueued email jobs.
type fakePublisher struct {
	jobs []mailer.EmailJob
}

func (f *fakePublisher) PublishJSON(_ context.Context, v any) error {
	if job, ok := v.(mailer.EmailJob); ok {
		f.jobs = append(f.jobs, job)
	}
	return nil
}

var (
	_ repository.UserRepository  = (*fakeUserRepo)(nil)
	_ repository.GuestRepository = (*fakeGuestRepo)(nil)
	_ EmailPublisher             = (*fakePublisher)(nil)
)
