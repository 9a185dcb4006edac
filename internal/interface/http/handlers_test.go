package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/eventhub-backend/internal/application"
	"github.com/oksasatya/eventhub-backend/internal/domain/entity"
	"github.com/oksasatya/eventhub-backend/internal/domain/repository"
	"github.com/oksasatya/eventhub-backend/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// envelope mirrors response.APIResponse for assertions.
type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func doJSON(e *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var r *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

// fakeUserRepo is an in-memory user gateway for handler tests. createErr and
// lookupErr inject failures.
type fakeUserRepo struct {
	users     map[string]*entity.User
	createErr error
	lookupErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
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

// fakeGuestRepo is an in-memory guest gateway for handler tests.
type fakeGuestRepo struct {
	guests map[string]*entity.Guest
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
	seen := map[string]struct{}{}
	ids := make([]string, 0)
	for _, g := range f.guests {
		if g.UserID == userID && g.Status == entity.GuestStatusAccepted {
			if _, ok := seen[g.EventID]; ok {
				continue
			}
			seen[g.EventID] = struct{}{}
			ids = append(ids, g.EventID)
		}
	}
	return ids, nil
}

var (
	_ repository.UserRepository  = (*fakeUserRepo)(nil)
	_ repository.GuestRepository = (*fakeGuestRepo)(nil)
)

func newTestJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("access-test-secret", "refresh-test-secret", 15*time.Minute, 24*time.Hour)
}

// newUserRouter wires the user routes without auth middleware so handler
// behavior is exercised directly.
func newUserRouter(repo repository.UserRepository) (*gin.Engine, *UserHandler) {
	svc := application.NewUserService(repo, newTestJWT(), nil, nil, nil, "", nil, "")
	h := NewUserHandler(svc, nil, "", false)

	e := gin.New()
	api := e.Group("/api")
	api.POST("/users", h.Register)
	api.POST("/users/login", h.Login)
	api.POST("/users/refresh", h.Refresh)
	api.GET("/users", h.Search)
	api.GET("/users/:id", h.GetByID)
	return e, h
}

func newGuestRouter(guests repository.GuestRepository, users repository.UserRepository) *gin.Engine {
	svc := application.NewGuestService(guests, users, nil, nil)
	h := NewGuestHandler(svc, nil)

	e := gin.New()
	api := e.Group("/api")
	api.POST("/guests", h.ManageGuest)
	api.PATCH("/guests/:guestId/status", h.UpdateStatus)
	api.GET("/events/:eventId/guests", h.ListByEvent)
	api.GET("/users/:id/invitations", h.Invitations)
	api.GET("/users/:id/accepted-events", h.AcceptedEvents)
	return e
}

func mustRegister(t *testing.T, e *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(e, http.MethodPost, "/api/users", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"name":     "Test " + username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		ID string `json:"id"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.ID)
	return data.ID
}
