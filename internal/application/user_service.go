package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventhub-backend/internal/domain/entity"
	repo "github.com/oksasatya/eventhub-backend/internal/domain/repository"
	"github.com/oksasatya/eventhub-backend/pkg/helpers"
)

// UserService orchestrates registration and login: validation chain first,
// then hashing/persistence/token issuance. Redis, Elasticsearch and GCS are
// optional; a nil client disables the corresponding side effect.
type UserService struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	GCS          *storage.Client
	GCSBucket    string

	RegistrationChain []RegistrationValidator
	LoginChain        []LoginValidator
}

// TokenPair bundles access and refresh tokens with their expiries.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, gcs *storage.Client, gcsBucket string) *UserService {
	return &UserService{
		Repo:              r,
		JWT:               jwt,
		Redis:             rdb,
		Logger:            logger,
		ES:                es,
		ESUsersIndex:      esUsersIndex,
		GCS:               gcs,
		GCSBucket:         gcsBucket,
		RegistrationChain: DefaultRegistrationChain(r),
		LoginChain:        DefaultLoginChain(),
	}
}

// Register runs the registration chain, hashes the password and persists the
// user. No state is touched when any validator rejects.
func (s *UserService) Register(ctx context.Context, u *entity.User) (*entity.User, error) {
	if err := runRegistrationChain(ctx, s.RegistrationChain, u); err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(u.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserCreateFailed, err)
	}
	u.Password = hash

	if err := s.Repo.Create(ctx, u); err != nil {
		// The unique constraint closes the check-then-act window left by
		// the availability validator.
		if errors.Is(err, repo.ErrDuplicateUsername) {
			return nil, NewValidationError("username already taken")
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("username", u.Username).Error("user insert failed")
		}
		return nil, fmt.Errorf("%w: %v", ErrUserCreateFailed, err)
	}

	_ = s.indexUser(ctx, u)
	return u, nil
}

// Login validates the attempt, verifies credentials and issues a token pair.
// An unknown username and a wrong password both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*entity.User, TokenPair, error) {
	if err := runLoginChain(ctx, s.LoginChain, username, password); err != nil {
		return nil, TokenPair{}, err
	}

	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u.Sanitize(), pair, nil
}

// issueTokens generates the access/refresh pair and records a session in Redis.
func (s *UserService) issueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"username":   u.Username,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session and returns a fresh token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenPair{}, "", ErrInvalidCredentials
		}
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// Logout drops the server-side session.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis != nil && userID != "" {
		_ = s.Redis.Del(ctx, sessionKey(userID)).Err()
	}
}

// GetByID looks the user up and strips the password hash before returning.
// Only a lookup miss becomes ErrUserNotFound; other gateway errors propagate.
func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u.Sanitize(), nil
}

// SearchByUsername returns all users matching the fragment. The result may
// be empty; that is a normal outcome, not an error. Elasticsearch is used
// when configured, with the SQL gateway as fallback.
func (s *UserService) SearchByUsername(ctx context.Context, fragment string) ([]*entity.User, error) {
	if s.ES != nil && s.ESUsersIndex != "" {
		if users, err := s.searchES(ctx, fragment); err == nil {
			return users, nil
		} else if s.Logger != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to sql")
		}
	}
	users, err := s.Repo.SearchByUsername(ctx, fragment)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Sanitize()
	}
	return users, nil
}

func (s *UserService) searchES(ctx context.Context, fragment string) ([]*entity.User, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  fragment,
				"type":   "bool_prefix",
				"fields": []string{"username^2", "name"},
			},
		},
		"size": 25,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search status %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source *entity.User `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		if h.Source != nil {
			out = append(out, h.Source.Sanitize())
		}
	}
	return out, nil
}

// indexUser mirrors the profile into Elasticsearch, best effort. The hash
// never reaches the index.
func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"name":       u.Name,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// UploadAvatar stores the image in GCS and updates the profile.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	_ = s.indexUser(ctx, u)
	return url, nil
}
