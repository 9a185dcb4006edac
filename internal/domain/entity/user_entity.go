package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Password always holds a bcrypt hash once the user has been persisted;
// read paths clear it before the entity leaves the service layer.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"password,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sanitize clears credential material before the user is serialized.
func (u *User) Sanitize() *User {
	if u != nil {
		u.Password = ""
	}
	return u
}

// LoginRequest is the transient username/password pair submitted on login.
// It is never persisted.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
