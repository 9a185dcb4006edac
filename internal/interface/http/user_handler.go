package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventhub-backend/internal/application"
	"github.com/oksasatya/eventhub-backend/internal/domain/entity"
	"github.com/oksasatya/eventhub-backend/pkg/helpers"
	"github.com/oksasatya/eventhub-backend/pkg/response"
	"github.com/oksasatya/eventhub-backend/pkg/validation"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookieManager(cookieDomain, cookieSecure)}
}

// registerRequest deliberately carries no binding rules beyond JSON shape;
// semantic validation is owned by the registration chain so its reasons
// reach the client verbatim.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), req.toEntity())
	if err != nil {
		if ve, ok := application.AsValidationError(err); ok {
			response.Error[any](c, http.StatusBadRequest, ve.Reason, nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Error("user registration failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to create user", nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"id": u.ID, "username": u.Username}, "user created", nil)
}

// Login POST /api/users/login
//
// Credential failures answer 401 with an empty body: an unknown username
// and a wrong password must be indistinguishable on the wire.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, pair, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if ve, ok := application.AsValidationError(err); ok {
			response.Error[any](c, http.StatusBadRequest, ve.Reason, nil)
			return
		}
		if errors.Is(err, application.ErrInvalidCredentials) {
			c.Status(http.StatusUnauthorized)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"token": pair.AccessToken,
		"user":  u,
	}, "login successful", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Refresh POST /api/users/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Error("token refresh failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "token refresh failed", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Logout POST /api/users/logout
func (h *UserHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), c.GetString("userID"))
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// GetByID GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Error("user lookup failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "user lookup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

// Search GET /api/users?usernameFragment=
func (h *UserHandler) Search(c *gin.Context) {
	fragment := c.Query("usernameFragment")
	if fragment == "" {
		response.Error[any](c, http.StatusBadRequest, "usernameFragment is required", nil)
		return
	}
	users, err := h.Svc.SearchByUsername(c.Request.Context(), fragment)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	if len(users) == 0 {
		response.Error[any](c, http.StatusNotFound, "no users found", nil)
		return
	}
	response.Success(c, http.StatusOK, users, "users", nil)
}

// UploadAvatar POST /api/users/avatar (multipart, authenticated)
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString("userID")
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "avatar upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}

func (r registerRequest) toEntity() *entity.User {
	return &entity.User{
		Username: r.Username,
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
}
