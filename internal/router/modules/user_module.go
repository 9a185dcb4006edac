package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/eventhub-backend/internal/container"
	handlers "github.com/oksasatya/eventhub-backend/internal/interface/http"
	"github.com/oksasatya/eventhub-backend/internal/interface/middleware"
	"github.com/oksasatya/eventhub-backend/pkg/helpers"
)

// UserModule wires user HTTP handlers and JWT middleware into routes.
// Public: POST /api/users, POST /api/users/login, POST /api/users/refresh,
// GET /api/users/:id, GET /api/users?usernameFragment=
// Protected: POST /api/users/logout, POST /api/users/avatar
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP())

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.POST("/users/login", loginLimiter, m.Handler.Login)
	rg.POST("/users/refresh", refreshLimiter, m.Handler.Refresh)
	rg.GET("/users/:id", m.Handler.GetByID)
	rg.GET("/users", m.Handler.Search)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/users/logout", m.Handler.Logout)
		auth.POST("/users/avatar", m.Handler.UploadAvatar)
	}
}
