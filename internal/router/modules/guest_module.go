package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/eventhub-backend/internal/container"
	handlers "github.com/oksasatya/eventhub-backend/internal/interface/http"
	"github.com/oksasatya/eventhub-backend/internal/interface/middleware"
	"github.com/oksasatya/eventhub-backend/pkg/helpers"
)

// GuestModule wires the invitation lifecycle routes. All routes require an
// authenticated session.
type GuestModule struct {
	Handler *handlers.GuestHandler
	JWT     *helpers.JWTManager
}

func NewGuestModule(h *handlers.GuestHandler, jwt *helpers.JWTManager) *GuestModule {
	return &GuestModule{Handler: h, JWT: jwt}
}

func (m *GuestModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/guests", m.Handler.ManageGuest)
		auth.PATCH("/guests/:guestId/status", m.Handler.UpdateStatus)
		auth.GET("/events/:eventId/guests", m.Handler.ListByEvent)
		auth.GET("/users/:id/invitations", m.Handler.Invitations)
		auth.GET("/users/:id/accepted-events", m.Handler.AcceptedEvents)
	}
}
