package router

import (
	"github.com/oksasatya/eventhub-backend/internal/application"
	"github.com/oksasatya/eventhub-backend/internal/container"
	pginfra "github.com/oksasatya/eventhub-backend/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/eventhub-backend/internal/interface/http"
	"github.com/oksasatya/eventhub-backend/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// and registers all feature modules. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	guestRepo := pginfra.NewGuestRepository(container.GetPGPool())

	userSvc := application.NewUserService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
		container.GetGCS(),
		cfg.GCSBucket,
	)
	// A nil *RabbitPublisher must stay a nil interface so the service skips
	// publishing instead of calling through a typed nil.
	var pub application.EmailPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	guestSvc := application.NewGuestService(
		guestRepo,
		userRepo,
		container.GetLogger(),
		pub,
	)

	userHandler := handlers.NewUserHandler(userSvc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	guestHandler := handlers.NewGuestHandler(guestSvc, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewGuestModule(guestHandler, container.GetJWT()))
}
