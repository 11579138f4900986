package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/elioraretreat/registration-server/internal/api/http/handler"
	"github.com/elioraretreat/registration-server/internal/api/http/middleware"
	"github.com/elioraretreat/registration-server/internal/logger"
)

// Router wires handlers and middleware into the HTTP route tree.
type Router struct {
	registrationHandler *handler.Registration
	adminHandler        *handler.Admin
	authHandler         *handler.Auth
	authenticate        *middleware.Authenticate
	logger              *logger.Logger
}

// New creates a new Router instance.
func New(
	registrationHandler *handler.Registration,
	adminHandler *handler.Admin,
	authHandler *handler.Auth,
	authenticate *middleware.Authenticate,
	logger *logger.Logger,
) *Router {
	return &Router{
		registrationHandler: registrationHandler,
		adminHandler:        adminHandler,
		authHandler:         authHandler,
		authenticate:        authenticate,
		logger:              logger,
	}
}

// Register builds the route tree: the registration form and the password
// gate are public, everything else requires an admin session token.
func (r *Router) Register() http.Handler {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(middleware.NewLogging(r.logger).Handler)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(chimiddleware.Timeout(60 * time.Second))

	mux.Route("/api", func(api chi.Router) {
		api.Post("/auth", r.authHandler.Login)
		api.Post("/registrations", r.registrationHandler.Create)
		api.Post("/uploads/url", r.registrationHandler.GenerateUploadURL)

		api.Group(func(admin chi.Router) {
			admin.Use(r.authenticate.Handler)

			admin.Get("/registrations", r.adminHandler.List)
			admin.Get("/registrations/export", r.adminHandler.Export)
			admin.Get("/registrations/{id}", r.adminHandler.Get)
			admin.Patch("/registrations/{id}", r.adminHandler.Patch)
			admin.Get("/registrations/{id}/proof-url", r.adminHandler.ProofURL)
		})
	})

	return mux
}
