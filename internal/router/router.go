package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-staff-console/internal/config"
	"go-staff-console/internal/handler"
	"go-staff-console/internal/middleware"
)

func New(
	cfg *config.Config,
	guardMiddleware *middleware.GuardMiddleware,
	authHandler *handler.AuthHandler,
	directoryHandler *handler.DirectoryHandler,
	userHandler *handler.UserHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.Post("/signup", authHandler.Signup)
			auth.Post("/logout", authHandler.Logout)
			auth.Get("/session", authHandler.Session)
		})

		api.Route("/directory", func(dir chi.Router) {
			dir.Use(guardMiddleware.RequireSession)

			dir.Get("/roles", directoryHandler.Roles)
			dir.Get("/departments", directoryHandler.Departments)
			dir.Get("/users", directoryHandler.Users)
			dir.Post("/roles/{roleID}/select", directoryHandler.SelectRole)
			dir.Post("/pages/{page}", directoryHandler.ChangePage)
			dir.Get("/users/{ref}", userHandler.Get)
			dir.Post("/users", userHandler.Create)
			dir.Put("/users/{regNo}", userHandler.Update)
			dir.Delete("/users/{regNo}", userHandler.Delete)
		})
	})

	return r
}
