package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/teampulse/attendance-points/internal/attendance"
	"github.com/teampulse/attendance-points/internal/auth"
	"github.com/teampulse/attendance-points/internal/status"
	"github.com/teampulse/attendance-points/internal/transport/middleware"
	"github.com/teampulse/attendance-points/internal/transport/swagger"
	"github.com/teampulse/attendance-points/internal/user"
)

// StatusHandlers groups the per-category status handlers the router mounts
// under /breaks, /meetings and /projects.
type StatusHandlers struct {
	Breaks   *status.Handler
	Meetings *status.Handler
	Projects *status.Handler
}

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	attendanceHandler *attendance.Handler,
	statusHandlers StatusHandlers,
	allowedOrigins string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware())

	// Serve OpenAPI spec at root, outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", authHandler.Register)
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
			})
		}

		if authHandler == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			if userHandler != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.Get("/me", userHandler.GetCurrentUser)
					ur.Patch("/{id}/profile", userHandler.UpdateProfile)

					// Admin-only user management
					ur.Group(func(ar chi.Router) {
						ar.Use(authHandler.RequireAdmin)
						ar.Post("/", userHandler.CreateUser)
						ar.Get("/", userHandler.GetAllUsers)
						ar.Get("/{id}", userHandler.GetUser)
						ar.Patch("/{id}", userHandler.UpdateUser)
						ar.Delete("/{id}", userHandler.DeleteUser)
						ar.Post("/{id}/points", userHandler.AdjustPoints)
					})
				})
			}

			if attendanceHandler != nil {
				pr.Route("/attendance", func(ar chi.Router) {
					ar.Post("/checkin", attendanceHandler.CheckIn)
					ar.Post("/checkout", attendanceHandler.CheckOut)
					ar.Get("/me", attendanceHandler.ListOwn)

					ar.Group(func(mr chi.Router) {
						mr.Use(authHandler.RequireAdmin)
						mr.Get("/", attendanceHandler.List)
						mr.Patch("/{id}", attendanceHandler.Update)
						mr.Delete("/", attendanceHandler.Delete)
					})
				})
			}

			mountStatusRoutes(pr, "/breaks", statusHandlers.Breaks, authHandler)
			mountStatusRoutes(pr, "/meetings", statusHandlers.Meetings, authHandler)
			mountStatusRoutes(pr, "/projects", statusHandlers.Projects, authHandler)
		})
	})
}

func mountStatusRoutes(r chi.Router, prefix string, h *status.Handler, authHandler *auth.Handler) {
	if h == nil {
		return
	}
	r.Route(prefix, func(sr chi.Router) {
		sr.Get("/me", h.ListOwn)

		sr.Group(func(ar chi.Router) {
			ar.Use(authHandler.RequireAdmin)
			ar.Post("/", h.Submit)
			ar.Get("/", h.List)
			ar.Get("/user/{id}", h.ListByUser)
			ar.Patch("/{id}", h.Update)
			ar.Delete("/{id}", h.Delete)
		})
	})
}
