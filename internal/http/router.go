package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"skillswap/internal/auth"
	"skillswap/internal/bookings"
	"skillswap/internal/config"
	"skillswap/internal/skills"
)

// NewRouter wires application routes and middleware using chi.
// google may be nil when federated sign-in is not configured; the
// /api/auth/google routes are simply not mounted in that case.
func NewRouter(cfg config.Config, authService *auth.Service, skillService *skills.Service, bookingService *bookings.Service, google GoogleAuthenticator, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newRecovererMiddleware(logger))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(newSecurityHeadersMiddleware(cfg.Environment))
	r.Use(newSlogMiddleware(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	})

	authHandler := NewAuthHandler(authService, cfg.Environment, cfg.SessionTTL, cfg.WebmailURL, logger)
	profileHandler := NewProfileHandler(authService, logger)
	skillHandler := NewSkillHandler(skillService, bookingService, logger)

	requireAuth := newAuthMiddleware(authService, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", authHandler.SessionStatus)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			if google != nil {
				oauthHandler := NewOAuthHandler(google, authService, cfg.FrontendURL, cfg.Environment, cfg.SessionTTL, logger)
				r.Get("/google", oauthHandler.InitiateGoogle)
				r.Get("/google/callback", oauthHandler.CallbackGoogle)
			}
		})

		r.Route("/skills", func(r chi.Router) {
			r.Get("/", skillHandler.List)
			r.Get("/categories", skillHandler.Categories)
			r.Get("/popular", skillHandler.Popular)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/export", skillHandler.Export)
				r.Route("/{skillID}", func(r chi.Router) {
					r.Get("/", skillHandler.Get)
					r.Post("/bookings", skillHandler.Book)
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", profileHandler.Get)
			r.Put("/profile", profileHandler.Update)
		})
	})

	if cfg.StaticDir != "" {
		spa := newSPAHandler(cfg.StaticDir)
		pageGuard := newPageGuardMiddleware(authService, logger)

		r.Group(func(r chi.Router) {
			r.Use(pageGuard)
			r.Handle("/skill/*", spa)
			r.Handle("/profile", spa)
		})
		r.NotFound(spa.ServeHTTP)
	} else {
		r.NotFound(http.NotFoundHandler().ServeHTTP)
	}

	return r
}
