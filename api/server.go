/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. CORS:            Cross-origin requests for the frontend
  2. RequestLogger:   Structured request logging (httplog over slog)
  3. CleanPath/Recoverer/Heartbeat: chi housekeeping
  4. jwtauth.Verifier + RequireIdentity: token verification and typed
     identity extraction for everything under /api
  5. AdminOnly:       Role gate on admin route groups

ROUTE GROUPS:
  /api/clock/*          Time clock (caller identity)
  /api/sales, /reviews  Record production (caller identity)
  /api/payroll/*        Summaries
  /api/config           Non-secret engine settings for clients
  /api/notifications/*  High-value review workflow (mutations admin-only)
  /api/employees/*      HR reads (admin except self-read)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// NewRouter creates the router with all routes configured. The auth
// verifier is built once from the configured secret (see NewAuth).
func NewRouter(h *Handler, auth *jwtauth.JWTAuth, env string) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "brokerage-engine"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api", func(r chi.Router) {
		r.Use(jwtauth.Verifier(auth))
		r.Use(RequireIdentity)

		r.Route("/clock", func(r chi.Router) {
			r.Post("/in", h.ClockIn)
			r.Post("/out", h.ClockOut)
			r.Post("/break/start", h.StartBreak)
			r.Post("/break/end", h.EndBreak)
			r.Get("/status", h.ClockStatus)
		})

		r.Post("/sales", h.RecordSale)
		r.Post("/reviews", h.RecordReview)

		r.Get("/payroll/summary", h.WeeklySummary)

		r.Get("/config", h.ClientConfig)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(AdminOnly)
				r.Get("/counts", h.NotificationCounts)
				r.Post("/{id}/review", h.MarkReviewed)
				r.Post("/{id}/resolve", h.ResolveNotification)
				r.Post("/{id}/unresolve", h.UnresolveNotification)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/{id}", h.GetEmployee)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(AdminOnly)
				r.Get("/", h.ListEmployees)
				r.Post("/", h.CreateEmployee)
			})
		})
	})

	r.Get("/", h.Status)

	return r
}
