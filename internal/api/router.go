package api

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/habit-tracker-be/internal/api/handlers"
	"github.com/isdelr/habit-tracker-be/internal/auth"
	"github.com/isdelr/habit-tracker-be/internal/metrics"
	"github.com/isdelr/habit-tracker-be/internal/services"
	"github.com/isdelr/habit-tracker-be/internal/websocket"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	DB                  *sql.DB
	Hub                 *websocket.Hub
	Resolver            auth.IdentityResolver
	Tokens              handlers.TokenIssuer // nil unless sessions are token based
	SecureCookies       bool
	AllowedOrigins      []string
	UserService         services.UserServiceProvider
	HabitService        services.HabitServiceProvider
	CompletionService   services.CompletionServiceProvider
	NotificationService services.NotificationServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.UserIDHeader},
		AllowCredentials: deps.Tokens != nil,
		MaxAge:           300,
	}))

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(deps.UserService, deps.Tokens, deps.SecureCookies)
	habitHandler := handlers.NewHabitHandler(deps.HabitService)
	completionHandler := handlers.NewCompletionHandler(deps.CompletionService)
	notificationHandler := handlers.NewNotificationHandler(deps.NotificationService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Get("/healthz", healthHandler.Check)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public account endpoints
		r.Get("/check-email", accountHandler.CheckEmail)
		r.Post("/signup", accountHandler.Signup)
		r.Post("/login", accountHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireIdentity(deps.Resolver))

			r.Route("/habits", func(r chi.Router) {
				r.Get("/", habitHandler.GetAll)
				r.Post("/", habitHandler.Create)
				r.Put("/{id}", habitHandler.Update)
				r.Delete("/{id}", habitHandler.Delete)
			})

			r.Route("/completions", func(r chi.Router) {
				r.Get("/", completionHandler.GetAll)
				r.Post("/", completionHandler.Record)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.GetRecent)
				r.Post("/", notificationHandler.Create)
				r.Put("/{id}/read", notificationHandler.MarkRead)
			})

			if deps.Hub != nil {
				wsHandler := handlers.NewWebSocketHandler(deps.Hub, origins)
				r.Get("/ws", wsHandler.Serve)
			}
		})
	})

	return r
}
