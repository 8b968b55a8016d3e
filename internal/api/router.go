package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rskdev/pettycash-be/internal/api/handlers"
	"github.com/rskdev/pettycash-be/internal/auth"
	"github.com/rskdev/pettycash-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens *auth.TokenManager,
	userService services.UserServiceProvider,
	expenseService services.ExpenseServiceProvider,
	avatarService services.AvatarServiceProvider,
	corsOrigin string,
	secureCookies bool,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens, secureCookies)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	avatarHandler := handlers.NewAvatarHandler(avatarService)
	systemHandler := handlers.NewSystemHandler()

	r.Route("/api/v1", func(r chi.Router) {
		// Public account flows
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", userHandler.Signup)
			r.Post("/verify-email", userHandler.VerifyEmail)
			r.Post("/login", userHandler.Login)
			r.Post("/password-reset", userHandler.SendPasswordReset)
			r.Post("/password-reset/confirm", userHandler.SetNewPassword)
		})

		r.Get("/avatars", avatarHandler.List)
		r.Get("/system/health", systemHandler.Health)

		// Authenticated profile flows
		r.Route("/users", func(r chi.Router) {
			r.Use(tokens.Middleware())
			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.EditMe)
			r.Post("/me/otp", userHandler.SendProfileOTP)
		})

		// Authenticated expense flows
		r.Route("/expenses", func(r chi.Router) {
			r.Use(tokens.Middleware())
			r.Get("/", expenseHandler.List)
			r.Post("/", expenseHandler.Add)
			r.Get("/count", expenseHandler.Count)
			r.Get("/total", expenseHandler.Total)
			r.Get("/summary", expenseHandler.Summary)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", expenseHandler.Get)
				r.Put("/", expenseHandler.Edit)
				r.Delete("/", expenseHandler.Delete)
			})
		})
	})

	return r
}
