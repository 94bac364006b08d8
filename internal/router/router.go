package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tamuuh/tamuuh-api/internal/auth"
	"github.com/tamuuh/tamuuh-api/internal/dashboard"
	"github.com/tamuuh/tamuuh-api/internal/goal"
	"github.com/tamuuh/tamuuh-api/internal/middlewares"
	"github.com/tamuuh/tamuuh-api/internal/savings"
	"github.com/tamuuh/tamuuh-api/internal/user"
)

type RouterConfig struct {
	UserHandler      *user.Handler
	GoalHandler      *goal.Handler
	SavingsHandler   *savings.Handler
	DashboardHandler *dashboard.Handler
	CookieDomain     string
	MediaRoot        string
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", cfg.UserHandler.Signup)
		r.Post("/login", cfg.UserHandler.Login)
		r.Post("/logout", auth.NewHandler(cfg.CookieDomain).Logout)
	})

	// Stored images are public by filename; the filenames are opaque.
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaRoot))))

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/goals", goal.Routes(cfg.GoalHandler))
		r.Mount("/dashboard", dashboard.Routes(cfg.DashboardHandler))

		r.Post("/goals/{id}/deposits", cfg.SavingsHandler.Deposit)
		r.Get("/goals/{id}/deposits", cfg.SavingsHandler.List)
	})
	return r
}
