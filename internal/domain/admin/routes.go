package admin

import (
	"github.com/go-chi/chi/v5"
)

// PublicRoutes registers the routes that work without an admin token
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
}

// ProtectedRoutes registers the routes behind RequireAdmin
func (h *Handler) ProtectedRoutes(r chi.Router) {
	r.Get("/me", h.Me)
	r.Get("/dashboard", h.Dashboard)

	r.Route("/bookings/{id}", func(r chi.Router) {
		r.Put("/action", h.Action)
		r.Post("/resend-email", h.ResendEmail)
		r.Get("/proof", h.Proof)
	})

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", h.ListMovies)
		r.Post("/", h.CreateMovie)
		r.Put("/{id}", h.UpdateMovie)
		r.Delete("/{id}", h.DeleteMovie)
	})
	r.Route("/theaters", func(r chi.Router) {
		r.Get("/", h.ListTheaters)
		r.Post("/", h.CreateTheater)
		r.Put("/{id}", h.UpdateTheater)
		r.Delete("/{id}", h.DeleteTheater)
	})
	r.Route("/showtimes", func(r chi.Router) {
		r.Get("/", h.ListShowtimes)
		r.Post("/", h.CreateShowtime)
		r.Put("/{id}", h.UpdateShowtime)
		r.Delete("/{id}", h.DeleteShowtime)
	})

	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)
	r.Get("/theater-config", h.GetTheaterConfig)
	r.Put("/theater-config", h.UpdateTheaterConfig)
}
