package booking

import (
	"github.com/go-chi/chi/v5"
)

// ShowtimeRoutes returns the seat selection and submit routes, mounted under /showtimes/{id}
func (h *Handler) ShowtimeRoutes(r chi.Router) {
	r.Get("/seats", h.SeatMap)
	r.Post("/seats/{seat}/toggle", h.ToggleSeat)
	r.Post("/book", h.Submit)
}

// Routes returns the routes of the booking in progress
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/summary", h.Summary)
	r.Get("/ticket.png", h.Ticket)
	r.Post("/payment-proof", h.UploadProof)
	r.Post("/verify-otp", h.VerifyOTP)
	r.Delete("/", h.Reset)

	return r
}
