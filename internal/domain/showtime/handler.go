package showtime

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
	"github.com/cinebook/cinebook-gateway/internal/pkg/errorhandler"
	"github.com/cinebook/cinebook-gateway/internal/pkg/response"
)

// Lister fetches the public showtime listing.
type Lister interface {
	ListShowtimes(ctx context.Context) ([]backend.Showtime, error)
}

// Handler serves the showtime selection page
type Handler struct {
	api Lister
}

// NewHandler creates showtime handler
func NewHandler(api Lister) *Handler {
	return &Handler{api: api}
}

// List handles GET /api/showtimes
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.api.ListShowtimes(r.Context())
	if err != nil {
		errorhandler.Upstream(r.Context(), w, "GET /showtimes", err)
		return
	}

	response.OK(w, map[string]interface{}{
		"groups": GroupByMovieDate(list),
		"total":  len(list),
	})
}

// Routes returns showtime routes. perShowtime registers the routes under
// /{id}; it may be nil.
func (h *Handler) Routes(perShowtime func(r chi.Router)) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	if perShowtime != nil {
		r.Route("/{id}", perShowtime)
	}
	return r
}
