package admin

import (
	"net/http"

	"github.com/cinebook/cinebook-gateway/internal/pkg/response"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
)

// ListMovies handles GET /api/admin/movies
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListMovies(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, "GET /admin/movies", err)
		return
	}
	response.OK(w, items)
}

// CreateMovie handles POST /api/admin/movies
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req MovieRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	created, err := h.catalog.CreateMovie(r.Context(), session.FromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, "POST /admin/movies", err)
		return
	}
	response.Created(w, created)
}

// UpdateMovie handles PUT /api/admin/movies/{id}
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid movie ID")
		return
	}
	var req MovieRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.catalog.UpdateMovie(r.Context(), session.FromContext(r.Context()), id, req); err != nil {
		writeError(w, r, "PUT /admin/movies/{id}", err)
		return
	}
	response.OK(w, map[string]string{"message": "Movie updated"})
}

// DeleteMovie handles DELETE /api/admin/movies/{id}
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid movie ID")
		return
	}
	if err := h.catalog.DeleteMovie(r.Context(), session.FromContext(r.Context()), id); err != nil {
		writeError(w, r, "DELETE /admin/movies/{id}", err)
		return
	}
	response.NoContent(w)
}

// ListTheaters handles GET /api/admin/theaters
func (h *Handler) ListTheaters(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListTheaters(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, "GET /admin/theaters", err)
		return
	}
	response.OK(w, items)
}

// CreateTheater handles POST /api/admin/theaters
func (h *Handler) CreateTheater(w http.ResponseWriter, r *http.Request) {
	var req TheaterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	created, err := h.catalog.CreateTheater(r.Context(), session.FromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, "POST /admin/theaters", err)
		return
	}
	response.Created(w, created)
}

// UpdateTheater handles PUT /api/admin/theaters/{id}
func (h *Handler) UpdateTheater(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid theater ID")
		return
	}
	var req TheaterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.catalog.UpdateTheater(r.Context(), session.FromContext(r.Context()), id, req); err != nil {
		writeError(w, r, "PUT /admin/theaters/{id}", err)
		return
	}
	response.OK(w, map[string]string{"message": "Theater updated"})
}

// DeleteTheater handles DELETE /api/admin/theaters/{id}
func (h *Handler) DeleteTheater(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid theater ID")
		return
	}
	if err := h.catalog.DeleteTheater(r.Context(), session.FromContext(r.Context()), id); err != nil {
		writeError(w, r, "DELETE /admin/theaters/{id}", err)
		return
	}
	response.NoContent(w)
}

// ListShowtimes handles GET /api/admin/showtimes
func (h *Handler) ListShowtimes(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListShowtimes(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, "GET /admin/showtimes", err)
		return
	}
	response.OK(w, items)
}

// CreateShowtime handles POST /api/admin/showtimes
func (h *Handler) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var req ShowtimeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	created, err := h.catalog.CreateShowtime(r.Context(), session.FromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, "POST /admin/showtimes", err)
		return
	}
	response.Created(w, created)
}

// UpdateShowtime handles PUT /api/admin/showtimes/{id}
func (h *Handler) UpdateShowtime(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid showtime ID")
		return
	}
	var req ShowtimeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.catalog.UpdateShowtime(r.Context(), session.FromContext(r.Context()), id, req); err != nil {
		writeError(w, r, "PUT /admin/showtimes/{id}", err)
		return
	}
	response.OK(w, map[string]string{"message": "Showtime updated"})
}

// DeleteShowtime handles DELETE /api/admin/showtimes/{id}
func (h *Handler) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid showtime ID")
		return
	}
	if err := h.catalog.DeleteShowtime(r.Context(), session.FromContext(r.Context()), id); err != nil {
		writeError(w, r, "DELETE /admin/showtimes/{id}", err)
		return
	}
	response.NoContent(w)
}

// GetSettings handles GET /api/admin/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.catalog.GetSettings(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, "GET /admin/settings", err)
		return
	}
	response.OK(w, s)
}

// UpdateSettings handles PUT /api/admin/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.catalog.UpdateSettings(r.Context(), session.FromContext(r.Context()), req); err != nil {
		writeError(w, r, "PUT /admin/settings", err)
		return
	}
	response.OK(w, map[string]string{"message": "Settings updated"})
}

// GetTheaterConfig handles GET /api/admin/theater-config
func (h *Handler) GetTheaterConfig(w http.ResponseWriter, r *http.Request) {
	tc, err := h.catalog.GetTheaterConfig(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, "GET /admin/theater-config", err)
		return
	}
	response.OK(w, tc)
}

// UpdateTheaterConfig handles PUT /api/admin/theater-config
func (h *Handler) UpdateTheaterConfig(w http.ResponseWriter, r *http.Request) {
	var req TheaterConfigRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.catalog.UpdateTheaterConfig(r.Context(), session.FromContext(r.Context()), req); err != nil {
		writeError(w, r, "PUT /admin/theater-config", err)
		return
	}
	response.OK(w, map[string]string{"message": "Theater configuration updated"})
}
