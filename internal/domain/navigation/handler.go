package navigation

import (
	"net/http"

	"github.com/cinebook/cinebook-gateway/internal/pkg/errorhandler"
	"github.com/cinebook/cinebook-gateway/internal/pkg/response"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
)

// Handler handles navigation HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates navigation handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Resolve handles GET /api/navigation?path=
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	nav, err := h.svc.Navigate(r.Context(), session.FromContext(r.Context()), r.URL.Query().Get("path"))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve navigation", err)
		return
	}
	response.OK(w, nav)
}
