package audit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cinebook/cinebook-gateway/internal/pkg/errorhandler"
	"github.com/cinebook/cinebook-gateway/internal/pkg/response"
)

// Handler handles audit HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates audit handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/admin/audit
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := Filter{}

	if b := q.Get("booking_id"); b != "" {
		id, err := strconv.ParseInt(b, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(w, "Invalid booking ID")
			return
		}
		filter.BookingID = id
	}
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil {
			filter.Limit = v
		}
	}
	if o := q.Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil {
			filter.Offset = v
		}
	}

	entries, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			response.Error(w, http.StatusServiceUnavailable, "AUDIT_DISABLED", "Audit trail is not configured")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list audit entries", err)
		return
	}

	items := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		items[i] = ToResponse(e)
	}
	response.OK(w, map[string]interface{}{
		"items": items,
		"total": total,
	})
}
