package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cinebook/cinebook-gateway/internal/domain/booking"
	"github.com/cinebook/cinebook-gateway/internal/middleware"
	"github.com/cinebook/cinebook-gateway/internal/pkg/errorhandler"
	"github.com/cinebook/cinebook-gateway/internal/pkg/response"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
)

// Handler handles admin HTTP requests
type Handler struct {
	svc     *Service
	catalog *CatalogService
	proofs  *ProofService
}

// NewHandler creates admin handler
func NewHandler(svc *Service, catalog *CatalogService, proofs *ProofService) *Handler {
	return &Handler{svc: svc, catalog: catalog, proofs: proofs}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func writeError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	var verr *booking.ValidationError

	switch {
	case errors.Is(err, ErrSessionExpired):
		response.Redirect(w, ErrSessionExpired.Error(), LoginPath)
	case errors.Is(err, ErrNotLoggedIn):
		response.Redirect(w, "Please log in", LoginPath)
	case errors.Is(err, ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid username or password")
	case errors.As(err, &verr):
		errorhandler.LogValidationError(r.Context(), verr.Fields)
		response.ValidationError(w, verr.Fields)
	case errors.Is(err, booking.ErrUnknownStatus):
		response.BadRequest(w, "Unknown booking status")
	case errors.Is(err, ErrProofNotFound):
		response.NotFound(w, "Payment proof not found")
	default:
		errorhandler.Upstream(r.Context(), w, endpoint, err)
	}
}

// Login handles POST /api/admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	out, err := h.svc.Login(r.Context(), session.FromContext(r.Context()), req)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			response.Unauthorized(w, "Backend issued an expired token")
			return
		}
		writeError(w, r, "POST /api/admin/login", err)
		return
	}
	response.OK(w, out)
}

// Logout handles POST /api/admin/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), session.FromContext(r.Context())); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log out", err)
		return
	}
	response.OK(w, map[string]string{"message": "Logged out"})
}

// Me handles GET /api/admin/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.svc.Me(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, "GET /api/admin/me", err)
		return
	}
	response.OK(w, me)
}

// Dashboard handles GET /api/admin/dashboard?status=
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context(), session.FromContext(r.Context()), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, "GET /api/bookings", err)
		return
	}
	response.OK(w, dash)
}

// Action handles PUT /api/admin/bookings/{id}/action
func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req ActionRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	meta := RequestMeta{IP: middleware.ClientIP(r), UserAgent: r.UserAgent()}
	out, err := h.svc.ApplyAction(r.Context(), session.FromContext(r.Context()), id, req, r.URL.Query().Get("status"), meta)
	if err != nil {
		h.actionError(w, r, err)
		return
	}
	response.OK(w, out)
}

func (h *Handler) actionError(w http.ResponseWriter, r *http.Request, err error) {
	var aerr *ActionError
	if !errors.As(err, &aerr) {
		writeError(w, r, "PUT /api/booking/{id}/action", err)
		return
	}
	details := aerr.Submitted()

	var verr *booking.ValidationError
	switch {
	case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrNotLoggedIn):
		writeError(w, r, "PUT /api/booking/{id}/action", err)
	case errors.Is(err, ErrStatusRequired):
		response.ErrorWithDetails(w, http.StatusUnprocessableEntity, "STATUS_REQUIRED", ErrStatusRequired.Error(), details)
	case errors.As(err, &verr):
		for k, v := range verr.Fields {
			details[k] = v
		}
		response.ErrorWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
	case errors.Is(err, booking.ErrUnknownStatus):
		response.ErrorWithDetails(w, http.StatusBadRequest, "UNKNOWN_STATUS", "Unknown booking status", details)
	case errors.Is(err, booking.ErrInvalidStatusTransition):
		response.ErrorWithDetails(w, http.StatusConflict, "INVALID_TRANSITION", err.Error(), details)
	default:
		errorhandler.UpstreamWithDetails(r.Context(), w, "PUT /api/booking/{id}/action", err, details)
	}
}

// ResendEmail handles POST /api/admin/bookings/{id}/resend-email
func (h *Handler) ResendEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	msg, err := h.svc.ResendEmail(r.Context(), session.FromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, "POST /api/booking/{id}/resend-email", err)
		return
	}
	response.OK(w, msg)
}

// Proof handles GET /api/admin/bookings/{id}/proof[?size=thumb]
func (h *Handler) Proof(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	sess := session.FromContext(r.Context())
	var (
		proof *Proof
		err   error
	)
	if r.URL.Query().Get("size") == "thumb" {
		proof, err = h.proofs.Thumbnail(r.Context(), sess, id)
	} else {
		proof, err = h.proofs.Proof(r.Context(), sess, id)
	}
	if err != nil {
		writeError(w, r, "GET /api/payment-proof/{id}", err)
		return
	}

	contentType := proof.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(proof.Data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Header().Set("Content-Length", strconv.Itoa(len(proof.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(proof.Data)
}
