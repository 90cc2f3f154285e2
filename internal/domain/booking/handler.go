package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cinebook/cinebook-gateway/internal/pkg/errorhandler"
	"github.com/cinebook/cinebook-gateway/internal/pkg/response"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
	"github.com/cinebook/cinebook-gateway/internal/pkg/storage"
)

// Handler handles customer booking HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates booking handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func showtimeID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// writeError maps service and backend failures onto responses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		errorhandler.LogValidationError(r.Context(), verr.Fields)
		response.ValidationError(w, verr.Fields)
		return
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		response.ErrorWithData(w, http.StatusConflict, "SEAT_CONFLICT",
			"Some of your seats were just taken. Please pick again.", conflict)
		return
	}

	switch {
	case errors.Is(err, ErrSubmissionInFlight):
		response.Error(w, http.StatusConflict, "SUBMISSION_IN_FLIGHT", "Your booking is already being submitted")
	case errors.Is(err, ErrSelectionLocked):
		response.Error(w, http.StatusConflict, "SELECTION_LOCKED", "Seats cannot be changed after booking")
	case errors.Is(err, ErrSeatNotInLayout):
		response.BadRequest(w, "Seat does not exist in this theater")
	case errors.Is(err, ErrNoBookingInProgress):
		response.NotFound(w, "No booking in progress")
	case errors.Is(err, ErrNotConfirmable):
		response.Conflict(w, "Booking is not confirmed yet")
	case errors.Is(err, storage.ErrFileTooLarge):
		response.BadRequest(w, "File exceeds maximum size of 10MB")
	case errors.Is(err, storage.ErrInvalidMimeType):
		response.BadRequest(w, "Payment proof must be an image")
	case errors.Is(err, storage.ErrEmptyFile):
		response.BadRequest(w, "File is empty")
	case errors.Is(err, ErrInvalidProof):
		response.BadRequest(w, "Invalid payment proof")
	default:
		errorhandler.Upstream(r.Context(), w, endpoint, err)
	}
}

// SeatMap handles GET /api/showtimes/{id}/seats
func (h *Handler) SeatMap(w http.ResponseWriter, r *http.Request) {
	id, ok := showtimeID(r)
	if !ok {
		response.BadRequest(w, "Invalid showtime ID")
		return
	}

	view, err := h.svc.SeatMap(r.Context(), session.FromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, "GET /api/showtime/{id}", err)
		return
	}
	response.OK(w, view)
}

// ToggleSeat handles POST /api/showtimes/{id}/seats/{seat}/toggle
func (h *Handler) ToggleSeat(w http.ResponseWriter, r *http.Request) {
	id, ok := showtimeID(r)
	if !ok {
		response.BadRequest(w, "Invalid showtime ID")
		return
	}

	view, err := h.svc.ToggleSeat(r.Context(), session.FromContext(r.Context()), id, chi.URLParam(r, "seat"))
	if err != nil {
		h.writeError(w, r, "GET /api/showtime/{id}", err)
		return
	}
	response.OK(w, view)
}

// Submit handles POST /api/showtimes/{id}/book
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := showtimeID(r)
	if !ok {
		response.BadRequest(w, "Invalid showtime ID")
		return
	}

	var req SubmitRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	res, err := h.svc.Submit(r.Context(), session.FromContext(r.Context()), id, req)
	if err != nil {
		h.writeError(w, r, "POST /api/book", err)
		return
	}
	response.Created(w, res)
}

// UploadProof handles POST /api/booking/payment-proof
// Multipart form: file
func (h *Handler) UploadProof(w http.ResponseWriter, r *http.Request) {
	// room for the multipart envelope around a full-size proof
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxProofSize+(1<<20))

	if err := r.ParseMultipartForm(storage.MaxProofSize); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Please choose a payment proof to upload")
		return
	}
	defer file.Close()

	out, err := h.svc.UploadProof(r.Context(), session.FromContext(r.Context()), header.Filename, file)
	if err != nil {
		h.writeError(w, r, "POST /api/upload-payment/{id}", err)
		return
	}
	response.OK(w, out)
}

// VerifyOTP handles POST /api/booking/verify-otp
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	out, err := h.svc.VerifyOTP(r.Context(), session.FromContext(r.Context()), req)
	if err != nil {
		h.writeError(w, r, "POST /api/verify-payment-otp", err)
		return
	}
	response.OK(w, out)
}

// Summary handles GET /api/booking/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Summary(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, "GET /api/booking/summary", err)
		return
	}
	response.OK(w, out)
}

// Ticket handles GET /api/booking/ticket.png
func (h *Handler) Ticket(w http.ResponseWriter, r *http.Request) {
	png, err := h.svc.Ticket(session.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, "ticket", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Reset handles DELETE /api/booking
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context(), session.FromContext(r.Context())); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reset booking", err)
		return
	}
	response.NoContent(w)
}
