package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
	"github.com/cinebook/cinebook-gateway/internal/pkg/logger"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
	"github.com/cinebook/cinebook-gateway/internal/pkg/storage"
	"github.com/cinebook/cinebook-gateway/internal/pkg/ticket"
	"github.com/cinebook/cinebook-gateway/internal/pkg/validator"
)

// Backend is the subset of the booking backend the customer flow calls.
type Backend interface {
	GetShowtime(ctx context.Context, id int64) (*backend.ShowtimeDetail, error)
	CreateBooking(ctx context.Context, req backend.BookRequest) (*backend.BookResponse, error)
	UploadPaymentProof(ctx context.Context, bookingID int64, filename, contentType string, data []byte) (*backend.UploadResult, error)
	VerifyPaymentOTP(ctx context.Context, email, otp string) (*backend.Message, error)
}

// SeatNotifier is told whenever the gateway learns a showtime's seats changed.
type SeatNotifier interface {
	SeatsChanged(ctx context.Context, showtimeID int64)
}

// Service drives the customer booking flow for one session at a time.
type Service struct {
	api      Backend
	store    session.Store
	guard    session.Guard
	notifier SeatNotifier
}

// NewService creates the booking service. notifier may be nil.
func NewService(api Backend, store session.Store, guard session.Guard, notifier SeatNotifier) *Service {
	return &Service{api: api, store: store, guard: guard, notifier: notifier}
}

func (s *Service) notify(ctx context.Context, showtimeID int64) {
	if s.notifier != nil {
		s.notifier.SeatsChanged(ctx, showtimeID)
	}
}

func (s *Service) save(ctx context.Context, sess *session.Session) error {
	if err := s.store.Set(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func flowLockKey(sessionID string) string {
	return "booking-flow:" + sessionID
}

// lockFlow takes the session's flow lock and reloads sess from the store.
// Writes made while holding it start from the latest saved flow.
func (s *Service) lockFlow(ctx context.Context, sess *session.Session) (session.Release, error) {
	release, err := s.guard.Acquire(ctx, flowLockKey(sess.ID))
	if errors.Is(err, session.ErrLocked) {
		return nil, ErrSubmissionInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("acquire flow lock: %w", err)
	}
	if err := session.Reload(ctx, s.store, sess); err != nil {
		s.unlock(ctx, sess, release)
		return nil, err
	}
	return release, nil
}

func (s *Service) unlock(ctx context.Context, sess *session.Session, release session.Release) {
	// released even when the client went away mid-request
	if err := release(context.WithoutCancel(ctx)); err != nil {
		logger.LogError(ctx, err, "failed to release flow lock", "session_id", sess.ID)
	}
}

// update applies fn to the latest stored session under the flow lock and
// saves the result. Nothing is saved when fn fails.
func (s *Service) update(ctx context.Context, sess *session.Session, fn func(*session.Session) error) error {
	release, err := s.lockFlow(ctx, sess)
	if err != nil {
		return err
	}
	defer s.unlock(ctx, sess, release)

	if err := fn(sess); err != nil {
		return err
	}
	return s.save(ctx, sess)
}

func buildView(showtimeID int64, d *backend.ShowtimeDetail, flow *session.Flow) *SeatMapView {
	layout := Layout{Rows: d.Rows, LeftCols: d.LeftCols, RightCols: d.RightCols}
	selected := append([]string(nil), flow.SelectedSeats...)
	return &SeatMapView{
		ShowtimeID:  showtimeID,
		Movie:       d.Movie,
		MoviePoster: d.MoviePoster,
		Theater:     d.Theater,
		ShowDate:    d.ShowDate,
		Showtime:    d.Showtime,
		Price:       d.Price,
		Layout:      layout,
		Seats:       Resolve(layout, SetsFromDetail(d), selected),
		Selected:    selected,
		Total:       Total(len(selected), d.Price),
		Step:        flow.Step,
	}
}

// SeatMap loads the showtime and renders it with the session's selection.
// While still selecting, seats the server took in the meantime are dropped
// from the selection.
func (s *Service) SeatMap(ctx context.Context, sess *session.Session, showtimeID int64) (*SeatMapView, error) {
	detail, err := s.api.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	err = s.update(ctx, sess, func(sess *session.Session) error {
		flow := sess.FlowFor(showtimeID)
		if flow.Booking != nil {
			return nil
		}
		kept, dropped := Prune(SetsFromDetail(detail), flow.SelectedSeats)
		if len(dropped) > 0 {
			logger.LogDebug(ctx, "dropped seats taken by others", "showtime_id", showtimeID, "seats", dropped)
		}
		flow.SelectedSeats = kept
		return nil
	})
	if errors.Is(err, ErrSubmissionInFlight) {
		// a submit owns the flow: render what is stored, write nothing
		err = session.Reload(ctx, s.store, sess)
	}
	if err != nil {
		return nil, err
	}
	return buildView(showtimeID, detail, sess.FlowFor(showtimeID)), nil
}

// ToggleSeat flips one seat in the selection. Seats held by the server are
// a no-op; the current map is returned unchanged.
func (s *Service) ToggleSeat(ctx context.Context, sess *session.Session, showtimeID int64, seat string) (*SeatMapView, error) {
	detail, err := s.api.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	layout := Layout{Rows: detail.Rows, LeftCols: detail.LeftCols, RightCols: detail.RightCols}
	if !layout.Contains(seat) {
		return nil, ErrSeatNotInLayout
	}

	err = s.update(ctx, sess, func(sess *session.Session) error {
		flow := sess.FlowFor(showtimeID)
		if flow.Booking != nil {
			return ErrSelectionLocked
		}
		flow.SelectedSeats, _ = Toggle(SetsFromDetail(detail), flow.SelectedSeats, seat)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buildView(showtimeID, detail, sess.Flow), nil
}

// Submit validates the form, then creates the booking. Only one submission
// per session runs at a time; a second one fails fast with
// ErrSubmissionInFlight and never reaches the backend. The flow is reloaded
// under the lock, so a booking saved by another request is handed back
// instead of being created again.
func (s *Service) Submit(ctx context.Context, sess *session.Session, showtimeID int64, req SubmitRequest) (*SubmitResult, error) {
	fields := validator.Validate(&req)

	release, err := s.lockFlow(ctx, sess)
	if err != nil {
		return nil, err
	}
	defer s.unlock(ctx, sess, release)

	flow := sess.FlowFor(showtimeID)
	if flow.Booking != nil {
		// already booked from this session: hand back the same booking
		return resultFor(flow), nil
	}

	if len(flow.SelectedSeats) == 0 {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["selected_seats"] = ErrNoSeatsSelected.Error()
	}
	if fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	resp, err := s.api.CreateBooking(ctx, backend.BookRequest{
		ShowtimeID:    showtimeID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		SelectedSeats: flow.SelectedSeats,
	})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && isSeatConflict(apiErr.Status, apiErr.Detail) {
			return nil, s.refreshAfterConflict(ctx, sess, showtimeID, apiErr.Detail)
		}
		return nil, err
	}

	flow.Customer = &session.Customer{Name: req.CustomerName, Email: req.CustomerEmail, Phone: req.CustomerPhone}
	flow.Booking = &session.BookingRef{
		BookingID:      resp.BookingID,
		TotalAmount:    resp.TotalAmount,
		Status:         resp.Status,
		PaymentDetails: resp.PaymentDetails,
	}
	flow.Step = session.StepPayment
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	logger.LogInfo(ctx, "booking created", "booking_id", resp.BookingID, "showtime_id", showtimeID, "seats", flow.SelectedSeats)
	s.notify(ctx, showtimeID)

	out := resultFor(flow)
	out.Message = resp.Message
	return out, nil
}

func resultFor(flow *session.Flow) *SubmitResult {
	return &SubmitResult{
		BookingID:      flow.Booking.BookingID,
		TotalAmount:    flow.Booking.TotalAmount,
		Status:         flow.Booking.Status,
		PaymentDetails: flow.Booking.PaymentDetails,
		Next:           "/payment/" + strconv.FormatInt(flow.ShowtimeID, 10),
	}
}

func (s *Service) refreshAfterConflict(ctx context.Context, sess *session.Session, showtimeID int64, detail string) error {
	conflict := &ConflictError{Detail: detail}
	s.notify(ctx, showtimeID)

	fresh, err := s.api.GetShowtime(ctx, showtimeID)
	if err != nil {
		logger.LogWarn(ctx, "could not refresh showtime after seat conflict", "showtime_id", showtimeID, "error", err.Error())
		return conflict
	}

	flow := sess.FlowFor(showtimeID)
	flow.SelectedSeats, conflict.Dropped = Prune(SetsFromDetail(fresh), flow.SelectedSeats)
	if err := s.save(ctx, sess); err != nil {
		logger.LogError(ctx, err, "failed to save session after seat conflict")
	}
	conflict.SeatMap = buildView(showtimeID, fresh, flow)
	return conflict
}

// UploadProof validates and forwards the payment proof of the booking in progress.
func (s *Service) UploadProof(ctx context.Context, sess *session.Session, filename string, file io.Reader) (*UploadOutcome, error) {
	flow := sess.Flow
	if flow == nil || flow.Booking == nil {
		return nil, ErrNoBookingInProgress
	}

	data, mimeType, err := storage.ValidateProof(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	if filename == "" {
		filename = "payment-proof" + storage.ExtensionForMime(mimeType)
	}

	res, err := s.api.UploadPaymentProof(ctx, flow.Booking.BookingID, filename, mimeType, data)
	if err != nil {
		return nil, err
	}

	out := &UploadOutcome{Message: res.Message, RequiresOTP: res.RequiresOTP}
	bookingID := flow.Booking.BookingID
	err = s.update(ctx, sess, func(sess *session.Session) error {
		flow := sess.Flow
		if flow == nil || flow.Booking == nil || flow.Booking.BookingID != bookingID {
			return ErrNoBookingInProgress
		}
		if res.RequiresOTP {
			flow.Step = session.StepOTP
			out.Next = "/payment/" + strconv.FormatInt(flow.ShowtimeID, 10)
		} else {
			flow.Step = session.StepSuccess
			out.Next = "/success/" + strconv.FormatInt(flow.ShowtimeID, 10)
		}
		out.Step = flow.Step
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyOTP submits the emailed one-time code. A mismatch leaves the session
// untouched so the customer can retry.
func (s *Service) VerifyOTP(ctx context.Context, sess *session.Session, req OTPRequest) (*UploadOutcome, error) {
	flow := sess.Flow
	if flow == nil || flow.Booking == nil || flow.Customer == nil {
		return nil, ErrNoBookingInProgress
	}
	if fields := validator.Validate(&req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	res, err := s.api.VerifyPaymentOTP(ctx, flow.Customer.Email, req.OTP)
	if err != nil {
		return nil, err
	}

	bookingID := flow.Booking.BookingID
	err = s.update(ctx, sess, func(sess *session.Session) error {
		flow := sess.Flow
		if flow == nil || flow.Booking == nil || flow.Booking.BookingID != bookingID {
			return ErrNoBookingInProgress
		}
		flow.Step = session.StepSuccess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &UploadOutcome{
		Message: res.Message,
		Step:    session.StepSuccess,
		Next:    "/success/" + strconv.FormatInt(sess.Flow.ShowtimeID, 10),
	}, nil
}

// Summary describes the booking in progress. Showtime names are best effort.
func (s *Service) Summary(ctx context.Context, sess *session.Session) (*Summary, error) {
	flow := sess.Flow
	if flow == nil || flow.Booking == nil {
		return nil, ErrNoBookingInProgress
	}

	out := &Summary{
		BookingID:   flow.Booking.BookingID,
		ShowtimeID:  flow.ShowtimeID,
		Seats:       flow.SelectedSeats,
		TotalAmount: flow.Booking.TotalAmount,
		Customer:    flow.Customer,
		Step:        flow.Step,
	}
	if flow.Step == session.StepSuccess {
		out.TicketURL = "/api/booking/ticket.png"
	}

	detail, err := s.api.GetShowtime(ctx, flow.ShowtimeID)
	if err != nil {
		logger.LogWarn(ctx, "summary without showtime details", "showtime_id", flow.ShowtimeID, "error", err.Error())
		return out, nil
	}
	out.Movie, out.Theater = detail.Movie, detail.Theater
	out.ShowDate, out.Showtime = detail.ShowDate, detail.Showtime
	return out, nil
}

// Ticket renders the QR reference of a completed booking.
func (s *Service) Ticket(sess *session.Session) ([]byte, error) {
	flow := sess.Flow
	if flow == nil || flow.Booking == nil {
		return nil, ErrNoBookingInProgress
	}
	if flow.Step != session.StepSuccess {
		return nil, ErrNotConfirmable
	}
	return ticket.QRCode(ticket.Reference{
		BookingID:  flow.Booking.BookingID,
		ShowtimeID: flow.ShowtimeID,
		Seats:      flow.SelectedSeats,
	}, ticket.DefaultSize)
}

// Reset forgets the booking in progress ("book another ticket").
func (s *Service) Reset(ctx context.Context, sess *session.Session) error {
	return s.update(ctx, sess, func(sess *session.Session) error {
		sess.Flow = nil
		return nil
	})
}
