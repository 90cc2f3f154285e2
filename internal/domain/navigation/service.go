package navigation

import (
	"context"
	"fmt"
	"time"

	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
	"github.com/cinebook/cinebook-gateway/internal/pkg/logger"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
)

// Recovery is the booking in progress handed back after a reload.
type Recovery struct {
	ShowtimeID     int64                   `json:"showtime_id"`
	Step           session.Step            `json:"step"`
	SelectedSeats  []string                `json:"selected_seats"`
	Customer       *session.Customer       `json:"customer,omitempty"`
	BookingID      int64                   `json:"booking_id,omitempty"`
	TotalAmount    float64                 `json:"total_amount,omitempty"`
	Status         string                  `json:"status,omitempty"`
	PaymentDetails *backend.PaymentDetails `json:"payment_details,omitempty"`
}

// Navigation is what the client renders for a path.
type Navigation struct {
	Route
	AdminLoggedIn bool      `json:"admin_logged_in"`
	Redirect      string    `json:"redirect,omitempty"`
	Recovered     *Recovery `json:"recovered,omitempty"`
}

// Service resolves paths against the session.
type Service struct {
	store session.Store
	now   func() time.Time
}

// NewService creates navigation service
func NewService(store session.Store) *Service {
	return &Service{store: store, now: time.Now}
}

func recoveryOf(flow *session.Flow) *Recovery {
	rec := &Recovery{
		ShowtimeID:    flow.ShowtimeID,
		Step:          flow.Step,
		SelectedSeats: flow.SelectedSeats,
		Customer:      flow.Customer,
	}
	if b := flow.Booking; b != nil {
		rec.BookingID = b.BookingID
		rec.TotalAmount = b.TotalAmount
		rec.Status = b.Status
		rec.PaymentDetails = b.PaymentDetails
	}
	return rec
}

// Navigate resolves path for sess.
//
// Leaving the booking flow drops a selection that never became a booking.
// A payment path is only honoured when the session holds a booking for that
// showtime; otherwise the client is sent back to seat selection.
func (s *Service) Navigate(ctx context.Context, sess *session.Session, path string) (*Navigation, error) {
	nav := &Navigation{
		Route:         Resolve(path),
		AdminLoggedIn: sess.HasAdmin(s.now()),
	}

	switch nav.View {
	case ViewAdmin:
		if nav.Path == "/admin" && !nav.AdminLoggedIn {
			nav.Redirect = "/admin/login"
		} else if nav.Path == "/admin/login" && nav.AdminLoggedIn {
			nav.Redirect = "/admin"
		}
		return nav, s.leaveFlow(ctx, sess)
	case ViewShowtimes:
		return nav, s.leaveFlow(ctx, sess)
	}

	if nav.ShowtimeID == 0 {
		nav.View, nav.Stage, nav.Redirect = ViewShowtimes, "", "/showtimes"
		return nav, nil
	}

	flow := sess.Flow
	if flow != nil && flow.ShowtimeID != nav.ShowtimeID {
		flow = nil
	}

	switch nav.Stage {
	case StagePayment:
		if flow == nil || flow.Booking == nil || flow.Step == session.StepSuccess {
			logger.LogDebug(ctx, "payment page without booking, back to seat selection", "showtime_id", nav.ShowtimeID)
			nav.Redirect = BookingPath(nav.ShowtimeID)
			return nav, nil
		}
	case StageSuccess:
		if flow == nil || flow.Step != session.StepSuccess {
			flow = nil
		}
	}

	if flow != nil {
		nav.Recovered = recoveryOf(flow)
	}
	return nav, nil
}

// leaveFlow drops an unbooked selection. The stored copy decides: a booking
// another request saved since sess was read is kept.
func (s *Service) leaveFlow(ctx context.Context, sess *session.Session) error {
	if sess.Flow == nil || sess.Flow.Booking != nil {
		return nil
	}
	if err := session.Reload(ctx, s.store, sess); err != nil {
		return err
	}
	if sess.Flow == nil || sess.Flow.Booking != nil {
		return nil
	}
	sess.Flow = nil
	if err := s.store.Set(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
