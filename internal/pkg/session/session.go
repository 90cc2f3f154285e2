// Package session persists per-browser gateway state: the admin bearer token
// and the booking-in-progress that must survive a page reload.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrLocked   = errors.New("lock already held")
)

// Step is where the customer is in the booking flow.
type Step string

const (
	StepSelect  Step = "select"
	StepPayment Step = "payment"
	StepOTP     Step = "otp"
	StepSuccess Step = "success"
)

// Session is everything the gateway remembers about one browser.
type Session struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Admin     *AdminAuth `json:"admin,omitempty"`
	Flow      *Flow      `json:"flow,omitempty"`
}

// AdminAuth holds the upstream admin token.
type AdminAuth struct {
	Token     string    `json:"token"`
	Username  string    `json:"username,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"` // zero when the token carries no exp
}

// Flow is the booking-in-progress.
type Flow struct {
	ShowtimeID    int64       `json:"showtime_id"`
	SelectedSeats []string    `json:"selected_seats"`
	Customer      *Customer   `json:"customer,omitempty"`
	Booking       *BookingRef `json:"booking,omitempty"`
	Step          Step        `json:"step"`
}

// Customer is the contact block entered on the booking form.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingRef caches what booking creation returned for the payment step.
type BookingRef struct {
	BookingID      int64                   `json:"booking_id"`
	TotalAmount    float64                 `json:"total_amount"`
	Status         string                  `json:"status"`
	PaymentDetails *backend.PaymentDetails `json:"payment_details,omitempty"`
}

// Store is the get/set/clear persistence behind sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, s *Session) error
	Clear(ctx context.Context, id string) error
}

// Release gives a held lock back.
type Release func(ctx context.Context) error

// Guard hands out short exclusive locks. Acquire returns ErrLocked when
// someone else holds key.
type Guard interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

// New creates an empty session with a fresh id.
func New(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now}
}

// Reload replaces s with the copy store currently holds, so a write builds on
// whatever other requests of the same browser saved since s was read. A
// session the store does not hold yet is left as is.
func Reload(ctx context.Context, store Store, s *Session) error {
	latest, err := store.Get(ctx, s.ID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reload session: %w", err)
	}
	*s = *latest
	return nil
}

// HasAdmin reports whether an admin token is stored and not known to be expired.
func (s *Session) HasAdmin(now time.Time) bool {
	if s == nil || s.Admin == nil || s.Admin.Token == "" {
		return false
	}
	return s.Admin.ExpiresAt.IsZero() || now.Before(s.Admin.ExpiresAt)
}

// FlowFor returns the flow for showtimeID, starting a new one when the
// session holds none or one for another showtime.
func (s *Session) FlowFor(showtimeID int64) *Flow {
	if s.Flow == nil || s.Flow.ShowtimeID != showtimeID {
		s.Flow = &Flow{ShowtimeID: showtimeID, Step: StepSelect}
	}
	return s.Flow
}

type contextKey string

const sessionKey contextKey = "session"

// WithContext attaches s to ctx.
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the request's session, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey).(*Session)
	return s
}
