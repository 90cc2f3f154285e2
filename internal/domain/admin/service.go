package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cinebook/cinebook-gateway/internal/domain/audit"
	"github.com/cinebook/cinebook-gateway/internal/domain/booking"
	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
	"github.com/cinebook/cinebook-gateway/internal/pkg/jwt"
	"github.com/cinebook/cinebook-gateway/internal/pkg/logger"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
	"github.com/cinebook/cinebook-gateway/internal/pkg/validator"
)

// Backend is the part of the booking backend admins work against.
type Backend interface {
	Login(ctx context.Context, username, password string) (*backend.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*backend.AdminProfile, error)

	ListBookings(ctx context.Context, token, status string) ([]backend.Booking, error)
	BookingStats(ctx context.Context, token string) (map[string]int, error)
	Analytics(ctx context.Context, token string) (*backend.Analytics, error)
	GetBooking(ctx context.Context, token string, id int64) (*backend.Booking, error)
	BookingAction(ctx context.Context, token string, id int64, req backend.ActionRequest) (*backend.Message, error)
	ResendEmail(ctx context.Context, token string, id int64) (*backend.Message, error)
	PaymentProof(ctx context.Context, token string, id int64) ([]byte, string, error)
	GetShowtime(ctx context.Context, id int64) (*backend.ShowtimeDetail, error)
}

// Recorder persists admin actions.
type Recorder interface {
	Record(ctx context.Context, a audit.Action) error
}

// enrichLimit bounds concurrent showtime lookups per dashboard load.
const enrichLimit = 4

// Service implements admin auth, the dashboard and booking actions.
type Service struct {
	api      Backend
	store    session.Store
	recorder Recorder
	notifier booking.SeatNotifier
	now      func() time.Time
}

// NewService creates admin service. recorder and notifier may be nil.
func NewService(api Backend, store session.Store, recorder Recorder, notifier booking.SeatNotifier) *Service {
	return &Service{api: api, store: store, recorder: recorder, notifier: notifier, now: time.Now}
}

// token returns the session's admin token, purging one that has expired.
func (s *Service) token(ctx context.Context, sess *session.Session) (string, error) {
	if sess.HasAdmin(s.now()) {
		return sess.Admin.Token, nil
	}
	if sess.Admin != nil {
		s.purge(ctx, sess)
		return "", ErrSessionExpired
	}
	return "", ErrNotLoggedIn
}

// purge forgets the rejected token. A token stored since sess was read
// (a fresh login) is left alone.
func (s *Service) purge(ctx context.Context, sess *session.Session) {
	var rejected string
	if sess.Admin != nil {
		rejected = sess.Admin.Token
	}
	if err := session.Reload(ctx, s.store, sess); err != nil {
		logger.LogError(ctx, err, "failed to reload session before purge", "session_id", sess.ID)
	}
	if sess.Admin != nil && sess.Admin.Token != rejected {
		return
	}
	sess.Admin = nil
	if err := s.store.Set(ctx, sess); err != nil {
		logger.LogError(ctx, err, "failed to purge admin token", "session_id", sess.ID)
	}
}

// check turns a backend rejection of the token into ErrSessionExpired and
// forgets the token. There is no retry.
func (s *Service) check(ctx context.Context, sess *session.Session, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, backend.ErrUnauthorized) {
		logger.LogWarn(ctx, "backend rejected admin token", "session_id", sess.ID)
		s.purge(ctx, sess)
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return err
}

// call runs fn with the admin token and handles token rejection.
func call[T any](ctx context.Context, s *Service, sess *session.Session, fn func(token string) (T, error)) (T, error) {
	var zero T
	token, err := s.token(ctx, sess)
	if err != nil {
		return zero, err
	}
	out, err := fn(token)
	if err != nil {
		return zero, s.check(ctx, sess, err)
	}
	return out, nil
}

// Login exchanges credentials for a backend token and keeps it in the session.
func (s *Service) Login(ctx context.Context, sess *session.Session, req LoginRequest) (*LoginResponse, error) {
	if fields := validator.Validate(&req); fields != nil {
		return nil, &booking.ValidationError{Fields: fields}
	}

	res, err := s.api.Login(ctx, req.Username, req.Password)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, fmt.Errorf("login: backend returned no token")
	}

	now := s.now()
	expiresAt := jwt.ExpiresAt(res.AccessToken, res.ExpiresIn, now)
	if !expiresAt.IsZero() && !now.Before(expiresAt) {
		return nil, ErrSessionExpired
	}

	if err := session.Reload(ctx, s.store, sess); err != nil {
		return nil, err
	}
	sess.Admin = &session.AdminAuth{Token: res.AccessToken, Username: req.Username, ExpiresAt: expiresAt}
	if err := s.store.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	logger.LogInfo(ctx, "admin logged in", "username", req.Username, "token_fp", jwt.Fingerprint(res.AccessToken))

	out := &LoginResponse{Username: req.Username}
	if !expiresAt.IsZero() {
		out.ExpiresAt = &expiresAt
	}
	return out, nil
}

// Logout tells the backend best-effort and always forgets the token.
func (s *Service) Logout(ctx context.Context, sess *session.Session) error {
	if sess.Admin == nil {
		return nil
	}
	if err := s.api.Logout(ctx, sess.Admin.Token); err != nil {
		logger.LogWarn(ctx, "backend logout failed", "error", err.Error())
	}
	if err := session.Reload(ctx, s.store, sess); err != nil {
		return err
	}
	sess.Admin = nil
	return s.store.Set(ctx, sess)
}

// Me checks that the stored token is still accepted.
func (s *Service) Me(ctx context.Context, sess *session.Session) (*backend.AdminProfile, error) {
	return call(ctx, s, sess, func(token string) (*backend.AdminProfile, error) {
		return s.api.Me(ctx, token)
	})
}

// Dashboard loads bookings (optionally filtered), analytics and per-status
// counts in parallel, then fills in showtime details.
func (s *Service) Dashboard(ctx context.Context, sess *session.Session, status string) (*Dashboard, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		status = "all"
	}
	filter := ""
	if status != "all" {
		st, err := booking.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter = string(st)
	}

	token, err := s.token(ctx, sess)
	if err != nil {
		return nil, err
	}

	var (
		list      []backend.Booking
		analytics *backend.Analytics
		stats     map[string]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.api.ListBookings(gctx, token, filter)
		return err
	})
	g.Go(func() error {
		var err error
		analytics, err = s.api.Analytics(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.api.BookingStats(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.check(ctx, sess, err)
	}

	s.enrich(ctx, list)

	rows := make([]BookingRow, len(list))
	for i, b := range list {
		st := booking.Status(b.Status)
		rows[i] = BookingRow{
			Booking:        b,
			StatusLabel:    booking.Label(b.Status),
			AllowedActions: st.AllowedTargets(),
			HasProof:       b.PaymentProof != nil && *b.PaymentProof != "",
		}
	}
	if stats == nil {
		stats = map[string]int{}
	}

	return &Dashboard{
		Status:    status,
		Bookings:  rows,
		Analytics: analytics,
		Stats:     stats,
		Filters:   FilterOptions(stats),
	}, nil
}

// enrich copies movie and theater names onto bookings. A showtime that
// cannot be loaded leaves its bookings as they are.
func (s *Service) enrich(ctx context.Context, list []backend.Booking) {
	ids := make(map[int64]struct{})
	for _, b := range list {
		if b.ShowtimeID > 0 {
			ids[b.ShowtimeID] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return
	}

	var mu sync.Mutex
	details := make(map[int64]*backend.ShowtimeDetail, len(ids))

	var g errgroup.Group
	g.SetLimit(enrichLimit)
	for id := range ids {
		g.Go(func() error {
			d, err := s.api.GetShowtime(ctx, id)
			if err != nil {
				logger.LogDebug(ctx, "showtime lookup failed", "showtime_id", id, "error", err.Error())
				return nil
			}
			mu.Lock()
			details[id] = d
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i := range list {
		d, ok := details[list[i].ShowtimeID]
		if !ok {
			continue
		}
		list[i].MovieTitle = d.Movie
		list[i].TheaterName = d.Theater
		list[i].ShowDate = d.ShowDate
		list[i].ShowTime = d.Showtime
	}
}

// FilterOptions builds the status filter: "all" first, labelled with the
// sum of every count, then one entry per known status in lifecycle order.
// Stats keys the gateway cannot filter by only count towards "all".
func FilterOptions(stats map[string]int) []FilterOption {
	total := 0
	for _, n := range stats {
		total += n
	}

	out := make([]FilterOption, 0, len(booking.Statuses)+1)
	out = append(out, FilterOption{Value: "all", Label: fmt.Sprintf("All Bookings (%d)", total), Count: total})
	for _, st := range booking.Statuses {
		n, ok := stats[string(st)]
		if !ok {
			continue
		}
		out = append(out, FilterOption{
			Value: string(st),
			Label: fmt.Sprintf("%s (%d)", booking.Label(string(st)), n),
			Count: n,
		})
	}
	return out
}

// ApplyAction moves a booking to a new status. Nothing reaches the backend
// unless a status was chosen and the move is allowed from the current one.
// On success the dashboard is reloaded with filter.
func (s *Service) ApplyAction(ctx context.Context, sess *session.Session, id int64, req ActionRequest, filter string, meta RequestMeta) (*ActionResult, error) {
	fail := func(current string, err error) (*ActionResult, error) {
		return nil, &ActionError{Request: req, Current: current, Err: err}
	}

	if strings.TrimSpace(req.Status) == "" {
		return fail("", ErrStatusRequired)
	}
	if fields := validator.Validate(&req); fields != nil {
		return fail("", &booking.ValidationError{Fields: fields})
	}
	next, err := booking.ParseStatus(req.Status)
	if err != nil {
		return fail("", err)
	}

	token, err := s.token(ctx, sess)
	if err != nil {
		return fail("", err)
	}

	current, err := s.api.GetBooking(ctx, token, id)
	if err != nil {
		return fail("", s.check(ctx, sess, err))
	}
	if !booking.Status(current.Status).CanTransitionTo(next) {
		return fail(current.Status, fmt.Errorf("%w: %s -> %s", booking.ErrInvalidStatusTransition, current.Status, next))
	}

	msg, err := s.api.BookingAction(ctx, token, id, backend.ActionRequest{Status: string(next), AdminRemarks: req.AdminRemarks})
	if err != nil {
		return fail(current.Status, s.check(ctx, sess, err))
	}

	logger.LogInfo(ctx, "booking status changed", "booking_id", id, "from", current.Status, "to", next)
	s.record(ctx, sess, current, next, req.AdminRemarks, meta)
	if s.notifier != nil {
		s.notifier.SeatsChanged(ctx, current.ShowtimeID)
	}

	out := &ActionResult{
		Message:   msg.Message,
		BookingID: id,
		OldStatus: current.Status,
		NewStatus: string(next),
	}
	dash, err := s.Dashboard(ctx, sess, filter)
	if err != nil {
		// the action itself went through
		logger.LogWarn(ctx, "dashboard refresh after action failed", "error", err.Error())
		return out, nil
	}
	out.Dashboard = dash
	return out, nil
}

func (s *Service) record(ctx context.Context, sess *session.Session, b *backend.Booking, next booking.Status, remarks string, meta RequestMeta) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(ctx, audit.Action{
		BookingID:  b.ID,
		ShowtimeID: b.ShowtimeID,
		OldStatus:  b.Status,
		NewStatus:  string(next),
		Remarks:    remarks,
		AdminName:  sess.Admin.Username,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	})
	if err != nil {
		logger.LogError(ctx, err, "failed to record audit entry", "booking_id", b.ID)
	}
}

// ResendEmail asks the backend to send the confirmation again.
func (s *Service) ResendEmail(ctx context.Context, sess *session.Session, id int64) (*backend.Message, error) {
	return call(ctx, s, sess, func(token string) (*backend.Message, error) {
		return s.api.ResendEmail(ctx, token, id)
	})
}
