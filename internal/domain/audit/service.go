package audit

import (
	"context"
	"errors"
	"time"
)

// ErrDisabled is returned when no database is configured.
var ErrDisabled = errors.New("audit trail is disabled")

// Action describes an admin status change to record.
type Action struct {
	BookingID  int64
	ShowtimeID int64
	OldStatus  string
	NewStatus  string
	Remarks    string
	AdminName  string
	IPAddress  string
	UserAgent  string
}

// Service records and lists audit entries. A nil repository turns
// recording into a no-op.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates audit service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Enabled reports whether entries are persisted.
func (s *Service) Enabled() bool {
	return s.repo != nil
}

// Record stores one action.
func (s *Service) Record(ctx context.Context, a Action) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Create(ctx, &Entry{
		BookingID:  a.BookingID,
		ShowtimeID: a.ShowtimeID,
		OldStatus:  a.OldStatus,
		NewStatus:  a.NewStatus,
		Remarks:    nullString(a.Remarks),
		AdminName:  nullString(a.AdminName),
		IPAddress:  nullString(a.IPAddress),
		UserAgent:  nullString(a.UserAgent),
		CreatedAt:  s.now().UTC(),
	})
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Entry, int, error) {
	if s.repo == nil {
		return nil, 0, ErrDisabled
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}
