package audit

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines audit data access
type Repository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter Filter) ([]*Entry, int, error)
}

// Filter narrows a listing. BookingID zero means all bookings.
type Filter struct {
	BookingID int64
	Limit     int
	Offset    int
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates audit repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS booking_audit_logs (
		id BIGSERIAL PRIMARY KEY,
		booking_id BIGINT NOT NULL,
		showtime_id BIGINT NOT NULL DEFAULT 0,
		old_status VARCHAR(32) NOT NULL,
		new_status VARCHAR(32) NOT NULL,
		remarks TEXT,
		admin_name VARCHAR(255),
		ip_address VARCHAR(64),
		user_agent TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_booking_audit_logs_booking_id ON booking_audit_logs(booking_id)`,
	`CREATE INDEX IF NOT EXISTS idx_booking_audit_logs_created_at ON booking_audit_logs(created_at DESC)`,
}

func (r *repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("audit schema: %w", err)
		}
	}
	return nil
}

func (r *repository) Create(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO booking_audit_logs (
			booking_id, showtime_id, old_status, new_status,
			remarks, admin_name, ip_address, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.db.QueryRowxContext(ctx, query,
		e.BookingID, e.ShowtimeID, e.OldStatus, e.NewStatus,
		e.Remarks, e.AdminName, e.IPAddress, e.UserAgent, e.CreatedAt,
	).Scan(&e.ID)
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Entry, int, error) {
	var args []interface{}
	where := ""
	argIdx := 1

	if filter.BookingID > 0 {
		where = " WHERE booking_id = $1"
		args = append(args, filter.BookingID)
		argIdx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM booking_audit_logs`+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT * FROM booking_audit_logs%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	var entries []*Entry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
