// Package audit keeps a trail of admin status changes on bookings.
package audit

import (
	"database/sql"
	"time"
)

// Entry is one recorded admin action.
type Entry struct {
	ID         int64          `db:"id"`
	BookingID  int64          `db:"booking_id"`
	ShowtimeID int64          `db:"showtime_id"`
	OldStatus  string         `db:"old_status"`
	NewStatus  string         `db:"new_status"`
	Remarks    sql.NullString `db:"remarks"`
	AdminName  sql.NullString `db:"admin_name"`
	IPAddress  sql.NullString `db:"ip_address"`
	UserAgent  sql.NullString `db:"user_agent"`
	CreatedAt  time.Time      `db:"created_at"`
}

// EntryResponse is the JSON shape of an entry.
type EntryResponse struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id"`
	ShowtimeID int64     `json:"showtime_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	Remarks    string    `json:"remarks,omitempty"`
	AdminName  string    `json:"admin_name,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts an entry for the API.
func ToResponse(e *Entry) *EntryResponse {
	return &EntryResponse{
		ID:         e.ID,
		BookingID:  e.BookingID,
		ShowtimeID: e.ShowtimeID,
		OldStatus:  e.OldStatus,
		NewStatus:  e.NewStatus,
		Remarks:    e.Remarks.String,
		AdminName:  e.AdminName.String,
		IPAddress:  e.IPAddress.String,
		UserAgent:  e.UserAgent.String,
		CreatedAt:  e.CreatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
