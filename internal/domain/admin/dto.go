package admin

import (
	"time"

	"github.com/cinebook/cinebook-gateway/internal/domain/booking"
	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
)

// LoginRequest holds admin credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// LoginResponse confirms a login. The token itself stays in the gateway.
type LoginResponse struct {
	Username  string     `json:"username"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ActionRequest is a status change submitted from the dashboard
type ActionRequest struct {
	Status       string `json:"status"`
	AdminRemarks string `json:"admin_remarks" validate:"max=1000"`
}

// RequestMeta identifies who made an admin request.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// ActionResult is returned after a successful status change.
type ActionResult struct {
	Message   string     `json:"message"`
	BookingID int64      `json:"booking_id"`
	OldStatus string     `json:"old_status"`
	NewStatus string     `json:"new_status"`
	Dashboard *Dashboard `json:"dashboard,omitempty"`
}

// BookingRow is one booking on the dashboard.
type BookingRow struct {
	backend.Booking
	StatusLabel    string           `json:"status_label"`
	AllowedActions []booking.Status `json:"allowed_actions"`
	HasProof       bool             `json:"has_proof"`
}

// FilterOption is one entry of the status filter.
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	Status    string             `json:"status"`
	Bookings  []BookingRow       `json:"bookings"`
	Analytics *backend.Analytics `json:"analytics"`
	Stats     map[string]int     `json:"stats"`
	Filters   []FilterOption     `json:"filters"`
}

// MovieRequest creates or updates a movie
type MovieRequest struct {
	Title           string `json:"title" validate:"required,max=255"`
	PosterURL       string `json:"poster_url" validate:"omitempty,url"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1,max=600"`
	Genre           string `json:"genre" validate:"max=100"`
	Rating          string `json:"rating" validate:"max=20"`
	Description     string `json:"description" validate:"max=5000"`
}

func (m MovieRequest) toBackend() backend.Movie {
	return backend.Movie{
		Title:           m.Title,
		PosterURL:       m.PosterURL,
		DurationMinutes: m.DurationMinutes,
		Genre:           m.Genre,
		Rating:          m.Rating,
		Description:     m.Description,
	}
}

// TheaterRequest creates or updates a theater
type TheaterRequest struct {
	Name               string   `json:"name" validate:"required,max=255"`
	Address            string   `json:"address" validate:"max=500"`
	Rows               int      `json:"rows" validate:"required,min=1,max=26"`
	LeftCols           int      `json:"left_cols" validate:"min=0,max=50"`
	RightCols          int      `json:"right_cols" validate:"min=0,max=50"`
	NonSelectableSeats []string `json:"non_selectable_seats" validate:"dive,seat"`
}

func (t TheaterRequest) toBackend() backend.Theater {
	seats := t.NonSelectableSeats
	if seats == nil {
		seats = []string{}
	}
	return backend.Theater{
		Name:               t.Name,
		Address:            t.Address,
		Rows:               t.Rows,
		LeftCols:           t.LeftCols,
		RightCols:          t.RightCols,
		NonSelectableSeats: seats,
	}
}

// ShowtimeRequest creates or updates a showtime
type ShowtimeRequest struct {
	MovieID   int64   `json:"movie_id" validate:"required,min=1"`
	TheaterID int64   `json:"theater_id" validate:"required,min=1"`
	ShowDate  string  `json:"show_date" validate:"required,showdate"`
	ShowTime  string  `json:"show_time" validate:"required,showtime"`
	Price     float64 `json:"price" validate:"gt=0"`
}

func (s ShowtimeRequest) toBackend() backend.ShowtimeInput {
	return backend.ShowtimeInput{
		MovieID:   s.MovieID,
		TheaterID: s.TheaterID,
		ShowDate:  s.ShowDate,
		ShowTime:  s.ShowTime,
		Price:     s.Price,
	}
}

// SettingsRequest updates notification settings
type SettingsRequest struct {
	AdminEmail          string `json:"admin_email" validate:"required,mailshape"`
	AdminName           string `json:"admin_name" validate:"required,max=255"`
	NotificationEnabled bool   `json:"notification_enabled"`
}

// TheaterConfigRequest updates the theater configuration record
type TheaterConfigRequest struct {
	MovieName   string  `json:"movie_name" validate:"required,max=255"`
	MoviePoster string  `json:"movie_poster" validate:"omitempty,url"`
	TheaterName string  `json:"theater_name" validate:"required,max=255"`
	ShowDate    string  `json:"show_date" validate:"required,showdate"`
	Showtime    string  `json:"showtime" validate:"required,showtime"`
	Price       float64 `json:"price" validate:"gt=0"`
}
